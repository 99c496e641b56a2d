package main

import (
	"flag"
	"fmt"
	"os"

	"incident-dashboard/be/config"
	"incident-dashboard/be/database"
	"incident-dashboard/be/logging"
	"incident-dashboard/be/models"

	"github.com/apex/log"
	"github.com/joho/godotenv"
)

func main() {
	reset := flag.Bool("reset", false, "delete existing cameras and incidents before seeding")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()
	logging.Setup(cfg.Log)

	// Seeding is explicit here, never implicit on connect
	cfg.Database.SeedDemo = false

	db, err := database.Initialize(cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}

	if *reset {
		if err := database.Reset(db); err != nil {
			log.WithError(err).Fatal("failed to reset demo data")
		}
		fmt.Println("Existing cameras and incidents deleted")
	}

	var count int64
	if err := db.Model(&models.Camera{}).Count(&count).Error; err != nil {
		log.WithError(err).Fatal("failed to count cameras")
	}
	if count > 0 {
		fmt.Printf("Database already has %d cameras, nothing to do (use -reset to reseed)\n", count)
		os.Exit(0)
	}

	result, err := database.Seed(db, database.Today())
	if err != nil {
		log.WithError(err).Fatal("failed to seed demo data")
	}

	fmt.Println("✅ Demo data seeded successfully!")
	fmt.Printf("   Cameras: %d\n", result.Cameras)
	fmt.Printf("   Incidents: %d\n", result.Incidents)
}
