package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"incident-dashboard/be/config"
	"incident-dashboard/be/database"
	"incident-dashboard/be/handlers"
	"incident-dashboard/be/logging"
	"incident-dashboard/be/metrics"
	"incident-dashboard/be/middleware"
	"incident-dashboard/be/services"

	"github.com/apex/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// Load environment variables
	envErr := godotenv.Load()

	// Load configuration
	cfg := config.Load()
	logging.Setup(cfg.Log)
	if envErr != nil {
		log.Info("No .env file found, using environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := database.Initialize(cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize database")
	}

	metrics.Register()

	hub := services.NewEventHub()
	hubDone := make(chan struct{})
	go func() {
		defer close(hubDone)
		hub.Run(ctx)
	}()

	router := setupRouter(cfg, db, hub)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.WithField("port", cfg.Server.Port).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server shutdown failed")
	}
	<-hubDone

	if err := closeDatabase(db); err != nil {
		log.WithError(err).Error("database close failed")
	}
	log.Info("server stopped")
}

func closeDatabase(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

func setupRouter(cfg *config.Config, db *gorm.DB, hub *services.EventHub) *gin.Engine {
	// Set Gin mode
	if cfg.Server.GinMode == gin.ReleaseMode || cfg.Server.GinMode == gin.TestMode {
		gin.SetMode(cfg.Server.GinMode)
	}

	incidentService := services.NewIncidentService(db)
	cameraService := services.NewCameraService(db)
	footageService := services.NewFootageService(cfg.MediaMTX)

	incidentHandler := handlers.NewIncidentHandler(incidentService, footageService, hub)
	cameraHandler := handlers.NewCameraHandler(cameraService)
	timelineHandler := handlers.NewTimelineHandler(incidentService, cameraService, cfg.Timeline.Location())
	eventsHandler := handlers.NewEventsHandler(hub, cfg.Server.AllowedOrigins)
	healthHandler := handlers.NewHealthHandler(db, hub)

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(), middleware.Metrics())

	allowed := make(map[string]bool, len(cfg.Server.AllowedOrigins))
	for _, origin := range cfg.Server.AllowedOrigins {
		allowed[origin] = true
	}
	router.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			// Allow requests with no origin (like curl requests)
			return origin == "" || allowed[origin]
		},
		AllowMethods:     []string{"GET", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * 3600, // 12 hours
	}))

	// Health check and metrics
	router.GET("/health", healthHandler.Health)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := router.Group("/api")
	{
		// The event stream is excluded from gzip, it is hijacked for the websocket upgrade
		api.GET("/events", eventsHandler.Stream)

		rest := api.Group("")
		rest.Use(gzip.Gzip(gzip.DefaultCompression))

		incidents := rest.Group("/incidents")
		{
			incidents.GET("", incidentHandler.GetIncidents)
			incidents.GET("/:id", incidentHandler.GetIncident)
			incidents.GET("/:id/footage", incidentHandler.GetFootage)
			incidents.PATCH("/:id/resolve",
				middleware.RateLimitMiddleware(cfg.Server.ResolveRateLimit, cfg.Server.ResolveBurst),
				incidentHandler.ResolveIncident)
		}

		cameras := rest.Group("/cameras")
		{
			cameras.GET("", cameraHandler.GetCameras)
			cameras.GET("/:id", cameraHandler.GetCamera)
		}

		rest.GET("/timeline", timelineHandler.GetTimeline)
	}

	return router
}
