package database

import (
	"testing"
	"time"

	"incident-dashboard/be/config"
	"incident-dashboard/be/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens an in-memory SQLite database with the schema migrated.
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, Migrate(db))
	return db
}

func TestSeed(t *testing.T) {
	db := setupTestDB(t)
	day := time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)

	result, err := Seed(db, day)
	require.NoError(t, err)
	assert.Equal(t, SeedResult{Cameras: 3, Incidents: 12}, result)

	var cameras []models.Camera
	require.NoError(t, db.Order("name").Find(&cameras).Error)
	require.Len(t, cameras, 3)
	assert.Equal(t, "01", cameras[0].Name)
	assert.NotEmpty(t, cameras[0].ID)

	var incidents []models.Incident
	require.NoError(t, db.Preload("Camera").Find(&incidents).Error)
	require.Len(t, incidents, 12)

	resolved := 0
	for _, incident := range incidents {
		assert.False(t, incident.TsEnd.Before(incident.TsStart), "tsEnd before tsStart for %s", incident.ID)
		assert.Equal(t, incident.CameraID, incident.Camera.ID)
		assert.Equal(t, 2025, incident.TsStart.Year())
		assert.Contains(t, incident.ThumbnailURL, "/placeholder.svg?")
		if incident.Resolved {
			resolved++
		}
	}
	assert.Equal(t, 2, resolved)
}

func TestSeedIfEmptyIsNoopWhenCamerasExist(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Create(&models.Camera{Name: "99", Location: "Dock"}).Error)

	require.NoError(t, seedIfEmpty(db))

	var count int64
	require.NoError(t, db.Model(&models.Camera{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestDialector(t *testing.T) {
	for _, driver := range []string{"", "postgres", "mysql", "sqlite"} {
		d, err := Dialector(config.DatabaseConfig{Driver: driver, DBName: "test"})
		require.NoError(t, err, driver)
		assert.NotNil(t, d, driver)
	}

	_, err := Dialector(config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}

func TestInitializeSQLiteWithSeed(t *testing.T) {
	db, err := Initialize(config.DatabaseConfig{
		Driver:   "sqlite",
		DSN:      "file:initialize_test?mode=memory&cache=shared",
		LogLevel: "silent",
		SeedDemo: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	var count int64
	require.NoError(t, db.Model(&models.Incident{}).Count(&count).Error)
	assert.Equal(t, int64(12), count)
}

func TestReset(t *testing.T) {
	db := setupTestDB(t)
	_, err := Seed(db, Today())
	require.NoError(t, err)

	require.NoError(t, Reset(db))

	var cameras, incidents int64
	require.NoError(t, db.Model(&models.Camera{}).Count(&cameras).Error)
	require.NoError(t, db.Model(&models.Incident{}).Count(&incidents).Error)
	assert.Zero(t, cameras)
	assert.Zero(t, incidents)
}
