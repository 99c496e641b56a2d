package database

import (
	"fmt"
	"net/url"
	"time"

	"incident-dashboard/be/models"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

type SeedResult struct {
	Cameras   int
	Incidents int
}

type cameraFixture struct {
	Name     string `validate:"required"`
	Location string `validate:"required"`
}

type incidentFixture struct {
	Camera   int    `validate:"gte=0"`
	Type     string `validate:"required"`
	Hour     int    `validate:"gte=0,lte=23"`
	Minute   int    `validate:"gte=0,lte=59"`
	Duration int    `validate:"gte=0"` // minutes
	Resolved bool
}

var cameraFixtures = []cameraFixture{
	{Name: "01", Location: "Shop Floor Camera A"},
	{Name: "02", Location: "Shop Floor Camera B"},
	{Name: "03", Location: "Entrance Camera"},
}

var incidentFixtures = []incidentFixture{
	{Camera: 0, Type: "Unauthorised Access", Hour: 14, Minute: 35, Duration: 2},
	{Camera: 0, Type: "Gun Threat", Hour: 14, Minute: 37, Duration: 3},
	{Camera: 0, Type: "Unauthorised Access", Hour: 14, Minute: 40, Duration: 2},
	{Camera: 0, Type: "Unauthorised Access", Hour: 14, Minute: 43, Duration: 2, Resolved: true},
	{Camera: 0, Type: "Unauthorised Access", Hour: 14, Minute: 45, Duration: 2},

	{Camera: 1, Type: "Unauthorised Access", Hour: 8, Minute: 15, Duration: 3, Resolved: true},
	{Camera: 1, Type: "Face Recognised", Hour: 12, Minute: 30, Duration: 1},
	{Camera: 1, Type: "Unauthorised Access", Hour: 16, Minute: 20, Duration: 2},

	{Camera: 2, Type: "Face Recognised", Hour: 9, Minute: 45, Duration: 1},
	{Camera: 2, Type: "Traffic congestion", Hour: 11, Minute: 0, Duration: 5},
	{Camera: 2, Type: "Gun Threat", Hour: 18, Minute: 30, Duration: 4},
	{Camera: 2, Type: "Unauthorised Access", Hour: 20, Minute: 15, Duration: 2},
}

// Today returns local midnight of the current day.
func Today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// Seed inserts the demo cameras and incidents, placing every incident on day.
func Seed(db *gorm.DB, day time.Time) (SeedResult, error) {
	validate := validator.New()
	for _, f := range cameraFixtures {
		if err := validate.Struct(f); err != nil {
			return SeedResult{}, fmt.Errorf("invalid camera fixture %q: %w", f.Name, err)
		}
	}
	for _, f := range incidentFixtures {
		if err := validate.Struct(f); err != nil {
			return SeedResult{}, fmt.Errorf("invalid incident fixture %q: %w", f.Type, err)
		}
		if f.Camera >= len(cameraFixtures) {
			return SeedResult{}, fmt.Errorf("incident fixture %q references unknown camera %d", f.Type, f.Camera)
		}
	}

	var result SeedResult
	err := db.Transaction(func(tx *gorm.DB) error {
		cameras := make([]models.Camera, 0, len(cameraFixtures))
		for _, f := range cameraFixtures {
			camera := models.Camera{Name: f.Name, Location: f.Location}
			if err := tx.Create(&camera).Error; err != nil {
				return fmt.Errorf("failed to create camera %s: %w", f.Name, err)
			}
			cameras = append(cameras, camera)
		}

		for _, f := range incidentFixtures {
			start := time.Date(day.Year(), day.Month(), day.Day(), f.Hour, f.Minute, 0, 0, day.Location())
			incident := models.Incident{
				CameraID:     cameras[f.Camera].ID,
				Type:         f.Type,
				TsStart:      start,
				TsEnd:        start.Add(time.Duration(f.Duration) * time.Minute),
				ThumbnailURL: placeholderThumbnail(f.Type),
				Resolved:     f.Resolved,
			}
			if err := tx.Create(&incident).Error; err != nil {
				return fmt.Errorf("failed to create incident %s: %w", f.Type, err)
			}
		}

		result = SeedResult{Cameras: len(cameras), Incidents: len(incidentFixtures)}
		return nil
	})
	if err != nil {
		return SeedResult{}, err
	}

	return result, nil
}

// Reset deletes every incident and camera.
func Reset(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Incident{}).Error; err != nil {
			return fmt.Errorf("failed to delete incidents: %w", err)
		}
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Camera{}).Error; err != nil {
			return fmt.Errorf("failed to delete cameras: %w", err)
		}
		return nil
	})
}

func placeholderThumbnail(incidentType string) string {
	q := url.Values{}
	q.Set("height", "120")
	q.Set("width", "200")
	q.Set("query", incidentType+" security camera footage")
	return "/placeholder.svg?" + q.Encode()
}
