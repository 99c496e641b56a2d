package services

import (
	"context"
	"errors"
	"fmt"

	"incident-dashboard/be/models"

	"gorm.io/gorm"
)

type IncidentService struct {
	db *gorm.DB
}

func NewIncidentService(db *gorm.DB) *IncidentService {
	return &IncidentService{db: db}
}

// ListIncidents returns one resolved/unresolved partition, most recent first.
// Ties on ts_start are broken by id so the order is deterministic.
func (s *IncidentService) ListIncidents(ctx context.Context, resolved bool) ([]models.Incident, error) {
	var incidents []models.Incident

	err := s.db.WithContext(ctx).
		Preload("Camera").
		Where("resolved = ?", resolved).
		Order("ts_start DESC").
		Order("id ASC").
		Find(&incidents).Error
	if err != nil {
		return nil, fmt.Errorf("%w: list incidents: %w", ErrStoreUnavailable, err)
	}

	if incidents == nil {
		incidents = []models.Incident{}
	}

	return incidents, nil
}

func (s *IncidentService) GetIncident(ctx context.Context, id string) (models.Incident, error) {
	if id == "" {
		return models.Incident{}, fmt.Errorf("%w: incident id is required", ErrValidation)
	}

	var incident models.Incident
	if err := s.db.WithContext(ctx).Preload("Camera").First(&incident, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Incident{}, fmt.Errorf("get incident %s: %w", id, ErrIncidentNotFound)
		}
		return models.Incident{}, fmt.Errorf("%w: get incident %s: %w", ErrStoreUnavailable, id, err)
	}

	return incident, nil
}

// ResolveIncident sets resolved=true on the incident and returns it with its camera.
// Resolving an already resolved incident succeeds and changes nothing else.
func (s *IncidentService) ResolveIncident(ctx context.Context, id string) (models.Incident, error) {
	if id == "" {
		return models.Incident{}, fmt.Errorf("%w: incident id is required", ErrValidation)
	}

	var incident models.Incident
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Incident
		if err := tx.Select("id").First(&existing, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrIncidentNotFound
			}
			return err
		}

		if err := tx.Model(&models.Incident{}).Where("id = ?", id).Update("resolved", true).Error; err != nil {
			return err
		}

		return tx.Preload("Camera").First(&incident, "id = ?", id).Error
	})
	if err != nil {
		if errors.Is(err, ErrIncidentNotFound) {
			return models.Incident{}, fmt.Errorf("resolve incident %s: %w", id, err)
		}
		return models.Incident{}, fmt.Errorf("%w: resolve incident %s: %w", ErrStoreUnavailable, id, err)
	}

	return incident, nil
}
