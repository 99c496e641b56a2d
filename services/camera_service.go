package services

import (
	"context"
	"errors"
	"fmt"

	"incident-dashboard/be/models"

	"gorm.io/gorm"
)

type CameraService struct {
	db *gorm.DB
}

func NewCameraService(db *gorm.DB) *CameraService {
	return &CameraService{db: db}
}

func (s *CameraService) ListCameras(ctx context.Context) ([]models.Camera, error) {
	cameras := []models.Camera{}
	if err := s.db.WithContext(ctx).Order("name ASC").Order("id ASC").Find(&cameras).Error; err != nil {
		return nil, fmt.Errorf("%w: list cameras: %w", ErrStoreUnavailable, err)
	}
	return cameras, nil
}

func (s *CameraService) GetCamera(ctx context.Context, id string) (models.Camera, error) {
	var camera models.Camera
	if err := s.db.WithContext(ctx).First(&camera, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Camera{}, fmt.Errorf("get camera %s: %w", id, ErrCameraNotFound)
		}
		return models.Camera{}, fmt.Errorf("%w: get camera %s: %w", ErrStoreUnavailable, id, err)
	}
	return camera, nil
}
