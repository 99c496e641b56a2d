package services

import "errors"

var (
	ErrValidation       = errors.New("validation failed")
	ErrIncidentNotFound = errors.New("incident not found")
	ErrCameraNotFound   = errors.New("camera not found")
	ErrStoreUnavailable = errors.New("store unavailable")
)
