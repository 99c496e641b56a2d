package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Incident is a threat detection recorded by a camera over [TsStart, TsEnd].
// Camera is always hydrated on the read side.
type Incident struct {
	ID           string    `json:"id" gorm:"primaryKey;size:36"`
	CameraID     string    `json:"cameraId" gorm:"not null;size:36;index"`
	Camera       Camera    `json:"camera" gorm:"foreignKey:CameraID"`
	Type         string    `json:"type" gorm:"not null"`
	TsStart      time.Time `json:"tsStart" gorm:"not null;index"`
	TsEnd        time.Time `json:"tsEnd" gorm:"not null"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	Resolved     bool      `json:"resolved" gorm:"not null;default:false;index"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (i *Incident) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
