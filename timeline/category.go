package timeline

import "incident-dashboard/be/models"

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityElevated Severity = "elevated"
	SeverityNotice   Severity = "notice"
	SeverityInfo     Severity = "info"
	SeverityNeutral  Severity = "neutral"
)

type Category struct {
	Severity Severity `json:"severity"`
	Color    string   `json:"color"`
}

var categories = map[string]Category{
	"Gun Threat":          {Severity: SeverityCritical, Color: "red"},
	"Unauthorised Access": {Severity: SeverityHigh, Color: "orange"},
	"Face Recognised":     {Severity: SeverityInfo, Color: "blue"},
	"Traffic congestion":  {Severity: SeverityNotice, Color: "teal"},
	"Suspicious Activity": {Severity: SeverityElevated, Color: "purple"},
}

var neutral = Category{Severity: SeverityNeutral, Color: "gray"}

// Categorize maps an incident type to its display category. Unknown types are neutral.
func Categorize(incidentType string) Category {
	if c, ok := categories[incidentType]; ok {
		return c
	}
	return neutral
}

const defaultThumbnail = "/images/incident-thumbnail-1.png"

var thumbnails = map[string]string{
	"Gun Threat":      "/images/incident-thumbnail-2.png",
	"Face Recognised": "/images/incident-thumbnail-3.png",
}

// ThumbnailFor returns the stored thumbnail, or a per-type placeholder when none is set.
func ThumbnailFor(incident models.Incident) string {
	if incident.ThumbnailURL != "" {
		return incident.ThumbnailURL
	}
	if thumb, ok := thumbnails[incident.Type]; ok {
		return thumb
	}
	return defaultThumbnail
}
