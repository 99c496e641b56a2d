package timeline

import (
	"time"

	"incident-dashboard/be/models"
)

type Marker struct {
	IncidentID   string    `json:"incidentId"`
	Type         string    `json:"type"`
	TsStart      time.Time `json:"tsStart"`
	TsEnd        time.Time `json:"tsEnd"`
	Position     float64   `json:"position"`
	StackCount   int       `json:"stackCount"`
	Stacked      bool      `json:"stacked"`
	Category     Category  `json:"category"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	Resolved     bool      `json:"resolved"`
}

type Row struct {
	Camera  models.Camera `json:"camera"`
	Markers []Marker      `json:"markers"`
}

// View is the full timeline projection consumed by the dashboard.
type View struct {
	Rows        []Row        `json:"rows"`
	Hours       []HourBucket `json:"hours"`
	Now         float64      `json:"now"`
	CurrentTime time.Time    `json:"currentTime"`
	Unresolved  int          `json:"unresolved"`
	Resolved    int          `json:"resolved"`
}

func Build(cameras []models.Camera, incidents []models.Incident, now time.Time, loc *time.Location) View {
	if loc == nil {
		loc = time.Local
	}

	stacks := StackCounts(incidents)

	view := View{
		Rows:        []Row{},
		Hours:       BucketByHour(incidents, loc),
		Now:         NowMarker(now, loc),
		CurrentTime: now.In(loc),
	}

	for _, row := range GroupByCamera(cameras, incidents) {
		markers := make([]Marker, 0, len(row.Incidents))
		for _, incident := range row.Incidents {
			count := stacks[incident.ID]
			markers = append(markers, Marker{
				IncidentID:   incident.ID,
				Type:         incident.Type,
				TsStart:      incident.TsStart,
				TsEnd:        incident.TsEnd,
				Position:     Position(incident.TsStart, loc),
				StackCount:   count,
				Stacked:      count > 1,
				Category:     Categorize(incident.Type),
				ThumbnailURL: ThumbnailFor(incident),
				Resolved:     incident.Resolved,
			})
		}
		view.Rows = append(view.Rows, Row{Camera: row.Camera, Markers: markers})
	}

	for _, incident := range incidents {
		if incident.Resolved {
			view.Resolved++
		} else {
			view.Unresolved++
		}
	}

	return view
}
