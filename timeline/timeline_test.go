package timeline

import (
	"fmt"
	"testing"
	"time"

	"incident-dashboard/be/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func incidentAt(id, cameraID string, hour, minute, second int) models.Incident {
	start := time.Date(2025, 6, 5, hour, minute, second, 0, time.UTC)
	return models.Incident{
		ID:       id,
		CameraID: cameraID,
		Type:     "Gun Threat",
		TsStart:  start,
		TsEnd:    start.Add(2 * time.Minute),
	}
}

func TestStackCounts_Cluster(t *testing.T) {
	incidents := []models.Incident{
		incidentAt("a", "c1", 10, 0, 0),
		incidentAt("b", "c1", 10, 2, 0),
		incidentAt("c", "c1", 10, 10, 0),
	}

	counts := StackCounts(incidents)
	assert.Equal(t, map[string]int{"a": 2, "b": 2, "c": 1}, counts)
}

func TestStackCounts_WindowIsStrict(t *testing.T) {
	counts := StackCounts([]models.Incident{
		incidentAt("a", "c1", 10, 0, 0),
		incidentAt("b", "c1", 10, 5, 0),
		incidentAt("c", "c1", 10, 9, 59),
	})

	assert.Equal(t, 1, counts["a"])
	assert.Equal(t, 2, counts["b"])
	assert.Equal(t, 2, counts["c"])
}

func TestStackCounts_PerCamera(t *testing.T) {
	counts := StackCounts([]models.Incident{
		incidentAt("a", "c1", 10, 0, 0),
		incidentAt("b", "c2", 10, 1, 0),
	})

	assert.Equal(t, 1, counts["a"])
	assert.Equal(t, 1, counts["b"])
}

func TestStackCounts_MatchesPairwise(t *testing.T) {
	var incidents []models.Incident
	minutes := []int{0, 3, 4, 9, 13, 14, 15, 30, 34, 39, 40}
	for n, m := range minutes {
		incidents = append(incidents, incidentAt(fmt.Sprintf("i%d", n), "c1", 8, m, 0))
	}
	// descending input order must not matter
	for i, j := 0, len(incidents)-1; i < j; i, j = i+1, j-1 {
		incidents[i], incidents[j] = incidents[j], incidents[i]
	}

	counts := StackCounts(incidents)
	for _, a := range incidents {
		want := 0
		for _, b := range incidents {
			d := a.TsStart.Sub(b.TsStart)
			if d < 0 {
				d = -d
			}
			if d < StackWindow {
				want++
			}
		}
		assert.Equal(t, want, counts[a.ID], a.ID)
	}
}

func TestPosition(t *testing.T) {
	assert.Equal(t, 0.0, Position(time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC), time.UTC))
	assert.InDelta(t, 0.5, Position(time.Date(2025, 6, 5, 12, 0, 0, 0, time.UTC), time.UTC), 1e-9)
	assert.InDelta(t, (14*60+37)/1440.0, Position(time.Date(2025, 6, 5, 14, 37, 59, 0, time.UTC), time.UTC), 1e-9)

	last := Position(time.Date(2025, 6, 5, 23, 59, 59, 0, time.UTC), time.UTC)
	assert.Less(t, last, 1.0)

	a := Position(time.Date(2025, 6, 5, 9, 15, 0, 0, time.UTC), time.UTC)
	b := Position(time.Date(2024, 1, 20, 9, 15, 0, 0, time.UTC), time.UTC)
	assert.Equal(t, a, b)

	assert.Equal(t, Position(time.Date(2025, 6, 5, 9, 15, 0, 0, time.UTC), time.UTC), NowMarker(time.Date(2030, 1, 1, 9, 15, 30, 0, time.UTC), time.UTC))
}

func TestPositionUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	ts := time.Date(2025, 6, 5, 10, 0, 0, 0, time.UTC)
	assert.InDelta(t, 12.0/24.0, Position(ts, loc), 1e-9)
}

func TestBucketByHour(t *testing.T) {
	incidents := []models.Incident{
		incidentAt("a", "c1", 14, 37, 0),
		incidentAt("b", "c2", 9, 10, 0),
		incidentAt("c", "c1", 14, 5, 0),
		incidentAt("d", "c3", 23, 0, 0),
	}

	buckets := BucketByHour(incidents, time.UTC)
	require.Len(t, buckets, 3)

	assert.Equal(t, 23, buckets[0].Hour)
	assert.Equal(t, 14, buckets[1].Hour)
	assert.Equal(t, 9, buckets[2].Hour)
	assert.Equal(t, "a", buckets[1].Incidents[0].ID)
	assert.Equal(t, "c", buckets[1].Incidents[1].ID)

	assert.Empty(t, BucketByHour(nil, time.UTC))
}

func TestGroupByCamera(t *testing.T) {
	cameras := []models.Camera{{ID: "c1", Name: "01"}, {ID: "c2", Name: "02"}}
	incidents := []models.Incident{
		incidentAt("a", "c2", 14, 0, 0),
		incidentAt("b", "c1", 13, 0, 0),
		incidentAt("x", "c9", 12, 0, 0),
		incidentAt("c", "c2", 11, 0, 0),
	}

	rows := GroupByCamera(cameras, incidents)
	require.Len(t, rows, 2)
	assert.Equal(t, "c1", rows[0].Camera.ID)
	assert.Len(t, rows[0].Incidents, 1)
	assert.Equal(t, "c2", rows[1].Camera.ID)
	assert.Equal(t, []string{"a", "c"}, []string{rows[1].Incidents[0].ID, rows[1].Incidents[1].ID})

	empty := GroupByCamera([]models.Camera{{ID: "c3"}}, nil)
	assert.NotNil(t, empty[0].Incidents)
}

func TestCategorize(t *testing.T) {
	assert.Equal(t, Category{Severity: SeverityCritical, Color: "red"}, Categorize("Gun Threat"))
	assert.Equal(t, "orange", Categorize("Unauthorised Access").Color)
	assert.Equal(t, "blue", Categorize("Face Recognised").Color)
	assert.Equal(t, "teal", Categorize("Traffic congestion").Color)
	assert.Equal(t, "purple", Categorize("Suspicious Activity").Color)
	assert.Equal(t, Category{Severity: SeverityNeutral, Color: "gray"}, Categorize("Loitering"))
}

func TestThumbnailFor(t *testing.T) {
	assert.Equal(t, "/x.png", ThumbnailFor(models.Incident{Type: "Gun Threat", ThumbnailURL: "/x.png"}))
	assert.Equal(t, "/images/incident-thumbnail-2.png", ThumbnailFor(models.Incident{Type: "Gun Threat"}))
	assert.Equal(t, "/images/incident-thumbnail-3.png", ThumbnailFor(models.Incident{Type: "Face Recognised"}))
	assert.Equal(t, "/images/incident-thumbnail-1.png", ThumbnailFor(models.Incident{Type: "Unauthorised Access"}))
}

func TestBuild(t *testing.T) {
	cameras := []models.Camera{{ID: "c1", Name: "01"}, {ID: "c2", Name: "02"}}
	incidents := []models.Incident{
		incidentAt("a", "c1", 10, 2, 0),
		incidentAt("b", "c1", 10, 0, 0),
		incidentAt("c", "c2", 9, 0, 0),
	}
	incidents[2].Resolved = true
	now := time.Date(2025, 6, 5, 12, 0, 0, 0, time.UTC)

	view := Build(cameras, incidents, now, time.UTC)
	again := Build(cameras, incidents, now, time.UTC)
	assert.Equal(t, view, again)

	require.Len(t, view.Rows, 2)
	require.Len(t, view.Rows[0].Markers, 2)
	assert.True(t, view.Rows[0].Markers[0].Stacked)
	assert.Equal(t, 2, view.Rows[0].Markers[0].StackCount)
	assert.False(t, view.Rows[1].Markers[0].Stacked)
	assert.InDelta(t, 0.5, view.Now, 1e-9)
	assert.Equal(t, 2, view.Unresolved)
	assert.Equal(t, 1, view.Resolved)
	assert.Equal(t, []int{10, 9}, []int{view.Hours[0].Hour, view.Hours[1].Hour})
}
