// Package timeline projects incidents onto the 24-hour dashboard timeline.
// Every function is pure: identical input yields identical output.
package timeline

import (
	"sort"
	"time"

	"incident-dashboard/be/models"
)

// StackWindow is the half-width of the window used to group incidents into a stack.
const StackWindow = 5 * time.Minute

const minutesPerDay = 24 * 60

type HourBucket struct {
	Hour      int               `json:"hour"`
	Incidents []models.Incident `json:"incidents"`
}

type CameraRow struct {
	Camera    models.Camera     `json:"camera"`
	Incidents []models.Incident `json:"incidents"`
}

// BucketByHour groups incidents by the hour of TsStart in loc, latest hour first.
// Empty hours are omitted and input order is kept inside a bucket.
func BucketByHour(incidents []models.Incident, loc *time.Location) []HourBucket {
	if loc == nil {
		loc = time.Local
	}

	byHour := make(map[int][]models.Incident)
	for _, incident := range incidents {
		h := incident.TsStart.In(loc).Hour()
		byHour[h] = append(byHour[h], incident)
	}

	buckets := make([]HourBucket, 0, len(byHour))
	for h := 23; h >= 0; h-- {
		if list, ok := byHour[h]; ok {
			buckets = append(buckets, HourBucket{Hour: h, Incidents: list})
		}
	}
	return buckets
}

// Position maps the time of day of t to a fraction of the day in [0, 1).
// Seconds and the calendar date are ignored.
func Position(t time.Time, loc *time.Location) float64 {
	if loc == nil {
		loc = time.Local
	}
	local := t.In(loc)
	return float64(local.Hour()*60+local.Minute()) / minutesPerDay
}

// NowMarker places the current-time marker.
func NowMarker(now time.Time, loc *time.Location) float64 {
	return Position(now, loc)
}

// GroupByCamera builds one row per camera, in camera order. Incidents whose camera is not
// in cameras are left out.
func GroupByCamera(cameras []models.Camera, incidents []models.Incident) []CameraRow {
	index := make(map[string]int, len(cameras))
	rows := make([]CameraRow, len(cameras))
	for i, camera := range cameras {
		index[camera.ID] = i
		rows[i] = CameraRow{Camera: camera, Incidents: []models.Incident{}}
	}

	for _, incident := range incidents {
		if i, ok := index[incident.CameraID]; ok {
			rows[i].Incidents = append(rows[i].Incidents, incident)
		}
	}
	return rows
}

// StackCounts returns, per incident ID, how many incidents on the same camera started
// strictly less than StackWindow apart from it, itself included.
func StackCounts(incidents []models.Incident) map[string]int {
	counts := make(map[string]int, len(incidents))

	byCamera := make(map[string][]models.Incident)
	for _, incident := range incidents {
		byCamera[incident.CameraID] = append(byCamera[incident.CameraID], incident)
	}

	for _, list := range byCamera {
		sorted := make([]models.Incident, len(list))
		copy(sorted, list)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].TsStart.Before(sorted[j].TsStart)
		})

		lo, hi := 0, 0
		for i := range sorted {
			for sorted[i].TsStart.Sub(sorted[lo].TsStart) >= StackWindow {
				lo++
			}
			if hi < i {
				hi = i
			}
			for hi+1 < len(sorted) && sorted[hi+1].TsStart.Sub(sorted[i].TsStart) < StackWindow {
				hi++
			}
			counts[sorted[i].ID] = hi - lo + 1
		}
	}

	return counts
}
