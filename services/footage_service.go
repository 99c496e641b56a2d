package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"time"

	"incident-dashboard/be/config"
	"incident-dashboard/be/models"

	"github.com/apex/log"
)

// FootageService resolves recorded and live footage URLs for cameras served by MediaMTX.
// Recordings are read through the MediaMTX playback server; nothing is ingested here.
type FootageService struct {
	config       config.MediaMTXConfig
	httpClient   *http.Client
	readyTimeout time.Duration
}

type Footage struct {
	IncidentID  string `json:"incidentId"`
	CameraID    string `json:"cameraId"`
	PathName    string `json:"pathName"`
	PlaybackURL string `json:"playbackUrl"`
	LiveURL     string `json:"liveUrl"`
	Ready       bool   `json:"ready"`
}

func NewFootageService(cfg config.MediaMTXConfig) *FootageService {
	return &FootageService{
		config:       cfg,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		readyTimeout: 2 * time.Second,
	}
}

// GetPathName returns the MediaMTX path name for a camera
func (s *FootageService) GetPathName(camera models.Camera) string {
	return "cam" + camera.Name
}

// PlaybackURL covers the incident window [tsStart, tsEnd], at least one second long.
func (s *FootageService) PlaybackURL(camera models.Camera, incident models.Incident) string {
	seconds := math.Max(1, math.Ceil(incident.TsEnd.Sub(incident.TsStart).Seconds()))

	q := url.Values{}
	q.Set("path", s.GetPathName(camera))
	q.Set("start", incident.TsStart.Format(time.RFC3339))
	q.Set("duration", fmt.Sprintf("%ds", int64(seconds)))

	return fmt.Sprintf("http://%s:%s/get?%s", s.config.PublicHost, s.config.PlaybackPort, q.Encode())
}

func (s *FootageService) LiveURL(camera models.Camera) string {
	return fmt.Sprintf("http://%s:%s/%s/index.m3u8", s.config.PublicHost, s.config.HTTPPort, s.GetPathName(camera))
}

// PathReady asks the MediaMTX API whether the camera path exists and has a ready source.
func (s *FootageService) PathReady(ctx context.Context, camera models.Camera) (bool, error) {
	statusURL := fmt.Sprintf("http://%s:%s/v3/paths/get/%s", s.config.Host, s.config.APIPort, url.PathEscape(s.GetPathName(camera)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, statusURL, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("failed to check MediaMTX path status: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return false, fmt.Errorf("MediaMTX API error (status %d): %s", resp.StatusCode, string(body))
	}

	var path struct {
		Ready bool `json:"ready"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&path); err != nil {
		return false, fmt.Errorf("failed to decode MediaMTX response: %w", err)
	}

	return path.Ready, nil
}

// Footage builds the footage descriptor for an incident. Path readiness is best effort and
// bounded by readyTimeout.
func (s *FootageService) Footage(ctx context.Context, incident models.Incident) Footage {
	readyCtx, cancel := context.WithTimeout(ctx, s.readyTimeout)
	defer cancel()

	ready, err := s.PathReady(readyCtx, incident.Camera)
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"incident": incident.ID,
			"path":     s.GetPathName(incident.Camera),
		}).Warn("MediaMTX path readiness check failed")
	}

	return Footage{
		IncidentID:  incident.ID,
		CameraID:    incident.CameraID,
		PathName:    s.GetPathName(incident.Camera),
		PlaybackURL: s.PlaybackURL(incident.Camera, incident),
		LiveURL:     s.LiveURL(incident.Camera),
		Ready:       ready,
	}
}
