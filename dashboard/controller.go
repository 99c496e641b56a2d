// Package dashboard holds the operator's view state and the actions that change it.
package dashboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"incident-dashboard/be/models"
	"incident-dashboard/be/services"

	"github.com/apex/log"
	"golang.org/x/sync/errgroup"
)

// API is the subset of the incident dashboard API the controller needs.
// *client.Client satisfies it.
type API interface {
	ListIncidents(ctx context.Context, resolved bool) ([]models.Incident, error)
	ListCameras(ctx context.Context) ([]models.Camera, error)
	ResolveIncident(ctx context.Context, id string) (models.Incident, error)
	Subscribe(ctx context.Context, fn func(services.Event)) error
}

// State is a point-in-time copy of the dashboard. Incidents is the unresolved partition.
type State struct {
	Incidents        []models.Incident
	Cameras          []models.Camera
	SelectedIncident *models.Incident
	SelectedCamera   *models.Camera
	Loading          bool
	CurrentTime      time.Time
}

func (s State) clone() State {
	out := s
	out.Incidents = append([]models.Incident(nil), s.Incidents...)
	out.Cameras = append([]models.Camera(nil), s.Cameras...)
	if s.SelectedIncident != nil {
		incident := *s.SelectedIncident
		out.SelectedIncident = &incident
	}
	if s.SelectedCamera != nil {
		camera := *s.SelectedCamera
		out.SelectedCamera = &camera
	}
	return out
}

// Controller owns State. All mutation goes through its actions.
// State reports Loading until the first Load completes.
type Controller struct {
	api API
	now func() time.Time

	mu        sync.Mutex
	state     State
	listeners []func(State)

	clock clock
}

func NewController(api API) *Controller {
	return &Controller{
		api:   api,
		now:   time.Now,
		state: State{Loading: true, CurrentTime: time.Now()},
		clock: clock{interval: time.Second},
	}
}

// OnChange registers fn to receive a snapshot after every state change.
func (c *Controller) OnChange(fn func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// update applies fn under the lock and notifies listeners outside it.
func (c *Controller) update(fn func(*State)) {
	c.mu.Lock()
	fn(&c.state)
	snapshot := c.state.clone()
	listeners := make([]func(State), len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.Unlock()

	for _, l := range listeners {
		l(snapshot)
	}
}

// Load fetches the unresolved incidents and the cameras concurrently and replaces both lists.
// The first camera is selected, then the first incident and its camera, which wins.
// On failure the previous lists and selection are kept.
func (c *Controller) Load(ctx context.Context) error {
	c.update(func(s *State) { s.Loading = true })

	var (
		incidents []models.Incident
		cameras   []models.Camera
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		incidents, err = c.api.ListIncidents(gctx, false)
		return err
	})
	g.Go(func() error {
		var err error
		cameras, err = c.api.ListCameras(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		log.WithError(err).Error("failed to load dashboard")
		c.update(func(s *State) { s.Loading = false })
		return fmt.Errorf("load dashboard: %w", err)
	}

	c.update(func(s *State) {
		s.Incidents = incidents
		s.Cameras = cameras

		if len(cameras) > 0 {
			camera := cameras[0]
			s.SelectedCamera = &camera
		}
		if len(incidents) > 0 {
			incident := incidents[0]
			camera := incident.Camera
			s.SelectedIncident = &incident
			s.SelectedCamera = &camera
		}

		s.Loading = false
	})

	log.WithFields(log.Fields{
		"incidents": len(incidents),
		"cameras":   len(cameras),
	}).Debug("dashboard loaded")

	return nil
}

// SelectCamera changes the viewed camera only.
func (c *Controller) SelectCamera(camera models.Camera) {
	c.update(func(s *State) {
		s.SelectedCamera = &camera
	})
}

// SelectIncident selects incident and moves the view to its camera.
func (c *Controller) SelectIncident(incident models.Incident) {
	c.update(func(s *State) {
		camera := incident.Camera
		s.SelectedIncident = &incident
		s.SelectedCamera = &camera
	})
}

// Resolve marks the incident resolved and reloads everything on success.
// A failed resolve leaves the state untouched.
func (c *Controller) Resolve(ctx context.Context, id string) error {
	if _, err := c.api.ResolveIncident(ctx, id); err != nil {
		log.WithError(err).WithField("incident", id).Error("failed to resolve incident")
		return fmt.Errorf("resolve incident %s: %w", id, err)
	}

	log.WithField("incident", id).Info("incident resolved")
	return c.Load(ctx)
}

// Watch reloads the dashboard whenever the server reports a resolution.
// It blocks until ctx is cancelled or the event stream ends.
func (c *Controller) Watch(ctx context.Context) error {
	return c.api.Subscribe(ctx, func(event services.Event) {
		if event.Type != services.EventIncidentResolved {
			return
		}
		log.WithField("incident", event.IncidentID).Debug("remote resolution, reloading")
		_ = c.Load(ctx)
	})
}
