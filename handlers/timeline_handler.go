package handlers

import (
	"net/http"
	"time"

	"incident-dashboard/be/models"
	"incident-dashboard/be/services"
	"incident-dashboard/be/timeline"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

type TimelineHandler struct {
	incidentService *services.IncidentService
	cameraService   *services.CameraService
	location        *time.Location
	now             func() time.Time
}

func NewTimelineHandler(incidentService *services.IncidentService, cameraService *services.CameraService, location *time.Location) *TimelineHandler {
	return &TimelineHandler{
		incidentService: incidentService,
		cameraService:   cameraService,
		location:        location,
		now:             time.Now,
	}
}

func (h *TimelineHandler) GetTimeline(c *gin.Context) {
	resolved, err := parseResolved(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var (
		incidents []models.Incident
		cameras   []models.Camera
	)

	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		incidents, err = h.incidentService.ListIncidents(ctx, resolved)
		return err
	})
	g.Go(func() error {
		var err error
		cameras, err = h.cameraService.ListCameras(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		log.WithError(err).Error("failed to build timeline")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build timeline"})
		return
	}

	c.JSON(http.StatusOK, timeline.Build(cameras, incidents, h.now(), h.location))
}
