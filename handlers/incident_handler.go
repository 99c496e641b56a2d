package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"incident-dashboard/be/metrics"
	"incident-dashboard/be/services"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"
)

type IncidentHandler struct {
	incidentService *services.IncidentService
	footageService  *services.FootageService
	hub             *services.EventHub
}

func NewIncidentHandler(incidentService *services.IncidentService, footageService *services.FootageService, hub *services.EventHub) *IncidentHandler {
	return &IncidentHandler{
		incidentService: incidentService,
		footageService:  footageService,
		hub:             hub,
	}
}

// parseResolved reads the resolved query flag. A missing flag means unresolved.
func parseResolved(c *gin.Context) (bool, error) {
	raw, ok := c.GetQuery("resolved")
	if !ok || raw == "" {
		return false, nil
	}
	switch raw {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, errors.New("resolved must be true or false")
}

func (h *IncidentHandler) GetIncidents(c *gin.Context) {
	resolved, err := parseResolved(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	incidents, err := h.incidentService.ListIncidents(c.Request.Context(), resolved)
	if err != nil {
		log.WithError(err).WithField("resolved", strconv.FormatBool(resolved)).Error("failed to fetch incidents")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch incidents"})
		return
	}

	c.JSON(http.StatusOK, incidents)
}

func (h *IncidentHandler) GetIncident(c *gin.Context) {
	incident, err := h.incidentService.GetIncident(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrIncidentNotFound) || errors.Is(err, services.ErrValidation) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Incident not found"})
			return
		}
		log.WithError(err).Error("failed to fetch incident")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch incident"})
		return
	}

	c.JSON(http.StatusOK, incident)
}

func (h *IncidentHandler) ResolveIncident(c *gin.Context) {
	id := c.Param("id")

	incident, err := h.incidentService.ResolveIncident(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrIncidentNotFound) || errors.Is(err, services.ErrValidation) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Incident not found"})
			return
		}
		log.WithError(err).WithField("incident", id).Error("failed to resolve incident")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve incident"})
		return
	}

	metrics.IncidentsResolvedTotal.Inc()
	if h.hub != nil {
		h.hub.Publish(services.Event{Type: services.EventIncidentResolved, IncidentID: incident.ID})
	}

	log.WithFields(log.Fields{
		"incident": incident.ID,
		"camera":   incident.CameraID,
		"type":     incident.Type,
	}).Info("incident resolved")

	c.JSON(http.StatusOK, incident)
}

func (h *IncidentHandler) GetFootage(c *gin.Context) {
	incident, err := h.incidentService.GetIncident(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrIncidentNotFound) || errors.Is(err, services.ErrValidation) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Incident not found"})
			return
		}
		log.WithError(err).Error("failed to fetch incident for footage")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch footage"})
		return
	}

	c.JSON(http.StatusOK, h.footageService.Footage(c.Request.Context(), incident))
}
