package handlers

import (
	"context"
	"net/http"
	"time"

	"incident-dashboard/be/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db  *gorm.DB
	hub *services.EventHub
}

func NewHealthHandler(db *gorm.DB, hub *services.EventHub) *HealthHandler {
	return &HealthHandler{db: db, hub: hub}
}

func (h *HealthHandler) Health(c *gin.Context) {
	status := http.StatusOK
	body := gin.H{"status": "ok", "database": "ok"}

	sqlDB, err := h.db.DB()
	if err == nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		err = sqlDB.PingContext(ctx)
		cancel()
	}
	if err != nil {
		status = http.StatusServiceUnavailable
		body["status"] = "degraded"
		body["database"] = err.Error()
	}

	if h.hub != nil {
		body["subscribers"] = h.hub.Connected()
	}

	c.JSON(status, body)
}
