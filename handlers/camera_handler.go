package handlers

import (
	"errors"
	"net/http"

	"incident-dashboard/be/services"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"
)

type CameraHandler struct {
	cameraService *services.CameraService
}

func NewCameraHandler(cameraService *services.CameraService) *CameraHandler {
	return &CameraHandler{cameraService: cameraService}
}

func (h *CameraHandler) GetCameras(c *gin.Context) {
	cameras, err := h.cameraService.ListCameras(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("failed to fetch cameras")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cameras"})
		return
	}

	c.JSON(http.StatusOK, cameras)
}

func (h *CameraHandler) GetCamera(c *gin.Context) {
	camera, err := h.cameraService.GetCamera(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrCameraNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Camera not found"})
			return
		}
		log.WithError(err).Error("failed to fetch camera")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch camera"})
		return
	}

	c.JSON(http.StatusOK, camera)
}
