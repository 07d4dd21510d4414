package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/fingerprint-calibrator/internal/service"
	"github.com/jengzang/fingerprint-calibrator/pkg/response"
)

// ImageHandler handles HTTP requests for the floor plan
type ImageHandler struct {
	service *service.ImageService
}

// NewImageHandler creates a new image handler
func NewImageHandler(service *service.ImageService) *ImageHandler {
	return &ImageHandler{service: service}
}

// GetMetadata handles GET /api/image-metadata
func (h *ImageHandler) GetMetadata(c *gin.Context) {
	meta, err := h.service.Metadata()
	if errors.Is(err, service.ErrImageNotFound) {
		response.NotFound(c, "Floor plan image not found")
		return
	}
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, meta)
}
