package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/fingerprint-calibrator/internal/middleware"
	"github.com/jengzang/fingerprint-calibrator/internal/models"
	"github.com/jengzang/fingerprint-calibrator/internal/scanner"
	"github.com/jengzang/fingerprint-calibrator/internal/service"
	"github.com/jengzang/fingerprint-calibrator/pkg/response"
)

// ScanHandler handles HTTP requests for WiFi scans
type ScanHandler struct {
	service *service.ScanService
}

// NewScanHandler creates a new scan handler
func NewScanHandler(service *service.ScanService) *ScanHandler {
	return &ScanHandler{service: service}
}

// Scan handles POST /api/scan
func (h *ScanHandler) Scan(c *gin.Context) {
	var req models.ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "bad request")
		return
	}

	c.Set(middleware.KeyScanSSIDs, len(req.SSIDs))

	readings, err := h.service.Scan(c.Request.Context(), req.SSIDs)
	if errors.Is(err, scanner.ErrScanFailed) {
		response.BadGateway(c, err.Error())
		return
	}
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, readings)
}
