package handler

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/fingerprint-calibrator/internal/middleware"
	"github.com/jengzang/fingerprint-calibrator/internal/models"
	"github.com/jengzang/fingerprint-calibrator/internal/service"
	"github.com/jengzang/fingerprint-calibrator/pkg/response"
)

// FingerprintHandler handles HTTP requests for fingerprints
type FingerprintHandler struct {
	service *service.FingerprintService
}

// NewFingerprintHandler creates a new fingerprint handler
func NewFingerprintHandler(service *service.FingerprintService) *FingerprintHandler {
	return &FingerprintHandler{service: service}
}

// Save handles POST /api/save. Rejected fingerprints answer 400 with ok=false.
func (h *FingerprintHandler) Save(c *gin.Context) {
	var req models.SaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.SaveResponse{OK: false})
		return
	}
	c.Set(middleware.KeyReadings, len(req.RSSI))

	resp, err := h.service.Save(req)
	if errors.Is(err, service.ErrInvalidFingerprint) {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.SaveResponse{OK: false})
		return
	}
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ExportCSV handles GET /api/fingerprints.csv
func (h *FingerprintHandler) ExportCSV(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.service.ExportCSV(&buf); err != nil {
		response.InternalError(c, err.Error())
		return
	}

	c.Header("Content-Disposition", `attachment; filename="fingerprints.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
