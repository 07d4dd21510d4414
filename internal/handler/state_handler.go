package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/fingerprint-calibrator/internal/service"
	"github.com/jengzang/fingerprint-calibrator/pkg/response"
)

// StateHandler handles HTTP requests for the calibration state
type StateHandler struct {
	service *service.StateService
}

// NewStateHandler creates a new state handler
func NewStateHandler(service *service.StateService) *StateHandler {
	return &StateHandler{service: service}
}

// GetState handles GET /api/state
func (h *StateHandler) GetState(c *gin.Context) {
	st, err := h.service.State()
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, st)
}
