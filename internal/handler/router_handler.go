package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/fingerprint-calibrator/internal/models"
	"github.com/jengzang/fingerprint-calibrator/internal/service"
	"github.com/jengzang/fingerprint-calibrator/pkg/response"
)

// RouterHandler handles HTTP requests for router positions
type RouterHandler struct {
	service *service.RouterService
}

// NewRouterHandler creates a new router handler
func NewRouterHandler(service *service.RouterService) *RouterHandler {
	return &RouterHandler{service: service}
}

// SetRouters handles POST /api/routers
func (h *RouterHandler) SetRouters(c *gin.Context) {
	var req models.RoutersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "bad request")
		return
	}

	err := h.service.SetRouters(req.Routers)
	if errors.Is(err, service.ErrInvalidRouters) {
		response.BadRequest(c, err.Error())
		return
	}
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, models.AckResponse{OK: true})
}

// GetRouters handles GET /api/routers
func (h *RouterHandler) GetRouters(c *gin.Context) {
	routers, err := h.service.Routers()
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	if routers == nil {
		routers = []models.Router{}
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  routers,
		"count": len(routers),
	})
}
