package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/livestock-atlas-go/internal/models"
	"github.com/jengzang/livestock-atlas-go/internal/service"
	"github.com/jengzang/livestock-atlas-go/pkg/response"
)

// MapHandler serves the map layer payloads
type MapHandler struct {
	service *service.DashboardService
}

// NewMapHandler creates a new map handler
func NewMapHandler(service *service.DashboardService) *MapHandler {
	return &MapHandler{service: service}
}

// GetCenterLayer handles GET /api/v1/maps/centers
func (h *MapHandler) GetCenterLayer(c *gin.Context) {
	var filter models.CenterMapFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err)
		return
	}

	payload, err := h.service.CenterLayer(c.Request.Context(), filter)
	if err != nil {
		serviceError(c, "Failed to render center layer", err)
		return
	}

	response.Success(c, payload)
}

// GetSubcenterLayer handles GET /api/v1/maps/subcenters
func (h *MapHandler) GetSubcenterLayer(c *gin.Context) {
	var filter models.SubcenterMapFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err)
		return
	}

	payload, err := h.service.SubcenterLayer(c.Request.Context(), filter)
	if err != nil {
		serviceError(c, "Failed to render sub-center layer", err)
		return
	}

	response.Success(c, payload)
}

// GetDensityLayer handles GET /api/v1/maps/density
func (h *MapHandler) GetDensityLayer(c *gin.Context) {
	var filter models.DensityFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err)
		return
	}

	payload, err := h.service.DensityLayer(c.Request.Context(), filter)
	if err != nil {
		serviceError(c, "Failed to render density layer", err)
		return
	}

	response.Success(c, payload)
}
