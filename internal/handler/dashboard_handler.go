package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/livestock-atlas-go/internal/models"
	"github.com/jengzang/livestock-atlas-go/internal/service"
	"github.com/jengzang/livestock-atlas-go/pkg/response"
)

// DashboardHandler serves the indicator cards, charts and center drill-down
type DashboardHandler struct {
	service *service.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// GetSummary handles GET /api/v1/summary
func (h *DashboardHandler) GetSummary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context())
	if err != nil {
		serviceError(c, "Failed to get summary", err)
		return
	}

	response.Success(c, summary)
}

// GetSpeciesChart handles GET /api/v1/charts/species
func (h *DashboardHandler) GetSpeciesChart(c *gin.Context) {
	var filter models.ChartFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err)
		return
	}

	chart, err := h.service.SpeciesChart(c.Request.Context(), filter)
	if err != nil {
		serviceError(c, "Failed to get species chart", err)
		return
	}

	response.Success(c, chart)
}

// GetTypesChart handles GET /api/v1/charts/types
func (h *DashboardHandler) GetTypesChart(c *gin.Context) {
	chart, err := h.service.TypesChart(c.Request.Context())
	if err != nil {
		serviceError(c, "Failed to get types chart", err)
		return
	}

	response.Success(c, chart)
}

// GetTrendChart handles GET /api/v1/charts/trend
func (h *DashboardHandler) GetTrendChart(c *gin.Context) {
	response.Success(c, h.service.TrendChart())
}

// ListCenters handles GET /api/v1/centers
func (h *DashboardHandler) ListCenters(c *gin.Context) {
	names, err := h.service.Centers(c.Request.Context())
	if err != nil {
		serviceError(c, "Failed to list centers", err)
		return
	}

	response.Success(c, gin.H{
		"centers": names,
		"total":   len(names),
	})
}

// GetCenter handles GET /api/v1/centers/:name
func (h *DashboardHandler) GetCenter(c *gin.Context) {
	detail, err := h.service.Center(c.Request.Context(), c.Param("name"))
	if err != nil {
		serviceError(c, "Failed to get center", err)
		return
	}

	response.Success(c, detail)
}

// Refresh handles POST /api/v1/refresh
func (h *DashboardHandler) Refresh(c *gin.Context) {
	ds, err := h.service.Refresh(c.Request.Context())
	if err != nil {
		serviceError(c, "Failed to refresh dataset", err)
		return
	}

	response.Success(c, gin.H{
		"loaded_at":  ds.LoadedAt,
		"subcenters": len(ds.AllData),
		"centers":    len(ds.Summary),
	})
}
