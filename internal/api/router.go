package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jengzang/livestock-atlas-go/internal/config"
	"github.com/jengzang/livestock-atlas-go/internal/handler"
	"github.com/jengzang/livestock-atlas-go/internal/metrics"
	"github.com/jengzang/livestock-atlas-go/internal/middleware"
	"github.com/jengzang/livestock-atlas-go/internal/service"
)

// SetupRouter builds the API engine. The returned stop func releases the
// rate limiter and should be called once the server is shut down.
func SetupRouter(cfg *config.Config, svc *service.DashboardService, logger *zap.Logger) (*gin.Engine, func()) {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics())

	// CORS
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Livestock Atlas API is running",
		})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	maps := handler.NewMapHandler(svc)
	dashboard := handler.NewDashboardHandler(svc)

	stop := func() {}
	api := r.Group("/api/v1")
	if cfg.Server.RateLimit > 0 && cfg.Server.RateWindow > 0 {
		limiter := middleware.NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateWindow)
		api.Use(middleware.RateLimit(limiter))
		stop = limiter.Stop
	}
	{
		api.GET("/summary", dashboard.GetSummary)

		mapGroup := api.Group("/maps")
		{
			mapGroup.GET("/centers", maps.GetCenterLayer)
			mapGroup.GET("/subcenters", maps.GetSubcenterLayer)
			mapGroup.GET("/density", maps.GetDensityLayer)
		}

		charts := api.Group("/charts")
		{
			charts.GET("/species", dashboard.GetSpeciesChart)
			charts.GET("/types", dashboard.GetTypesChart)
			charts.GET("/trend", dashboard.GetTrendChart)
		}

		centers := api.Group("/centers")
		{
			centers.GET("", dashboard.ListCenters)
			centers.GET("/:name", dashboard.GetCenter)
		}

		api.POST("/refresh", dashboard.Refresh)
	}

	return r, stop
}
