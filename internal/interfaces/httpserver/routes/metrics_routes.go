package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jan-server/services/chat-api/internal/interfaces/httpserver/handlers"
)

func registerMetricsRoutes(router gin.IRoutes, handler *handlers.MetricsHandler) {
	router.GET("/summary", getMetricsSummary(handler))
	router.GET("/health", getMetricsHealth(handler))
}

// getMetricsSummary godoc
// @Summary      Metrics summary
// @Description  Aggregated values from the metrics registry. Scrape /metrics for the full series.
// @Tags         metrics
// @Produce      json
// @Success      200  {object}  handlers.MetricsSummary
// @Router       /api/metrics/summary [get]
func getMetricsSummary(handler *handlers.MetricsHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, handler.Summary())
	}
}

// getMetricsHealth godoc
// @Summary      Metrics subsystem health
// @Tags         metrics
// @Produce      json
// @Success      200  {object}  handlers.MetricsHealth
// @Router       /api/metrics/health [get]
func getMetricsHealth(handler *handlers.MetricsHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, handler.Health())
	}
}
