package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/constructerp/attendance-api/internal/service"
	"github.com/constructerp/attendance-api/pkg/response"
)

// MetricsHandler exposes observability endpoints.
type MetricsHandler struct {
	metrics *service.MetricsService
}

// NewMetricsHandler constructs a metrics handler.
func NewMetricsHandler(metrics *service.MetricsService) *MetricsHandler {
	return &MetricsHandler{metrics: metrics}
}

// Prometheus serves the Prometheus metrics endpoint.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// SystemMetrics godoc
// @Summary Runtime metrics snapshot
// @Description Aggregated request, cache and database counters for admins
// @Tags Metrics
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/system-metrics [get]
func (h *MetricsHandler) SystemMetrics(c *gin.Context) {
	response.OK(c, h.metrics.Snapshot())
}

// Health responds with a generic OK payload for readiness/liveness usage.
func (h *MetricsHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
