package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ukfootprint/class-timetabler/internal/metrics"
)

// HealthHandler exposes liveness and Prometheus scrape endpoints.
type HealthHandler struct {
	metrics *metrics.Metrics
}

// NewHealthHandler constructs a HealthHandler.
func NewHealthHandler(m *metrics.Metrics) *HealthHandler {
	return &HealthHandler{metrics: m}
}

// serviceName is reported by APIHealth to identify this process to callers
// polling multiple services behind the same gateway.
const serviceName = "class-timetabler"

// Health responds with the liveness payload for GET /health.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// Root responds to GET /api/ with a plain identifying message.
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "School Timetabler API"})
}

// APIHealth responds to GET /api/health with status plus the service name.
func (h *HealthHandler) APIHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": serviceName})
}

// Prometheus serves the Prometheus metrics endpoint.
func (h *HealthHandler) Prometheus(c *gin.Context) {
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}
