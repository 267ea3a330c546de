package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/ukfootprint/class-timetabler/internal/metrics"
)

func TestHealthHandler_Health_ReturnsOK(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHealthHandler(metrics.New())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/health", nil)

	h.Health(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)
}

func TestHealthHandler_Root_ReturnsIdentifyingMessage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHealthHandler(metrics.New())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/", nil)

	h.Root(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"message":"School Timetabler API"`)
}

func TestHealthHandler_APIHealth_ReturnsStatusAndService(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHealthHandler(metrics.New())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/health", nil)

	h.APIHealth(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)
	assert.Contains(t, w.Body.String(), `"service":"class-timetabler"`)
}

func TestHealthHandler_Prometheus_ServesRegisteredMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := metrics.New()
	m.ObserveSolve("OPTIMAL", 10*time.Millisecond)
	h := NewHealthHandler(m)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/metrics", nil)

	h.Prometheus(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "solve_duration_seconds")
}
