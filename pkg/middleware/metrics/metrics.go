// Package metrics provides the Gin middleware that feeds internal/metrics
// from each HTTP request.
package metrics

import (
	"time"

	"github.com/gin-gonic/gin"

	appmetrics "github.com/ukfootprint/class-timetabler/internal/metrics"
)

// Middleware records request duration and outcome for every request.
func Middleware(m *appmetrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		duration := time.Since(start)

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		m.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), duration)
	}
}
