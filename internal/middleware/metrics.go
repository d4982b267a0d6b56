package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/terra-do-sol/checkin-api/internal/service"
)

// Metrics records request counts and latency per route template.
func Metrics(metrics *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
