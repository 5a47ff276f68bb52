package api

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"daily-routine/internal/metrics"
)

// MetricsMiddleware records request counts and latency by route.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.ObserveHTTPRequest(c.Request.Method, path, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
