package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"resume-engine/internal/shared/metrics"
)

// Metrics records request counts and latency by route template.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.ObserveHTTP(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
