package middleware

import (
	"time"

	"github.com/cleberrangel/time-perception-api/internal/metrics"
	"github.com/gin-gonic/gin"
)

// MetricsMiddleware tracks request metrics
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		elapsed := time.Since(start)
		statusCode := c.Writer.Status()

		metrics.Get().IncrementRequests(statusCode < 400, elapsed.Milliseconds())

		// Usa a rota registrada para não explodir a cardinalidade com IDs
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.Get().TrackEndpoint(path, c.Request.Method, statusCode, elapsed.Milliseconds())
		metrics.ObserveHTTP(path, c.Request.Method, statusCode, elapsed.Seconds())
	}
}
