package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/unikl-dcms/dcms-api/internal/service"
)

// Metrics records one observation per request. The route template is used
// as the path label so parameterized routes (campus IDs, course codes, task
// indexes) collapse into a single series; unmatched requests fall back to
// a fixed label to keep cardinality bounded.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
