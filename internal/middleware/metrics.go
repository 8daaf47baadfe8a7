package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/training-hours-api/internal/service"
)

// UnmatchedRoute labels requests that hit no registered route, so probes for
// arbitrary URLs cannot grow the path label set.
const UnmatchedRoute = "unmatched"

const metricsRoute = "/metrics"

// Metrics observes each request under its route template (for example
// /api/v1/records/:position). Scrapes of /metrics are not counted.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		switch route {
		case metricsRoute:
			return
		case "":
			route = UnmatchedRoute
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
