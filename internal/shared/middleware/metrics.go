package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"storefront-backend/internal/infrastructure/metrics"
)

// PrometheusMetrics collects request count, latency and in-flight requests.
// The path label is the gin route template so ids do not explode cardinality.
func PrometheusMetrics(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		metrics.HTTPRequestsInFlight.WithLabelValues(serviceName).Inc()
		defer metrics.HTTPRequestsInFlight.WithLabelValues(serviceName).Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		status := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method

		metrics.HTTPRequestsTotal.WithLabelValues(serviceName, method, route, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(serviceName, method, route, status).Observe(time.Since(start).Seconds())
	}
}
