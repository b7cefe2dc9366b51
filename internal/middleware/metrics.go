package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/central-adp/central-admin-api/internal/service"
)

// Metrics times every request and feeds the HTTP histograms. Routes are
// labelled by template path so /users/:id stays one series.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
