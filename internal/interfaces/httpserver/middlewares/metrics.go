package middlewares

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// unmatchedRoute labels requests that hit no registered route, keeping the
// endpoint label bounded.
const unmatchedRoute = "unmatched"

// HTTPMetrics records served requests.
type HTTPMetrics interface {
	RecordHTTPRequest(method, endpoint, status string, duration time.Duration)
}

// MetricsMiddleware records HTTP request metrics labelled by route template.
func MetricsMiddleware(recorder HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = unmatchedRoute
		}

		recorder.RecordHTTPRequest(c.Request.Method, endpoint, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
