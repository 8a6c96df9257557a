package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"broadcast-tool-backend/internal/common/metrics"
)

// Metrics records Prometheus series for every served request. The route
// template is used as the endpoint label so path parameters do not explode
// cardinality.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		metrics.RecordHTTPRequest(c.Request.Method, endpoint, c.Writer.Status(), time.Since(start))
	}
}
