package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dev-mohitbeniwal/bookclub/metrics"
)

// Metrics counts requests by matched route, so path parameters such as list
// names do not explode label cardinality.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
