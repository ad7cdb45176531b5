package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/inspect-backend/internal/observability"
)

// Metrics records per-route request counts and latency. Requests that match
// no route share the "unmatched" label so arbitrary paths cannot grow the
// series set. The health probe is not recorded.
func Metrics(m *observability.Metrics) gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/healthcheck" {
			c.Next()
			return
		}
		m.ApiInflightInc()
		start := time.Now()
		defer func() {
			m.ApiInflightDec()
			m.ObserveAPI(c.Request.Method, routeLabel(c), strconv.Itoa(c.Writer.Status()), time.Since(start))
		}()
		c.Next()
	}
}

func routeLabel(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return "unmatched"
}
