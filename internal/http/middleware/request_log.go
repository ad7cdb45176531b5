package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/inspect-backend/internal/platform/ctxutil"
	"github.com/yungbote/inspect-backend/internal/platform/logger"
)

// RequestLogger writes one line per request once the handler chain returns.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		ctx := c.Request.Context()
		status := c.Writer.Status()
		fields := []interface{}{
			"method", c.Request.Method,
			"route", routeLabel(c),
			"path", c.Request.URL.Path,
			"status", status,
			"bytes", c.Writer.Size(),
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if td := ctxutil.GetTraceData(ctx); td != nil {
			fields = append(fields, "trace_id", td.TraceID, "request_id", td.RequestID)
		}
		if userID, ok := ctxutil.AuthUserID(ctx); ok {
			fields = append(fields, "user_id", userID)
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}
		logAtStatus(log, status)("HTTP request", fields...)
	}
}

func logAtStatus(log *logger.Logger, status int) func(string, ...interface{}) {
	switch {
	case status >= 500:
		return log.Error
	case status >= 400:
		return log.Warn
	default:
		return log.Info
	}
}
