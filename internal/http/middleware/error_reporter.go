package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/inspect-backend/internal/http/response"
	"github.com/yungbote/inspect-backend/internal/platform/ctxutil"
	"github.com/yungbote/inspect-backend/internal/platform/logger"
)

var (
	errTooManyRequests = errors.New("too many requests")
	errInternal        = errors.New("internal server error")
)

// ErrorReporter renders errors handlers pushed with c.Error as a generic 500
// and logs the cause. Panics are recovered the same way.
func ErrorReporter(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error("Panic serving request", "path", c.Request.URL.Path, "panic", rec, "trace_id", traceID(c))
				if !c.Writer.Written() {
					response.RespondError(c, http.StatusInternalServerError, "internal", errInternal)
				}
				c.Abort()
			}
		}()
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		for _, e := range c.Errors {
			log.Error("Request failed", "path", c.FullPath(), "error", e.Err, "trace_id", traceID(c))
		}
		if !c.Writer.Written() {
			response.RespondError(c, http.StatusInternalServerError, "internal", errInternal)
		}
	}
}

func traceID(c *gin.Context) string {
	if td := ctxutil.GetTraceData(c.Request.Context()); td != nil {
		return td.TraceID
	}
	return ""
}
