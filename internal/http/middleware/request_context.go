package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/inspect-backend/internal/platform/ctxutil"
)

// AttachRequestContext seeds an anonymous RequestData so downstream code can
// always read one; the auth middleware replaces it for authenticated calls.
func AttachRequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if ctxutil.GetRequestData(ctx) == nil {
			ctx = ctxutil.WithRequestData(ctx, &ctxutil.RequestData{})
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}
