package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/inspect-backend/internal/http/response"
	"github.com/yungbote/inspect-backend/internal/platform/ctxutil"
	"github.com/yungbote/inspect-backend/internal/platform/logger"
	"github.com/yungbote/inspect-backend/internal/services"
)

type AuthMiddleware struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService) *AuthMiddleware {
	middlewareLogger := log.With("middleware", "AuthMiddleware")
	return &AuthMiddleware{log: middlewareLogger, authService: authService}
}

// RequireAuth rejects requests without a valid bearer token before any
// handler runs.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractBearer(c)
		if tokenString == "" {
			response.RespondUnauthorized(c)
			return
		}
		ctx, err := am.authService.SetContextFromToken(c.Request.Context(), tokenString)
		if err != nil {
			am.log.Debug("Rejected token", "error", err)
			response.RespondUnauthorized(c)
			return
		}
		if _, ok := ctxutil.AuthUserID(ctx); !ok {
			response.RespondUnauthorized(c)
			return
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// OptionalAuth attaches the caller when a valid token is present and lets
// everyone else through as anonymous.
func (am *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractBearer(c)
		if tokenString != "" {
			ctx, err := am.authService.SetContextFromToken(c.Request.Context(), tokenString)
			if err == nil {
				c.Request = c.Request.WithContext(ctx)
			} else {
				am.log.Debug("Ignoring invalid token on public route", "error", err)
			}
		}
		c.Next()
	}
}

func extractBearer(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
