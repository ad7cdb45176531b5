package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domainagg "github.com/yungbote/inspect-backend/internal/domain/aggregates"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondDomainError writes a coded error using only its client message; the
// op and cause stay in the logs.
func RespondDomainError(c *gin.Context, status int, err error) {
	msg := domainagg.MessageOf(err)
	if msg == "" {
		msg = http.StatusText(status)
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    string(domainagg.CodeOf(err)),
		},
	})
}

// RespondUnauthorized is the bare body every unauthenticated request gets.
func RespondUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
