package apierr

import (
	"fmt"
	"net/http"

	"github.com/yungbote/inspect-backend/internal/domain/aggregates"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// StatusFor maps a coded error to its HTTP status. ok is false for errors that
// carry no client-facing classification; those are reported as 500 upstream.
func StatusFor(err error) (status int, ok bool) {
	switch aggregates.CodeOf(err) {
	case aggregates.CodeValidation:
		return http.StatusBadRequest, true
	case aggregates.CodeUnauthorized:
		return http.StatusUnauthorized, true
	case aggregates.CodeNotFound:
		return http.StatusNotFound, true
	case aggregates.CodeConflict, aggregates.CodePreconditionFailed, aggregates.CodeInvariantViolation:
		return http.StatusConflict, true
	default:
		return http.StatusInternalServerError, false
	}
}
