package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	domainagg "github.com/yungbote/inspect-backend/internal/domain/aggregates"
	"github.com/yungbote/inspect-backend/internal/http/response"
	"github.com/yungbote/inspect-backend/internal/platform/apierr"
)

// respondErr writes classified errors directly and hands everything else to
// the error reporter, which logs it and renders a 500.
func respondErr(c *gin.Context, err error) {
	status, ok := apierr.StatusFor(err)
	if !ok {
		_ = c.Error(err)
		c.Abort()
		return
	}
	if domainagg.IsCode(err, domainagg.CodeUnauthorized) {
		response.RespondUnauthorized(c)
		return
	}
	response.RespondDomainError(c, status, err)
}

func badRequest(c *gin.Context, op, msg string) {
	respondErr(c, domainagg.Validation(op, msg))
}

// flag reads a boolean query parameter; only "1" and "true" enable it.
func flag(c *gin.Context, name string) bool {
	v := strings.ToLower(strings.TrimSpace(c.Query(name)))
	return v == "1" || v == "true"
}

// intQuery parses an optional non-negative integer query parameter.
func intQuery(c *gin.Context, name string) (int, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// page reads offset and limit; it writes a 400 and returns false when
// either is malformed.
func page(c *gin.Context, op string) (offset, limit int, ok bool) {
	if offset, ok = intQuery(c, "offset"); !ok {
		badRequest(c, op, "offset must be a non-negative integer")
		return 0, 0, false
	}
	if limit, ok = intQuery(c, "limit"); !ok {
		badRequest(c, op, "limit must be a non-negative integer")
		return 0, 0, false
	}
	return offset, limit, true
}

// pathID parses the numeric :id path parameter; it writes a 400 and returns
// false when the id is missing or malformed.
func pathID(c *gin.Context, op string) (uint64, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || id == 0 {
		badRequest(c, op, "id must be a positive integer")
		return 0, false
	}
	return id, true
}

// bindJSON decodes the body; it writes a 400 and returns false on failure.
func bindJSON(c *gin.Context, op string, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		badRequest(c, op, "invalid request body")
		return false
	}
	return true
}
