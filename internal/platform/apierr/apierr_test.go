package apierr

import (
	"errors"
	"net/http"
	"testing"

	"github.com/yungbote/inspect-backend/internal/domain/aggregates"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		ok     bool
	}{
		{"validation", aggregates.Validation("op", "bad"), http.StatusBadRequest, true},
		{"unauthorized", aggregates.Unauthorized("op"), http.StatusUnauthorized, true},
		{"not found", aggregates.NotFound("op", "missing"), http.StatusNotFound, true},
		{"fk", aggregates.NewError(aggregates.CodePreconditionFailed, "op", "invalid summary_id", nil), http.StatusConflict, true},
		{"conflict", aggregates.Conflict("op", "cycle"), http.StatusConflict, true},
		{"internal", aggregates.Wrap(aggregates.CodeInternal, "op", errors.New("boom")), http.StatusInternalServerError, false},
		{"plain", errors.New("boom"), http.StatusInternalServerError, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, ok := StatusFor(tc.err)
			if status != tc.status || ok != tc.ok {
				t.Fatalf("StatusFor: got=(%d,%v) want=(%d,%v)", status, ok, tc.status, tc.ok)
			}
		})
	}
}
