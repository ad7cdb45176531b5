package aggregates

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domainagg "github.com/yungbote/inspect-backend/internal/domain/aggregates"
)

func TestMapError_Validation(t *testing.T) {
	err := MapError("op", ValidationError("bad input"))
	if !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("expected validation code, got %q (%v)", domainagg.CodeOf(err), err)
	}
}

func TestMapError_Conflict(t *testing.T) {
	err := MapError("op", ConflictError("stale"))
	if !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("expected conflict code, got %q (%v)", domainagg.CodeOf(err), err)
	}
}

func TestMapError_NotFound(t *testing.T) {
	err := MapError("op", gorm.ErrRecordNotFound)
	if !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("expected not_found code, got %q (%v)", domainagg.CodeOf(err), err)
	}
}

func TestMapError_PassthroughAggregateError(t *testing.T) {
	in := domainagg.NewError(domainagg.CodeRetryable, "op", "retry", errors.New("boom"))
	out := MapError("other", in)
	if out != in {
		t.Fatalf("expected passthrough aggregate error")
	}
}

func TestMapError_PostgresForeignKeyNamesReference(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23503", ConstraintName: "fk_evidence_summary", Message: "insert or update violates foreign key constraint"}
	err := MapError("evidence.create", fmt.Errorf("exec: %w", pgErr))
	if !domainagg.IsCode(err, domainagg.CodePreconditionFailed) {
		t.Fatalf("expected precondition_failed, got %q", domainagg.CodeOf(err))
	}
	if got := domainagg.MessageOf(err); got != "invalid summary_id" {
		t.Fatalf("expected constraint message, got %q", got)
	}
	if !errors.Is(err, pgErr) {
		t.Fatalf("expected cause to be kept")
	}
}

func TestMapError_PostgresUnique(t *testing.T) {
	err := MapError("op", &pgconn.PgError{Code: "23505"})
	if !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("expected conflict code, got %q", domainagg.CodeOf(err))
	}
}

func TestMapError_SQLiteForeignKey(t *testing.T) {
	err := MapError("op", errors.New("FOREIGN KEY constraint failed"))
	if !domainagg.IsCode(err, domainagg.CodePreconditionFailed) {
		t.Fatalf("expected precondition_failed, got %q", domainagg.CodeOf(err))
	}
	if !IsUnnamedReference(err) {
		t.Fatalf("expected unnamed reference")
	}
}

func TestMapError_UnknownIsInternal(t *testing.T) {
	err := MapError("op", errors.New("connection reset"))
	if !domainagg.IsCode(err, domainagg.CodeInternal) {
		t.Fatalf("expected internal, got %q", domainagg.CodeOf(err))
	}
}

func TestForeignKeyMessage(t *testing.T) {
	cases := map[string]string{
		"fk_insights_evidence": "invalid insight_id",
		"FK_INSIGHTS_CHILDREN": "invalid parent_id",
		"fk_insights_parents":  "invalid child_id",
		"":                     InvalidReference,
		"fk_unknown":           InvalidReference,
	}
	for in, want := range cases {
		if got := ForeignKeyMessage(in); got != want {
			t.Fatalf("ForeignKeyMessage(%q) = %q, want %q", in, got, want)
		}
	}
}
