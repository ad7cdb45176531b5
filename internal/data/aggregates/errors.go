package aggregates

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domainagg "github.com/yungbote/inspect-backend/internal/domain/aggregates"
)

var (
	// ErrValidation indicates caller input validation failure.
	ErrValidation = errors.New("aggregate validation")
	// ErrConflict indicates a uniqueness conflict.
	ErrConflict = errors.New("aggregate conflict")
	// ErrRetryable indicates transient retryable failure.
	ErrRetryable = errors.New("aggregate retryable")
)

// ValidationError tags an error as validation failure.
func ValidationError(msg string) error {
	return errors.Join(ErrValidation, errors.New(strings.TrimSpace(msg)))
}

// ConflictError tags an error as conflict failure.
func ConflictError(msg string) error {
	return errors.Join(ErrConflict, errors.New(strings.TrimSpace(msg)))
}

// InvalidReference is the client message for an unnamed foreign key failure.
const InvalidReference = "invalid reference"

// foreign key constraint name (gorm naming: fk_<owner table>_<relation>) -> client message
var fkMessages = map[string]string{
	"fk_evidence_summary":    "invalid summary_id",
	"fk_insights_evidence":   "invalid insight_id",
	"fk_insights_children":   "invalid parent_id",
	"fk_insights_parents":    "invalid child_id",
	"fk_insights_comments":   "invalid insight_id",
	"fk_insights_reactions":  "invalid insight_id",
	"fk_summaries_comments":  "invalid summary_id",
	"fk_summaries_reactions": "invalid summary_id",
	"fk_comments_reactions":  "invalid comment_id",
	"fk_summaries_source":    "invalid source_id",
	"fk_insights_user":       "invalid user_id",
	"fk_summaries_user":      "invalid user_id",
	"fk_comments_user":       "invalid user_id",
	"fk_reactions_user":      "invalid user_id",
}

// ForeignKeyMessage names the bad reference for a violated constraint.
func ForeignKeyMessage(constraint string) string {
	if msg, ok := fkMessages[strings.ToLower(strings.TrimSpace(constraint))]; ok {
		return msg
	}
	return InvalidReference
}

// MapError maps store failures into coded errors. Foreign key violations
// never carry the raw store message to the client; the cause is kept for logs.
func MapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var coded *domainagg.Error
	if errors.As(err, &coded) {
		return err
	}
	switch {
	case errors.Is(err, ErrValidation):
		return domainagg.Wrap(domainagg.CodeValidation, op, err)
	case errors.Is(err, ErrConflict):
		return domainagg.Wrap(domainagg.CodeConflict, op, err)
	case errors.Is(err, ErrRetryable):
		return domainagg.Wrap(domainagg.CodeRetryable, op, err)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domainagg.NewError(domainagg.CodeNotFound, op, "not found", err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return domainagg.Wrap(domainagg.CodeRetryable, op, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case "23505":
			return domainagg.NewError(domainagg.CodeConflict, op, "already exists", err) // unique_violation
		case "23503":
			return domainagg.NewError(domainagg.CodePreconditionFailed, op, ForeignKeyMessage(pgErr.ConstraintName), err) // foreign_key_violation
		case "40001", "40P01", "55P03":
			return domainagg.Wrap(domainagg.CodeRetryable, op, err) // serialization/deadlock/lock_not_available
		}
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "foreign key constraint failed"):
		// sqlite does not report which constraint failed
		return domainagg.NewError(domainagg.CodePreconditionFailed, op, InvalidReference, err)
	case strings.Contains(msg, "unique constraint failed"), strings.Contains(msg, "duplicate key"):
		return domainagg.NewError(domainagg.CodeConflict, op, "already exists", err)
	case strings.Contains(msg, "deadlock"),
		strings.Contains(msg, "serialization"),
		strings.Contains(msg, "database is locked"):
		return domainagg.Wrap(domainagg.CodeRetryable, op, err)
	default:
		return domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
}

// IsUnnamedReference reports a foreign key failure whose constraint is unknown.
func IsUnnamedReference(err error) bool {
	return domainagg.IsCode(err, domainagg.CodePreconditionFailed) && domainagg.MessageOf(err) == InvalidReference
}
