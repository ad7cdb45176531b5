package aggregates

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	domainagg "github.com/yungbote/inspect-backend/internal/domain/aggregates"
	"github.com/yungbote/inspect-backend/internal/platform/dbctx"
)

// TxRunner owns the transaction boundary of an aggregate write.
type TxRunner interface {
	InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error
}

const (
	maxTxAttempts = 3
	txRetryDelay  = 25 * time.Millisecond
)

type gormTxRunner struct {
	db       *gorm.DB
	attempts int
	delay    time.Duration
}

// NewGormTxRunner runs writes in gorm transactions. A body that fails with a
// retryable store error (sqlite "database is locked", serialization failures)
// is replayed in a fresh transaction, up to maxTxAttempts in total.
func NewGormTxRunner(db *gorm.DB) TxRunner {
	return &gormTxRunner{db: db, attempts: maxTxAttempts, delay: txRetryDelay}
}

func (r *gormTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	if fn == nil {
		return nil
	}
	if r == nil || r.db == nil {
		return domainagg.NewError(domainagg.CodeInternal, "aggregate.tx", "transaction runner has nil db", nil)
	}
	var err error
	for attempt := 1; attempt <= r.attempts; attempt++ {
		err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(dbctx.Context{Ctx: ctx, Tx: tx})
		})
		if err == nil || attempt == r.attempts || !retryableTxError(err) {
			return err
		}
		select {
		case <-ctx.Done():
			return err
		case <-time.After(time.Duration(attempt) * r.delay):
		}
	}
	return err
}

func retryableTxError(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return domainagg.IsCode(MapError("aggregate.tx", err), domainagg.CodeRetryable)
}
