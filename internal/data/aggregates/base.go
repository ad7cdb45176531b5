package aggregates

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	domainagg "github.com/yungbote/inspect-backend/internal/domain/aggregates"
	"github.com/yungbote/inspect-backend/internal/platform/dbctx"
	"github.com/yungbote/inspect-backend/internal/platform/logger"
)

type BaseDeps struct {
	DB     *gorm.DB
	Log    *logger.Logger
	Runner TxRunner
	Hooks  Hooks
}

func (d BaseDeps) withDefaults() BaseDeps {
	if d.Runner == nil {
		d.Runner = NewGormTxRunner(d.DB)
	}
	if d.Hooks == nil {
		d.Hooks = noopHooks{}
	}
	return d
}

// executeWrite runs fn inside one transaction and reports the outcome.
func executeWrite(ctx context.Context, deps BaseDeps, op string, fn func(dbc dbctx.Context) error) error {
	start := time.Now()
	deps = deps.withDefaults()
	op = normalizeOp(op, "aggregate.write")
	err := deps.Runner.InTx(ctx, fn)
	mapped := MapError(op, err)
	observe(deps, op, mapped, start)
	return mapped
}

// executeRead runs fn without a transaction; reads use pooled connections so
// independent relation loads may proceed concurrently.
func executeRead(ctx context.Context, deps BaseDeps, op string, fn func(dbc dbctx.Context) error) error {
	start := time.Now()
	deps = deps.withDefaults()
	op = normalizeOp(op, "aggregate.read")
	mapped := MapError(op, fn(dbctx.New(ctx)))
	observe(deps, op, mapped, start)
	return mapped
}

func observe(deps BaseDeps, op string, mapped error, start time.Time) {
	status := "success"
	if mapped != nil {
		status = aggregateErrorStatus(mapped)
		if domainagg.IsCode(mapped, domainagg.CodeConflict) {
			deps.Hooks.IncConflict(op)
		}
		if domainagg.IsCode(mapped, domainagg.CodeRetryable) {
			deps.Hooks.IncRetry(op)
		}
	}
	deps.Hooks.ObserveOperation(op, status, time.Since(start))
}

func normalizeOp(op, fallback string) string {
	op = strings.TrimSpace(op)
	if op == "" {
		return fallback
	}
	return op
}

func aggregateErrorStatus(err error) string {
	if err == nil {
		return "success"
	}
	code := strings.TrimSpace(string(domainagg.CodeOf(err)))
	if code == "" {
		code = strings.TrimSpace(string(domainagg.CodeOf(MapError("aggregate.status", err))))
	}
	if code == "" {
		return "failure"
	}
	return code
}
