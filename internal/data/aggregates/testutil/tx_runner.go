package testutil

import (
	"context"
	"sync"

	"github.com/yungbote/inspect-backend/internal/data/aggregates"
	"github.com/yungbote/inspect-backend/internal/platform/dbctx"
)

// InjectedTxRunner runs the body without a real transaction and fails on
// demand before or after it, counting the outcome.
type InjectedTxRunner struct {
	mu sync.Mutex

	FailBegin  error
	FailCommit error

	BeginCalls    int
	CommitCalls   int
	RollbackCalls int
}

var _ aggregates.TxRunner = (*InjectedTxRunner)(nil)

func (r *InjectedTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	r.mu.Lock()
	r.BeginCalls++
	failBegin, failCommit := r.FailBegin, r.FailCommit
	r.mu.Unlock()

	if failBegin != nil {
		return failBegin
	}
	var err error
	if fn != nil {
		err = fn(dbctx.Context{Ctx: ctx})
	}
	if err == nil && failCommit != nil {
		err = failCommit
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.RollbackCalls++
		return err
	}
	r.CommitCalls++
	return nil
}
