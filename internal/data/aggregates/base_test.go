package aggregates

import (
	"context"
	"errors"
	"testing"
	"time"

	domainagg "github.com/yungbote/inspect-backend/internal/domain/aggregates"
	"github.com/yungbote/inspect-backend/internal/platform/dbctx"
)

func TestExecuteReportsOutcome(t *testing.T) {
	tests := []struct {
		name          string
		write         bool
		body          error
		wantStatus    string
		wantConflicts int
		wantRetries   int
	}{
		{name: "write success", write: true, wantStatus: "success"},
		{name: "read not found", body: domainagg.NotFound("op", "insight not found"), wantStatus: "not_found"},
		{name: "write conflict", write: true, body: ConflictError("already linked"), wantStatus: "conflict", wantConflicts: 1},
		{name: "write locked", write: true, body: errors.New("database is locked"), wantStatus: "retryable", wantRetries: 1},
		{name: "read fk", body: errors.New("FOREIGN KEY constraint failed"), wantStatus: "precondition_failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hooks := &spyHooks{}
			deps := BaseDeps{Runner: spyTxRunner{}, Hooks: hooks}
			body := func(dbctx.Context) error { return tt.body }

			var err error
			if tt.write {
				err = executeWrite(context.Background(), deps, "link_save.test", body)
			} else {
				err = executeRead(context.Background(), deps, "insight_graph.test", body)
			}
			if (tt.body == nil) != (err == nil) {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(hooks.Operations) != 1 || hooks.Operations[0].Status != tt.wantStatus {
				t.Fatalf("operations: %+v, want status %s", hooks.Operations, tt.wantStatus)
			}
			if len(hooks.Conflicts) != tt.wantConflicts || len(hooks.Retries) != tt.wantRetries {
				t.Fatalf("conflicts=%v retries=%v", hooks.Conflicts, hooks.Retries)
			}
		})
	}
}

func TestExecuteDefaultsOperationName(t *testing.T) {
	hooks := &spyHooks{}
	_ = executeRead(context.Background(), BaseDeps{Hooks: hooks}, "  ", func(dbctx.Context) error { return nil })
	if len(hooks.Operations) != 1 || hooks.Operations[0].Name != "aggregate.read" {
		t.Fatalf("operations: %+v", hooks.Operations)
	}
}

func TestAggregateErrorStatus(t *testing.T) {
	tests := map[string]struct {
		err  error
		want string
	}{
		"nil":        {nil, "success"},
		"validation": {ValidationError("title is required"), "validation"},
		"conflict":   {ConflictError("exists"), "conflict"},
		"deadline":   {context.DeadlineExceeded, "retryable"},
		"unknown":    {errors.New("boom"), "internal"},
	}
	for name, tt := range tests {
		if got := aggregateErrorStatus(tt.err); got != tt.want {
			t.Fatalf("%s: want=%s got=%s", name, tt.want, got)
		}
	}
}

type spyTxRunner struct{}

func (spyTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	return fn(dbctx.Context{Ctx: ctx})
}

type spyOperation struct {
	Name   string
	Status string
}

type spyHooks struct {
	Operations []spyOperation
	Conflicts  []string
	Retries    []string
}

func (h *spyHooks) ObserveOperation(name, status string, _ time.Duration) {
	h.Operations = append(h.Operations, spyOperation{Name: name, Status: status})
}

func (h *spyHooks) IncConflict(name string) { h.Conflicts = append(h.Conflicts, name) }

func (h *spyHooks) IncRetry(name string) { h.Retries = append(h.Retries, name) }
