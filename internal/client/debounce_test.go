package client

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	types "github.com/yungbote/inspect-backend/internal/domain"
)

func TestDebouncerRunsLatestOnly(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)
	var runs atomic.Int32
	var last atomic.Value
	done := make(chan struct{}, 4)

	for _, q := range []string{"g", "go", "gol"} {
		d.Trigger(func() {
			runs.Add(1)
			last.Store(q)
			done <- struct{}{}
		})
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("debounced func never ran")
	}
	time.Sleep(80 * time.Millisecond)
	if runs.Load() != 1 {
		t.Fatalf("runs = %d", runs.Load())
	}
	if last.Load() != "gol" {
		t.Fatalf("last = %v", last.Load())
	}
}

func TestDebouncerStop(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	var runs atomic.Int32
	d.Trigger(func() { runs.Add(1) })
	if !d.Stop() {
		t.Fatalf("Stop should report a pending run")
	}
	time.Sleep(60 * time.Millisecond)
	if runs.Load() != 0 {
		t.Fatalf("stopped func ran")
	}
	if d.Stop() {
		t.Fatalf("nothing pending after Stop")
	}
}

func TestCandidateSearchDispatchesOnce(t *testing.T) {
	api, c := newFakeAPI(t)
	api.handle(http.MethodGet, "/api/insights/root/candidates", func(w http.ResponseWriter, _ map[string]any) {
		writeJSON(w, http.StatusOK, []*types.Insight{{ID: 2, Title: "golang"}})
	})

	type result struct {
		query string
		rows  []*types.Insight
		err   error
	}
	results := make(chan result, 4)
	s := NewCandidateSearch(c, "root", 25*time.Millisecond, 10, func(query string, rows []*types.Insight, err error) {
		results <- result{query, rows, err}
	})
	s.Input(context.Background(), "g")
	s.Input(context.Background(), "go")

	select {
	case r := <-results:
		if r.err != nil || r.query != "go" || len(r.rows) != 1 {
			t.Fatalf("result = %+v", r)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no search result")
	}
	time.Sleep(60 * time.Millisecond)
	if api.count() != 1 {
		t.Fatalf("requests = %d", api.count())
	}
	if got := api.last().query; got != "limit=10&query=go" {
		t.Fatalf("query = %q", got)
	}
}
