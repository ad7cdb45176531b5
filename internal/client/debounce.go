package client

import (
	"context"
	"sync"
	"time"

	types "github.com/yungbote/inspect-backend/internal/domain"
)

// Debouncer runs the latest triggered func once input has been idle for
// the quiet period. Re-triggering or Stop cancels the pending run.
type Debouncer struct {
	quiet time.Duration

	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
}

func NewDebouncer(quiet time.Duration) *Debouncer {
	if quiet <= 0 {
		quiet = 300 * time.Millisecond
	}
	return &Debouncer{quiet: quiet}
}

func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.quiet, func() {
		d.mu.Lock()
		current := d.gen == gen
		if current {
			d.timer = nil
		}
		d.mu.Unlock()
		if current {
			fn()
		}
	})
}

// Stop drops any pending run and reports whether one was pending.
func (d *Debouncer) Stop() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	if d.timer == nil {
		return false
	}
	stopped := d.timer.Stop()
	d.timer = nil
	return stopped
}

// CandidateSearch debounces candidate lookups for one insight. Results
// are delivered to onResult from the timer goroutine.
type CandidateSearch struct {
	client   *Client
	uid      string
	limit    int
	debounce *Debouncer
	onResult func(query string, rows []*types.Insight, err error)
}

func NewCandidateSearch(c *Client, uid string, quiet time.Duration, limit int, onResult func(query string, rows []*types.Insight, err error)) *CandidateSearch {
	return &CandidateSearch{
		client:   c,
		uid:      uid,
		limit:    limit,
		debounce: NewDebouncer(quiet),
		onResult: onResult,
	}
}

func (s *CandidateSearch) Input(ctx context.Context, query string) {
	s.debounce.Trigger(func() {
		rows, err := s.client.Candidates(ctx, s.uid, query, 0, s.limit)
		s.onResult(query, rows, err)
	})
}

func (s *CandidateSearch) Stop() bool { return s.debounce.Stop() }
