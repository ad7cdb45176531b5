package linkmeta

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter spaces out fetches per host.
type Limiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      rate.Limit
	burst    int
}

func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 1
	}
	return &Limiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rate.Limit(requestsPerSecond),
		burst:    burst,
	}
}

func (l *Limiter) Wait(ctx context.Context, host string) error {
	return l.get(host).Wait(ctx)
}

func (l *Limiter) get(host string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.limiters[host]
	if !ok {
		lim = rate.NewLimiter(l.rps, l.burst)
		l.limiters[host] = lim
	}
	return lim
}
