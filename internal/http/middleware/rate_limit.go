package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/yungbote/inspect-backend/internal/http/response"
	"github.com/yungbote/inspect-backend/internal/observability"
	"github.com/yungbote/inspect-backend/internal/platform/ctxutil"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter hands out one token bucket per caller: the user id when
// authenticated, the client ip otherwise. Idle buckets are evicted by a
// sweep that runs at most once per sweepEvery.
type RateLimiter struct {
	mu         sync.Mutex
	visitors   map[string]*visitor
	rps        rate.Limit
	burst      int
	idleTTL    time.Duration
	sweepEvery time.Duration
	lastSweep  time.Time
	now        func() time.Time
}

func NewRateLimiter(requestsPerSecond float64, burst int) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		visitors:   make(map[string]*visitor),
		rps:        rate.Limit(requestsPerSecond),
		burst:      burst,
		idleTTL:    10 * time.Minute,
		sweepEvery: time.Minute,
		now:        time.Now,
	}
}

func (rl *RateLimiter) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := rl.now()
	if now.Sub(rl.lastSweep) >= rl.sweepEvery {
		rl.evictIdle(now)
	}
	v, ok := rl.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

func (rl *RateLimiter) evictIdle(now time.Time) {
	for k, v := range rl.visitors {
		if now.Sub(v.lastSeen) > rl.idleTTL {
			delete(rl.visitors, k)
		}
	}
	rl.lastSweep = now
}

// RateLimit applies rl to every request; a nil limiter or a non-positive
// rate disables it.
func RateLimit(rl *RateLimiter) gin.HandlerFunc {
	if rl == nil || rl.rps <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP()
		if id, ok := ctxutil.AuthUserID(c.Request.Context()); ok {
			key = "user:" + strconv.FormatUint(id, 10)
		}
		if !rl.allow(key) {
			observability.Current().IncRateLimited(c.FullPath())
			c.Header("Retry-After", "1")
			response.RespondError(c, http.StatusTooManyRequests, "rate_limited", errTooManyRequests)
			c.Abort()
			return
		}
		c.Next()
	}
}
