package observability

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/inspect-backend/internal/platform/logger"
)

type MetricsConfig struct {
	Enabled bool
	// LatencyThreshold is the per-request latency in seconds counted as good.
	LatencyThreshold float64
	ScrapeInterval   time.Duration
}

type Metrics struct {
	apiRequests *CounterVec
	apiLatency  *HistogramVec
	apiInflight *Gauge
	apiReqTotal *Counter
	apiReqError *Counter
	apiReqGood  *Counter

	aggregateOps      *CounterVec
	aggregateLatency  *HistogramVec
	aggregateConflict *CounterVec
	aggregateRetry    *CounterVec

	linkFetches *CounterVec
	sourceCache *CounterVec
	rateLimited *CounterVec

	pgStats   *GaugeVec
	redisUp   *Gauge
	redisPing *Gauge

	latencyThreshold float64
	scrapeInterval   time.Duration
}

var (
	initOnce sync.Once
	instance *Metrics
)

func Current() *Metrics {
	return instance
}

// Init builds the process metrics once. It returns nil when metrics are
// disabled; every method is safe on a nil receiver.
func Init(log *logger.Logger, cfg MetricsConfig) *Metrics {
	if !cfg.Enabled {
		return nil
	}
	initOnce.Do(func() {
		instance = newMetrics(cfg)
		if log != nil {
			log.Info("Observability metrics enabled")
		}
	})
	return instance
}

func newMetrics(cfg MetricsConfig) *Metrics {
	threshold := cfg.LatencyThreshold
	if threshold <= 0 {
		threshold = 0.5
	}
	interval := cfg.ScrapeInterval
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &Metrics{
		apiRequests: NewCounterVec("inspect_api_requests_total", "Total API requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec(
			"inspect_api_request_duration_seconds",
			"API request latency in seconds by method/route/status.",
			[]string{"method", "route", "status"},
			[]float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		),
		apiInflight: NewGauge("inspect_api_inflight_requests", "In-flight API requests."),
		apiReqTotal: NewCounter("inspect_api_requests_total_all", "Total API requests (all)."),
		apiReqError: NewCounter("inspect_api_requests_error_total", "Total API requests with 5xx status."),
		apiReqGood:  NewCounter("inspect_api_requests_good_latency_total", "Total API requests under the latency threshold."),

		aggregateOps: NewCounterVec("inspect_aggregate_operations_total", "Aggregate operations by name/status.", []string{"aggregate", "status"}),
		aggregateLatency: NewHistogramVec(
			"inspect_aggregate_operation_duration_seconds",
			"Aggregate operation duration in seconds by name/status.",
			[]string{"aggregate", "status"},
			[]float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2},
		),
		aggregateConflict: NewCounterVec("inspect_aggregate_conflicts_total", "Aggregate conflicts by name.", []string{"aggregate"}),
		aggregateRetry:    NewCounterVec("inspect_aggregate_retries_total", "Aggregate retries by name.", []string{"aggregate"}),

		linkFetches: NewCounterVec("inspect_link_fetch_total", "Link metadata fetches by outcome.", []string{"outcome"}),
		sourceCache: NewCounterVec("inspect_source_cache_total", "Source cache lookups by result.", []string{"result"}),
		rateLimited: NewCounterVec("inspect_rate_limited_total", "Requests rejected by the rate limiter by route.", []string{"route"}),

		pgStats:   NewGaugeVec("inspect_db_stats", "Database pool stats.", []string{"metric"}),
		redisUp:   NewGauge("inspect_redis_up", "Redis connectivity (1=up, 0=down)."),
		redisPing: NewGauge("inspect_redis_ping_seconds", "Redis ping latency in seconds."),

		latencyThreshold: threshold,
		scrapeInterval:   interval,
	}
}

func (m *Metrics) StartServer(ctx context.Context, log *logger.Logger, addr string) {
	if m == nil {
		return
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           http.HandlerFunc(m.WriteHTTP),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = srv.Shutdown(shutdownCtx)
		cancel()
	}()
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if log != nil {
				log.Error("metrics server failed", "error", err, "addr", addr)
			}
		}
	}()
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

type promWriter interface {
	WritePrometheus(w io.Writer) error
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	for _, metric := range []promWriter{
		m.apiRequests, m.apiLatency, m.apiInflight, m.apiReqTotal, m.apiReqError, m.apiReqGood,
		m.aggregateOps, m.aggregateLatency, m.aggregateConflict, m.aggregateRetry,
		m.linkFetches, m.sourceCache, m.rateLimited,
		m.pgStats, m.redisUp, m.redisPing,
	} {
		if err := metric.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	if status == "" {
		status = "0"
	}
	m.apiRequests.Inc(method, route, status)
	m.apiLatency.Observe(dur.Seconds(), method, route, status)
	m.apiReqTotal.Inc()
	if isServerErrorStatus(status) {
		m.apiReqError.Inc()
	}
	if dur.Seconds() <= m.latencyThreshold {
		m.apiReqGood.Inc()
	}
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) ObserveAggregateOperation(name, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if name == "" {
		name = "unknown"
	}
	if status == "" {
		status = "unknown"
	}
	m.aggregateOps.Inc(name, status)
	m.aggregateLatency.Observe(dur.Seconds(), name, status)
}

func (m *Metrics) IncAggregateConflict(name string) {
	if m == nil {
		return
	}
	m.aggregateConflict.Inc(name)
}

func (m *Metrics) IncAggregateRetry(name string) {
	if m == nil {
		return
	}
	m.aggregateRetry.Inc(name)
}

// IncLinkFetch records one metadata lookup: ok, error or disallowed.
func (m *Metrics) IncLinkFetch(outcome string) {
	if m == nil {
		return
	}
	m.linkFetches.Inc(outcome)
}

func (m *Metrics) IncSourceCache(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.sourceCache.Inc("hit")
		return
	}
	m.sourceCache.Inc("miss")
}

func (m *Metrics) IncRateLimited(route string) {
	if m == nil {
		return
	}
	m.rateLimited.Inc(route)
}

// Pinger is satisfied by the redis-backed source cache.
type Pinger interface {
	Ping(ctx context.Context) error
}

// StartDBCollector samples pool stats every scrape interval until ctx ends.
func (m *Metrics) StartDBCollector(ctx context.Context, log *logger.Logger, db *gorm.DB) {
	if m == nil || db == nil {
		return
	}
	go m.every(ctx, func() {
		sqlDB, err := db.DB()
		if err != nil {
			if log != nil {
				log.Warn("metrics: db stats unavailable", "error", err)
			}
			return
		}
		stats := sqlDB.Stats()
		for name, v := range map[string]float64{
			"open_connections":      float64(stats.OpenConnections),
			"in_use":                float64(stats.InUse),
			"idle":                  float64(stats.Idle),
			"wait_count":            float64(stats.WaitCount),
			"wait_duration_seconds": stats.WaitDuration.Seconds(),
			"max_open_connections":  float64(stats.MaxOpenConnections),
		} {
			m.pgStats.Set(v, name)
		}
	})
}

// StartRedisCollector records reachability and ping latency of the shared
// cache. It reuses the cache's connection.
func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, p Pinger) {
	if m == nil || p == nil {
		return
	}
	go m.every(ctx, func() {
		pingCtx, cancel := context.WithTimeout(ctx, m.scrapeInterval)
		defer cancel()
		start := time.Now()
		if err := p.Ping(pingCtx); err != nil {
			m.redisUp.Set(0)
			if log != nil && ctx.Err() == nil {
				log.Warn("metrics: redis ping failed", "error", err)
			}
			return
		}
		m.redisUp.Set(1)
		m.redisPing.Set(time.Since(start).Seconds())
	})
}

func (m *Metrics) every(ctx context.Context, sample func()) {
	ticker := time.NewTicker(m.scrapeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sample()
		}
	}
}
