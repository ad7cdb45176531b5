package aggregates

import (
	"strings"
	"time"

	"github.com/yungbote/inspect-backend/internal/observability"
)

// Hooks receives one event per aggregate operation, plus conflict and retry
// counts keyed by operation name (insight_graph.get_insight, link_save.save_link).
type Hooks interface {
	ObserveOperation(name, status string, dur time.Duration)
	IncConflict(name string)
	IncRetry(name string)
}

type noopHooks struct{}

func (noopHooks) ObserveOperation(string, string, time.Duration) {}
func (noopHooks) IncConflict(string)                             {}
func (noopHooks) IncRetry(string)                                {}

// metricsHooks forwards to the process metrics. Metrics methods are nil-safe.
type metricsHooks struct{ m *observability.Metrics }

func NewObservabilityHooks(metrics *observability.Metrics) Hooks {
	if metrics == nil {
		return noopHooks{}
	}
	return metricsHooks{m: metrics}
}

func (h metricsHooks) ObserveOperation(name, status string, dur time.Duration) {
	h.m.ObserveAggregateOperation(opLabel(name), strings.TrimSpace(status), dur)
}

func (h metricsHooks) IncConflict(name string) { h.m.IncAggregateConflict(opLabel(name)) }

func (h metricsHooks) IncRetry(name string) { h.m.IncAggregateRetry(opLabel(name)) }

func opLabel(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
