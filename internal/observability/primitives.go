package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
)

// Minimal Prometheus text-format metrics. Series are keyed by their rendered
// label set and written in sorted order.

type family struct {
	name       string
	help       string
	kind       string
	labelNames []string
}

func (f family) header(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "# HELP %s %s\n", f.name, f.help); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "# TYPE %s %s\n", f.name, f.kind)
	return err
}

type valueSet struct {
	family
	mu     sync.RWMutex
	values map[string]float64
}

func newValueSet(name, help, kind string, labels []string) *valueSet {
	return &valueSet{family: family{name: name, help: help, kind: kind, labelNames: labels}, values: map[string]float64{}}
}

func (s *valueSet) update(fn func(float64) float64, values []string) {
	lbl := labelString(s.labelNames, values)
	s.mu.Lock()
	s.values[lbl] = fn(s.values[lbl])
	s.mu.Unlock()
}

func (s *valueSet) get(values []string) float64 {
	lbl := labelString(s.labelNames, values)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[lbl]
}

func (s *valueSet) write(w io.Writer) error {
	if err := s.header(w); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, err := fmt.Fprintf(w, "%s%s %g\n", s.name, k, s.values[k]); err != nil {
			return err
		}
	}
	return nil
}

type CounterVec struct{ set *valueSet }

func NewCounterVec(name, help string, labels []string) *CounterVec {
	return &CounterVec{set: newValueSet(name, help, "counter", labels)}
}

func (c *CounterVec) Inc(values ...string) { c.Add(1, values...) }

func (c *CounterVec) Add(v float64, values ...string) {
	if c == nil {
		return
	}
	c.set.update(func(cur float64) float64 { return cur + v }, values)
}

func (c *CounterVec) Value(values ...string) float64 {
	if c == nil {
		return 0
	}
	return c.set.get(values)
}

func (c *CounterVec) WritePrometheus(w io.Writer) error {
	if c == nil {
		return nil
	}
	return c.set.write(w)
}

type GaugeVec struct{ set *valueSet }

func NewGaugeVec(name, help string, labels []string) *GaugeVec {
	return &GaugeVec{set: newValueSet(name, help, "gauge", labels)}
}

func (g *GaugeVec) Set(v float64, values ...string) {
	if g == nil {
		return
	}
	g.set.update(func(float64) float64 { return v }, values)
}

func (g *GaugeVec) WritePrometheus(w io.Writer) error {
	if g == nil {
		return nil
	}
	return g.set.write(w)
}

// Counter and Gauge are the unlabelled forms.
type Counter struct{ vec *CounterVec }

func NewCounter(name, help string) *Counter {
	return &Counter{vec: NewCounterVec(name, help, nil)}
}

func (c *Counter) Inc() {
	if c != nil {
		c.vec.Inc()
	}
}

func (c *Counter) Add(v float64) {
	if c != nil {
		c.vec.Add(v)
	}
}

func (c *Counter) Value() float64 {
	if c == nil {
		return 0
	}
	return c.vec.Value()
}

func (c *Counter) WritePrometheus(w io.Writer) error {
	if c == nil {
		return nil
	}
	return c.vec.WritePrometheus(w)
}

type Gauge struct{ set *valueSet }

func NewGauge(name, help string) *Gauge {
	return &Gauge{set: newValueSet(name, help, "gauge", nil)}
}

func (g *Gauge) Set(v float64) {
	if g != nil {
		g.set.update(func(float64) float64 { return v }, nil)
	}
}

func (g *Gauge) Inc() {
	if g != nil {
		g.set.update(func(cur float64) float64 { return cur + 1 }, nil)
	}
}

func (g *Gauge) Dec() {
	if g != nil {
		g.set.update(func(cur float64) float64 { return cur - 1 }, nil)
	}
}

func (g *Gauge) Value() float64 {
	if g == nil {
		return 0
	}
	return g.set.get(nil)
}

func (g *Gauge) WritePrometheus(w io.Writer) error {
	if g == nil {
		return nil
	}
	return g.set.write(w)
}

type HistogramVec struct {
	family
	buckets []float64
	mu      sync.RWMutex
	values  map[string]*histogram
}

type histogram struct {
	counts []uint64 // cumulative per bucket, last slot is +Inf
	sum    float64
	total  uint64
}

func NewHistogramVec(name, help string, labels []string, buckets []float64) *HistogramVec {
	if len(buckets) == 0 {
		buckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5}
	}
	return &HistogramVec{
		family:  family{name: name, help: help, kind: "histogram", labelNames: labels},
		buckets: buckets,
		values:  map[string]*histogram{},
	}
}

func (h *HistogramVec) Observe(v float64, values ...string) {
	if h == nil {
		return
	}
	lbl := labelString(h.labelNames, values)
	h.mu.Lock()
	defer h.mu.Unlock()
	hist, ok := h.values[lbl]
	if !ok {
		hist = &histogram{counts: make([]uint64, len(h.buckets)+1)}
		h.values[lbl] = hist
	}
	hist.sum += v
	hist.total++
	for i, b := range h.buckets {
		if v <= b {
			hist.counts[i]++
		}
	}
	hist.counts[len(hist.counts)-1]++
}

// Count returns how many observations a series has.
func (h *HistogramVec) Count(values ...string) uint64 {
	if h == nil {
		return 0
	}
	lbl := labelString(h.labelNames, values)
	h.mu.RLock()
	defer h.mu.RUnlock()
	if hist, ok := h.values[lbl]; ok {
		return hist.total
	}
	return 0
}

func (h *HistogramVec) WritePrometheus(w io.Writer) error {
	if h == nil {
		return nil
	}
	if err := h.header(w); err != nil {
		return err
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	keys := make([]string, 0, len(h.values))
	for k := range h.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		hist := h.values[k]
		for i, b := range h.buckets {
			if _, err := fmt.Fprintf(w, "%s_bucket%s %d\n", h.name, withLe(k, fmt.Sprintf("%g", b)), hist.counts[i]); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "%s_bucket%s %d\n", h.name, withLe(k, "+Inf"), hist.counts[len(hist.counts)-1]); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s_sum%s %g\n%s_count%s %d\n", h.name, k, hist.sum, h.name, k, hist.total); err != nil {
			return err
		}
	}
	return nil
}

func labelString(names []string, values []string) string {
	if len(names) == 0 {
		return ""
	}
	pairs := make([]string, len(names))
	for i, name := range names {
		val := "unknown"
		if i < len(values) {
			val = values[i]
		}
		pairs[i] = name + `="` + escapeLabel(val) + `"`
	}
	return "{" + strings.Join(pairs, ",") + "}"
}

var labelEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

func escapeLabel(v string) string {
	return labelEscaper.Replace(v)
}

func withLe(labels string, le string) string {
	le = escapeLabel(le)
	if labels == "" || labels == "{}" {
		return `{le="` + le + `"}`
	}
	return strings.TrimSuffix(labels, "}") + `,le="` + le + `"}`
}

func isServerErrorStatus(status string) bool {
	status = strings.TrimSpace(status)
	return len(status) == 3 && status[0] == '5'
}
