// Package prom implements observability.MetricFactory on top of the
// Prometheus client library.
package prom

import (
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/xraph/carbon/observability"
)

var _ observability.MetricFactory = (*Factory)(nil)

// Factory creates Prometheus collectors and registers them once.
// Asking twice for the same name returns the same collector.
type Factory struct {
	reg prometheus.Registerer

	mu         sync.Mutex
	counters   map[string]prometheus.Counter
	histograms map[string]prometheus.Histogram
}

// NewFactory returns a Factory registering into reg. A nil reg uses the
// default Prometheus registerer.
func NewFactory(reg prometheus.Registerer) *Factory {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return &Factory{
		reg:        reg,
		counters:   make(map[string]prometheus.Counter),
		histograms: make(map[string]prometheus.Histogram),
	}
}

// Counter implements observability.MetricFactory.
func (f *Factory) Counter(name string) observability.Counter {
	f.mu.Lock()
	defer f.mu.Unlock()

	if c, ok := f.counters[name]; ok {
		return c
	}
	c := prometheus.NewCounter(prometheus.CounterOpts{
		Name: metricName(name) + "_total",
		Help: "carbon " + name,
	})
	f.reg.MustRegister(c)
	f.counters[name] = c
	return c
}

// Histogram implements observability.MetricFactory.
func (f *Factory) Histogram(name string) observability.Histogram {
	f.mu.Lock()
	defer f.mu.Unlock()

	if h, ok := f.histograms[name]; ok {
		return h
	}
	h := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    metricName(name),
		Help:    "carbon " + name,
		Buckets: prometheus.ExponentialBuckets(0.01, 4, 12),
	})
	f.reg.MustRegister(h)
	f.histograms[name] = h
	return h
}

// metricName maps "carbon.query.latency_ms" to "carbon_query_latency_ms".
func metricName(name string) string {
	return strings.NewReplacer(".", "_", "-", "_").Replace(name)
}
