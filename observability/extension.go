// Package observability provides a metrics plugin for carbon that records
// ledger event counts through a MetricFactory.
package observability

import (
	"context"
	"time"

	"github.com/xraph/carbon"
	"github.com/xraph/carbon/plugin"
	"github.com/xraph/carbon/record"
)

// Ensure MetricsExtension implements required interfaces.
var (
	_ plugin.Plugin             = (*MetricsExtension)(nil)
	_ plugin.OnInit             = (*MetricsExtension)(nil)
	_ plugin.OnEmissionRecorded = (*MetricsExtension)(nil)
	_ plugin.OnRecordRejected   = (*MetricsExtension)(nil)
	_ plugin.OnAggregated       = (*MetricsExtension)(nil)
)

// Counter interface for metric counters.
type Counter interface {
	Inc()
	Add(float64)
}

// Histogram interface for metric histograms.
type Histogram interface {
	Observe(float64)
}

// MetricFactory creates metrics.
type MetricFactory interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// MetricsExtension records ledger metrics. Register it as a plugin.
type MetricsExtension struct {
	// Write metrics
	RecordsAppended Counter
	AmountRecorded  Counter
	RecordAmount    Histogram

	// Rejections
	InvalidAmounts Counter
	StoreErrors    Counter

	// Read metrics
	Queries      Counter
	QueryLatency Histogram

	Starts Counter
}

// NewMetricsExtension creates a MetricsExtension with the provided factory.
func NewMetricsExtension(factory MetricFactory) *MetricsExtension {
	return &MetricsExtension{
		RecordsAppended: factory.Counter("carbon.records.appended"),
		AmountRecorded:  factory.Counter("carbon.amount.recorded_ppm"),
		RecordAmount:    factory.Histogram("carbon.record.amount_ppm"),

		InvalidAmounts: factory.Counter("carbon.records.invalid_amount"),
		StoreErrors:    factory.Counter("carbon.store.errors"),

		Queries:      factory.Counter("carbon.queries"),
		QueryLatency: factory.Histogram("carbon.query.latency_ms"),

		Starts: factory.Counter("carbon.starts"),
	}
}

// Name implements plugin.Plugin.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnInit implements plugin.OnInit.
func (m *MetricsExtension) OnInit(_ context.Context, _ any) error {
	m.Starts.Inc()
	return nil
}

// OnEmissionRecorded implements plugin.OnEmissionRecorded.
func (m *MetricsExtension) OnEmissionRecorded(_ context.Context, rec record.Record) error {
	m.RecordsAppended.Inc()
	m.AmountRecorded.Add(float64(rec.Amount))
	m.RecordAmount.Observe(float64(rec.Amount))
	return nil
}

// OnRecordRejected implements plugin.OnRecordRejected.
func (m *MetricsExtension) OnRecordRejected(_ context.Context, _, _ string, cause error) error {
	switch {
	case carbon.IsInvalidInput(cause):
		m.InvalidAmounts.Inc()
	case carbon.IsRetryable(cause):
		m.StoreErrors.Inc()
	}
	return nil
}

// OnAggregated implements plugin.OnAggregated.
func (m *MetricsExtension) OnAggregated(_ context.Context, _, _ string, _ int64, elapsed time.Duration) error {
	m.Queries.Inc()
	m.QueryLatency.Observe(float64(elapsed.Microseconds()) / 1000)
	return nil
}
