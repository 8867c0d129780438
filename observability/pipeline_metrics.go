package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Pipeline metric names.
const (
	MetricLookupsIssued       = "search.lookups.issued"
	MetricLookupsDropped      = "search.lookups.dropped"
	MetricLookupsCancelled    = "search.lookups.cancelled"
	MetricLookupsRetried      = "search.lookups.retried"
	MetricLookupsSucceeded    = "search.lookups.succeeded"
	MetricLookupsFailed       = "search.lookups.failed"
	MetricQueriesDeduplicated = "search.queries.deduplicated"
	MetricLookupDuration      = "search.lookup.duration"
)

// PipelineMetrics holds the search pipeline's instruments. Every counter
// carries a "strategy" attribute.
type PipelineMetrics struct {
	issued       metric.Int64Counter
	dropped      metric.Int64Counter
	cancelled    metric.Int64Counter
	retried      metric.Int64Counter
	succeeded    metric.Int64Counter
	failed       metric.Int64Counter
	deduplicated metric.Int64Counter
	duration     metric.Float64Histogram
}

// NewPipelineMetrics creates the pipeline instruments on meter.
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	m := &PipelineMetrics{}
	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
	}{
		{&m.issued, MetricLookupsIssued, "Lookups started by the concurrency strategy"},
		{&m.dropped, MetricLookupsDropped, "Lookups refused by the concurrency strategy"},
		{&m.cancelled, MetricLookupsCancelled, "Lookups cancelled before settling"},
		{&m.retried, MetricLookupsRetried, "Lookup attempts scheduled after a failure"},
		{&m.succeeded, MetricLookupsSucceeded, "Lookups that settled with results"},
		{&m.failed, MetricLookupsFailed, "Lookups that exhausted their retries"},
		{&m.deduplicated, MetricQueriesDeduplicated, "Debounced queries equal to the last dispatched one"},
	}
	for _, c := range counters {
		counter, err := meter.Int64Counter(c.name, metric.WithDescription(c.desc))
		if err != nil {
			return nil, fmt.Errorf("creating %s counter: %w", c.name, err)
		}
		*c.dst = counter
	}

	duration, err := meter.Float64Histogram(MetricLookupDuration,
		metric.WithDescription("Time from lookup start to settlement, retries included"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricLookupDuration, err)
	}
	m.duration = duration
	return m, nil
}

func strategyAttr(strategy string) metric.MeasurementOption {
	return metric.WithAttributes(attribute.String("strategy", strategy))
}

// LookupIssued counts a started lookup.
func (m *PipelineMetrics) LookupIssued(ctx context.Context, strategy string) {
	m.issued.Add(ctx, 1, strategyAttr(strategy))
}

// LookupDropped counts a lookup the strategy refused to start.
func (m *PipelineMetrics) LookupDropped(ctx context.Context, strategy string) {
	m.dropped.Add(ctx, 1, strategyAttr(strategy))
}

// LookupCancelled counts a lookup cancelled before it settled.
func (m *PipelineMetrics) LookupCancelled(ctx context.Context, strategy string) {
	m.cancelled.Add(ctx, 1, strategyAttr(strategy))
}

// LookupRetried counts a retry scheduled after a failed attempt.
func (m *PipelineMetrics) LookupRetried(ctx context.Context, strategy string) {
	m.retried.Add(ctx, 1, strategyAttr(strategy))
}

// QueryDeduplicated counts a suppressed duplicate query.
func (m *PipelineMetrics) QueryDeduplicated(ctx context.Context, strategy string) {
	m.deduplicated.Add(ctx, 1, strategyAttr(strategy))
}

// LookupSettled records the outcome and duration of a settled lookup.
func (m *PipelineMetrics) LookupSettled(ctx context.Context, strategy string, ok bool, duration time.Duration) {
	if ok {
		m.succeeded.Add(ctx, 1, strategyAttr(strategy))
	} else {
		m.failed.Add(ctx, 1, strategyAttr(strategy))
	}
	status := "ok"
	if !ok {
		status = "error"
	}
	m.duration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("strategy", strategy),
		attribute.String("status", status),
	))
}
