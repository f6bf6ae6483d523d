package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// Metric names.
const (
	MetricRequests         = "incident.requests"
	MetricCacheHits        = "incident.cache.hits"
	MetricCacheMisses      = "incident.cache.misses"
	MetricClassifyAttempts = "incident.classify.attempts"
	MetricClassifyDuration = "incident.classify.duration_ms"
	MetricSubmitDuration   = "incident.submit.duration_ms"
)

// Metrics records per-attempt metrics for instrumented operations.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic.
type Metrics interface {
	RecordAttempt(ctx context.Context, op Operation, duration time.Duration, err error)
}

type metricsImpl struct {
	attempts     metric.Int64Counter
	durationHist metric.Float64Histogram
}

// NewMetrics creates attempt metrics on meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	attempts, err := meter.Int64Counter(
		MetricClassifyAttempts,
		metric.WithDescription("Calls made to the extraction service"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		MetricClassifyDuration,
		metric.WithDescription("Extraction call duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{attempts: attempts, durationHist: durationHist}, nil
}

func (m *metricsImpl) RecordAttempt(ctx context.Context, op Operation, duration time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	attrs := append(op.attributes(), attribute.String("result", result))
	opt := metric.WithAttributes(attrs...)

	m.attempts.Add(ctx, 1, opt)
	m.durationHist.Record(ctx, float64(duration.Milliseconds()), opt)
}

type noopMetrics struct{}

func (noopMetrics) RecordAttempt(context.Context, Operation, time.Duration, error) {}

// DispatchMetrics counts coordinator outcomes.
// The zero value is not usable; construct with NewDispatchMetrics.
type DispatchMetrics struct {
	requests metric.Int64Counter
	hits     metric.Int64Counter
	misses   metric.Int64Counter
	duration metric.Float64Histogram
}

// NewDispatchMetrics creates the dispatch instruments on meter.
// A nil meter yields no-op instruments.
func NewDispatchMetrics(meter metric.Meter) (*DispatchMetrics, error) {
	if meter == nil {
		meter = noop.NewMeterProvider().Meter("noop")
	}

	requests, err := meter.Int64Counter(
		MetricRequests,
		metric.WithDescription("Incident submissions by outcome"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}
	hits, err := meter.Int64Counter(
		MetricCacheHits,
		metric.WithDescription("Submissions answered from the incident cache"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}
	misses, err := meter.Int64Counter(
		MetricCacheMisses,
		metric.WithDescription("Submissions that required classification"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram(
		MetricSubmitDuration,
		metric.WithDescription("End-to-end submission latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &DispatchMetrics{
		requests: requests,
		hits:     hits,
		misses:   misses,
		duration: duration,
	}, nil
}

// RecordSubmit records one finished submission.
func (m *DispatchMetrics) RecordSubmit(ctx context.Context, outcome string, duration time.Duration) {
	opt := metric.WithAttributes(attribute.String("outcome", outcome))
	m.requests.Add(ctx, 1, opt)
	m.duration.Record(ctx, float64(duration.Milliseconds()), opt)
}

// CacheHit counts a cache hit.
func (m *DispatchMetrics) CacheHit(ctx context.Context) {
	m.hits.Add(ctx, 1)
}

// CacheMiss counts a cache miss.
func (m *DispatchMetrics) CacheMiss(ctx context.Context) {
	m.misses.Add(ctx, 1)
}
