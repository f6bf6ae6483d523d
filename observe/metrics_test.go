package observe

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	return rm
}

func sumByAttr(t *testing.T, rm metricdata.ResourceMetrics, name string, key attribute.Key, value string) int64 {
	t.Helper()
	m := findMetric(rm, name)
	if m == nil {
		t.Fatalf("metric %s not found", name)
	}
	sum, ok := m.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("%s data = %T, want Sum[int64]", name, m.Data)
	}
	var total int64
	for _, dp := range sum.DataPoints {
		if key == "" {
			total += dp.Value
			continue
		}
		if v, ok := dp.Attributes.Value(key); ok && v.AsString() == value {
			total += dp.Value
		}
	}
	return total
}

func TestMetrics_RecordAttempt(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	m, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics() error = %v", err)
	}

	op := Operation{Component: "classifier", Name: "extract"}
	m.RecordAttempt(context.Background(), op, 10*time.Millisecond, errors.New("429"))
	m.RecordAttempt(context.Background(), op, 10*time.Millisecond, errors.New("429"))
	m.RecordAttempt(context.Background(), op, 10*time.Millisecond, nil)

	rm := collect(t, reader)
	if got := sumByAttr(t, rm, MetricClassifyAttempts, "result", "error"); got != 2 {
		t.Errorf("error attempts = %d, want 2", got)
	}
	if got := sumByAttr(t, rm, MetricClassifyAttempts, "result", "ok"); got != 1 {
		t.Errorf("ok attempts = %d, want 1", got)
	}
	if findMetric(rm, MetricClassifyDuration) == nil {
		t.Errorf("%s not recorded", MetricClassifyDuration)
	}
}

func TestDispatchMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	dm, err := NewDispatchMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewDispatchMetrics() error = %v", err)
	}

	ctx := context.Background()
	dm.CacheMiss(ctx)
	dm.RecordSubmit(ctx, "miss_resolved", 5*time.Millisecond)
	dm.CacheHit(ctx)
	dm.RecordSubmit(ctx, "hit", time.Millisecond)
	dm.CacheHit(ctx)
	dm.RecordSubmit(ctx, "hit", time.Millisecond)

	rm := collect(t, reader)
	if got := sumByAttr(t, rm, MetricCacheHits, "", ""); got != 2 {
		t.Errorf("hits = %d, want 2", got)
	}
	if got := sumByAttr(t, rm, MetricCacheMisses, "", ""); got != 1 {
		t.Errorf("misses = %d, want 1", got)
	}
	if got := sumByAttr(t, rm, MetricRequests, "outcome", "hit"); got != 2 {
		t.Errorf("hit requests = %d, want 2", got)
	}
	if findMetric(rm, MetricSubmitDuration) == nil {
		t.Errorf("%s not recorded", MetricSubmitDuration)
	}
}

func TestDispatchMetrics_NilMeter(t *testing.T) {
	dm, err := NewDispatchMetrics(nil)
	if err != nil {
		t.Fatalf("NewDispatchMetrics(nil) error = %v", err)
	}
	dm.CacheHit(context.Background())
	dm.RecordSubmit(context.Background(), "hit", 0)
}
