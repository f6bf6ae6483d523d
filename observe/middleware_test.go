package observe

import (
	"bytes"
	"context"
	"errors"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func newTestMiddleware(t *testing.T, buf *bytes.Buffer) (*Middleware, *tracetest.SpanRecorder, *sdkmetric.ManualReader) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	metrics, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics() error = %v", err)
	}

	return NewMiddleware(NewTracer(tp.Tracer("test")), metrics, NewLoggerWithWriter("debug", buf)), recorder, reader
}

func TestMiddleware_Success(t *testing.T) {
	var buf bytes.Buffer
	mw, recorder, reader := newTestMiddleware(t, &buf)

	var sawSpan bool
	err := mw.Run(context.Background(), Operation{Component: "classifier", Name: "extract", Attempt: 1}, func(ctx context.Context) error {
		sawSpan = trace.SpanContextFromContext(ctx).IsValid()
		return nil
	})

	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !sawSpan {
		t.Error("wrapped function did not receive span context")
	}
	if got := len(recorder.Ended()); got != 1 {
		t.Errorf("spans = %d, want 1", got)
	}
	rm := collect(t, reader)
	if got := sumByAttr(t, rm, MetricClassifyAttempts, "result", "ok"); got != 1 {
		t.Errorf("ok attempts = %d, want 1", got)
	}

	entries := decodeLines(t, &buf)
	if len(entries) != 1 || entries[0]["msg"] != "operation completed" {
		t.Errorf("log entries = %v, want one completion entry", entries)
	}
	if entries[0]["trace_id"] == nil {
		t.Error("log entry missing trace_id")
	}
}

func TestMiddleware_ErrorPassthrough(t *testing.T) {
	var buf bytes.Buffer
	mw, _, reader := newTestMiddleware(t, &buf)

	want := errors.New("status 503")
	err := mw.Run(context.Background(), Operation{Name: "extract"}, func(context.Context) error {
		return want
	})

	if err != want {
		t.Errorf("Run() error = %v, want %v", err, want)
	}
	rm := collect(t, reader)
	if got := sumByAttr(t, rm, MetricClassifyAttempts, "result", "error"); got != 1 {
		t.Errorf("error attempts = %d, want 1", got)
	}
	entries := decodeLines(t, &buf)
	if len(entries) != 1 || entries[0]["level"] != "warn" || entries[0]["error"] != "status 503" {
		t.Errorf("log entries = %v, want one warn entry with error", entries)
	}
}

func TestNewMiddleware_NilComponents(t *testing.T) {
	mw := NewMiddleware(nil, nil, nil)
	if err := mw.Run(context.Background(), Operation{Name: "x"}, func(context.Context) error { return nil }); err != nil {
		t.Errorf("Run() error = %v", err)
	}
}
