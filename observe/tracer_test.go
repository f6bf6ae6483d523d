package observe

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestOperation_SpanName(t *testing.T) {
	tests := []struct {
		op   Operation
		want string
	}{
		{Operation{Component: "classifier", Name: "extract"}, "incident.classifier.extract"},
		{Operation{Name: "submit"}, "incident.submit"},
	}
	for _, tt := range tests {
		if got := tt.op.SpanName(); got != tt.want {
			t.Errorf("SpanName() = %q, want %q", got, tt.want)
		}
	}
}

func TestOperation_Validate(t *testing.T) {
	if err := (Operation{}).Validate(); !errors.Is(err, ErrMissingOperationName) {
		t.Errorf("Validate() error = %v, want ErrMissingOperationName", err)
	}
	if err := (Operation{Name: "x"}).Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestTracer_SpanLifecycle(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := NewTracer(tp.Tracer("test"))

	_, span := tracer.StartSpan(context.Background(), Operation{Component: "classifier", Name: "extract", Attempt: 2})
	tracer.EndSpan(span, errors.New("status 429"))

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("spans = %d, want 1", len(spans))
	}
	if spans[0].Status().Code != codes.Error {
		t.Errorf("status = %v, want Error", spans[0].Status().Code)
	}

	var attempt int64
	var failed bool
	for _, attr := range spans[0].Attributes() {
		switch attr.Key {
		case "operation.attempt":
			attempt = attr.Value.AsInt64()
		case "operation.error":
			failed = attr.Value.AsBool()
		}
	}
	if attempt != 2 {
		t.Errorf("operation.attempt = %d, want 2", attempt)
	}
	if !failed {
		t.Error("operation.error = false, want true")
	}
}

func TestNewTracer_Nil(t *testing.T) {
	tracer := NewTracer(nil)
	_, span := tracer.StartSpan(context.Background(), Operation{Name: "noop"})
	tracer.EndSpan(span, nil)
}
