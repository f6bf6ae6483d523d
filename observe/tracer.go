package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// Operation identifies an instrumented unit of work.
type Operation struct {
	Component string // e.g. "classifier" (optional)
	Name      string // e.g. "extract" (required)
	Attempt   int    // 1-indexed attempt number, 0 when not retried
}

// SpanName returns the span name for this operation.
// Format: incident.<component>.<name> or incident.<name>
func (o Operation) SpanName() string {
	if o.Component != "" {
		return "incident." + o.Component + "." + o.Name
	}
	return "incident." + o.Name
}

// Validate reports whether the operation can be instrumented.
func (o Operation) Validate() error {
	if o.Name == "" {
		return ErrMissingOperationName
	}
	return nil
}

func (o Operation) attributes() []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("operation.name", o.Name),
	}
	if o.Component != "" {
		attrs = append(attrs, attribute.String("operation.component", o.Component))
	}
	return attrs
}

func (o Operation) fields() []Field {
	fields := []Field{F("operation", o.Name)}
	if o.Component != "" {
		fields = append(fields, F("component", o.Component))
	}
	if o.Attempt > 0 {
		fields = append(fields, F("attempt", o.Attempt))
	}
	return fields
}

// Tracer wraps OpenTelemetry tracing with operation-scoped spans.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	StartSpan(ctx context.Context, op Operation) (context.Context, trace.Span)
	EndSpan(span trace.Span, err error)
}

type tracerImpl struct {
	tracer trace.Tracer
}

// NewTracer wraps an OpenTelemetry tracer.
func NewTracer(t trace.Tracer) Tracer {
	if t == nil {
		return newNoopTracer()
	}
	return &tracerImpl{tracer: t}
}

func (t *tracerImpl) StartSpan(ctx context.Context, op Operation) (context.Context, trace.Span) {
	attrs := append(op.attributes(), attribute.Bool("operation.error", false))
	if op.Attempt > 0 {
		attrs = append(attrs, attribute.Int("operation.attempt", op.Attempt))
	}
	return t.tracer.Start(ctx, op.SpanName(),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func (t *tracerImpl) EndSpan(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Bool("operation.error", true))
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

type noopTracer struct {
	noop trace.Tracer
}

func newNoopTracer() Tracer {
	return &noopTracer{noop: tracenoop.NewTracerProvider().Tracer("noop")}
}

func (t *noopTracer) StartSpan(ctx context.Context, op Operation) (context.Context, trace.Span) {
	return t.noop.Start(ctx, op.SpanName())
}

func (t *noopTracer) EndSpan(span trace.Span, _ error) {
	span.End()
}
