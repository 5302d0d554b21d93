package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer is the datavet tracer instance.
// Uses the global OTel tracer provider.
var tracer = otel.Tracer("datavet")

// SpanManager handles trace span lifecycle.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartInstantiationSpan starts a span for a component construction.
	// Returns the context with span and the span itself.
	StartInstantiationSpan(ctx context.Context, moduleName, className string) (context.Context, trace.Span)

	// StartStoreSpan starts a span for a result-store operation.
	StartStoreSpan(ctx context.Context, backend, op string) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)

	// AddSpanEvent adds an event to the current span in context.
	AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue)
}

// otelSpanManager implements SpanManager using OpenTelemetry.
type otelSpanManager struct{}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// The span manager uses the global OTel tracer provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return &otelSpanManager{}
}

// StartInstantiationSpan starts a span for a component construction.
func (m *otelSpanManager) StartInstantiationSpan(ctx context.Context, moduleName, className string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "datavet.instantiate",
		trace.WithAttributes(
			attribute.String("module.name", moduleName),
			attribute.String("class.name", className),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartStoreSpan starts a span for a result-store operation.
func (m *otelSpanManager) StartStoreSpan(ctx context.Context, backend, op string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "datavet.store."+op,
		trace.WithAttributes(
			attribute.String("store.backend", backend),
			attribute.String("store.operation", op),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// AddSpanEvent adds an event to the current span.
func (m *otelSpanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}

// Convenience functions that operate on the global tracer.
// These are useful for simple cases where you don't need the interface.

// StartInstantiationSpan starts a span for a component construction.
// Uses the global OTel tracer.
func StartInstantiationSpan(ctx context.Context, moduleName, className string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "datavet.instantiate",
		trace.WithAttributes(
			attribute.String("module.name", moduleName),
			attribute.String("class.name", className),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartStoreSpan starts a span for a result-store operation.
// Uses the global OTel tracer.
func StartStoreSpan(ctx context.Context, backend, op string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "datavet.store."+op,
		trace.WithAttributes(
			attribute.String("store.backend", backend),
			attribute.String("store.operation", op),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// AddSpanEvent adds an event to the current span in context.
func AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
