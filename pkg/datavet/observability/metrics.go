package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records datavet metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordInstantiation records a component construction with its
	// duration and error status.
	RecordInstantiation(ctx context.Context, moduleName, className string, duration time.Duration, err error)

	// RecordStoreOperation records a result-store operation.
	RecordStoreOperation(ctx context.Context, backend, op string, duration time.Duration, err error)

	// RecordResultSize records the payload size of a saved result.
	RecordResultSize(ctx context.Context, suite string, sizeBytes int64)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	instantiations      metric.Int64Counter
	instantiationErrors metric.Int64Counter
	instantiationTime   metric.Float64Histogram
	storeOperations     metric.Int64Counter
	storeErrors         metric.Int64Counter
	storeLatency        metric.Float64Histogram
	resultSize          metric.Int64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("datavet")

	instantiations, err := meter.Int64Counter("datavet.component.instantiations",
		metric.WithDescription("Number of component instantiations"),
	)
	if err != nil {
		return nil, err
	}

	instantiationErrors, err := meter.Int64Counter("datavet.component.errors",
		metric.WithDescription("Number of failed component instantiations"),
	)
	if err != nil {
		return nil, err
	}

	instantiationTime, err := meter.Float64Histogram("datavet.component.latency_ms",
		metric.WithDescription("Component instantiation latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	storeOperations, err := meter.Int64Counter("datavet.store.operations",
		metric.WithDescription("Number of result store operations"),
	)
	if err != nil {
		return nil, err
	}

	storeErrors, err := meter.Int64Counter("datavet.store.errors",
		metric.WithDescription("Number of failed result store operations"),
	)
	if err != nil {
		return nil, err
	}

	storeLatency, err := meter.Float64Histogram("datavet.store.latency_ms",
		metric.WithDescription("Result store operation latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	resultSize, err := meter.Int64Histogram("datavet.result.size_bytes",
		metric.WithDescription("Saved result payload size in bytes"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		instantiations:      instantiations,
		instantiationErrors: instantiationErrors,
		instantiationTime:   instantiationTime,
		storeOperations:     storeOperations,
		storeErrors:         storeErrors,
		storeLatency:        storeLatency,
		resultSize:          resultSize,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordInstantiation records a component construction.
func (m *otelMetrics) RecordInstantiation(ctx context.Context, moduleName, className string, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("module_name", moduleName),
		attribute.String("class_name", className),
	}

	m.instantiations.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.instantiationTime.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))

	if err != nil {
		m.instantiationErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// RecordStoreOperation records a result-store operation.
func (m *otelMetrics) RecordStoreOperation(ctx context.Context, backend, op string, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("backend", backend),
		attribute.String("operation", op),
	}

	m.storeOperations.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.storeLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))

	if err != nil {
		m.storeErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// RecordResultSize records the payload size of a saved result.
func (m *otelMetrics) RecordResultSize(ctx context.Context, suite string, sizeBytes int64) {
	attrs := []attribute.KeyValue{
		attribute.String("suite", suite),
	}
	m.resultSize.Record(ctx, sizeBytes, metric.WithAttributes(attrs...))
}
