package component

import (
	"log/slog"

	"github.com/datavet/datavet/pkg/datavet/observability"
)

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger for the missing-class-name warning and
// instantiation debug logs. Passing nil disables logging.
// Default: slog.Default()
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// WithMetrics sets the metrics recorder for instantiation metrics.
// Default: no-op
//
// Example:
//
//	builder := component.NewBuilder(reg,
//	    component.WithMetrics(observability.NewMetricsRecorder()),
//	)
func WithMetrics(metrics observability.MetricsRecorder) Option {
	return func(b *Builder) {
		if metrics != nil {
			b.metrics = metrics
		}
	}
}

// WithSpanManager sets the span manager for instantiation traces.
// Default: no-op
func WithSpanManager(spans observability.SpanManager) Option {
	return func(b *Builder) {
		if spans != nil {
			b.spans = spans
		}
	}
}
