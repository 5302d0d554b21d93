// Package observability provides production-grade observability features
// for datavet: structured logging, metrics, and distributed tracing.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
)

// EnrichLogger adds component context to a logger.
// Returns a new logger with module_name and class_name fields.
//
// Example:
//
//	enriched := EnrichLogger(logger, "datavet/results", "SQLiteResultStore")
//	enriched.Info("building component") // includes module_name, class_name
func EnrichLogger(logger *slog.Logger, moduleName, className string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("module_name", moduleName),
		slog.String("class_name", className),
	)
}

// LogMissingClassName logs the warning for instantiating a component
// whose config omits class_name, before the defaults fallback is
// consulted. instanceName is the config's "name" entry when present.
func LogMissingClassName(logger *slog.Logger, instanceName any) {
	if logger == nil {
		return
	}
	logger.Warn("instantiating component without an explicit class_name is risky; consider adding one",
		slog.Any("name", instanceName),
	)
}

// LogInstantiation logs a successful component construction.
func LogInstantiation(logger *slog.Logger, moduleName, className string, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("component instantiated",
		slog.String("module_name", moduleName),
		slog.String("class_name", className),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogStoreOperation logs a result-store operation.
func LogStoreOperation(logger *slog.Logger, backend, op string, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("store operation completed",
		slog.String("backend", backend),
		slog.String("operation", op),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogStoreError logs a result-store operation failure.
func LogStoreError(logger *slog.Logger, backend, op string, err error) {
	if logger == nil {
		return
	}
	logger.Error("store operation failed",
		slog.String("backend", backend),
		slog.String("operation", op),
		slog.String("error", err.Error()),
	)
}
