package results

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/datavet/datavet/pkg/datavet/observability"
)

// InstrumentedStore decorates a Store with logging, metrics and tracing.
// Every operation is timed, recorded under the store's backend label,
// and wrapped in a span.
type InstrumentedStore struct {
	backend string
	store   Store
	logger  *slog.Logger
	metrics observability.MetricsRecorder
	spans   observability.SpanManager
}

// Compile-time interface check.
var _ Store = (*InstrumentedStore)(nil)

// Option configures an InstrumentedStore.
type Option func(*InstrumentedStore)

// WithLogger sets the logger for store operation logs.
// Passing nil disables logging.
// Default: slog.Default()
func WithLogger(logger *slog.Logger) Option {
	return func(s *InstrumentedStore) {
		s.logger = logger
	}
}

// WithMetrics sets the metrics recorder for store operation metrics.
// Default: no-op
func WithMetrics(metrics observability.MetricsRecorder) Option {
	return func(s *InstrumentedStore) {
		if metrics != nil {
			s.metrics = metrics
		}
	}
}

// WithSpanManager sets the span manager for store operation traces.
// Default: no-op
func WithSpanManager(spans observability.SpanManager) Option {
	return func(s *InstrumentedStore) {
		if spans != nil {
			s.spans = spans
		}
	}
}

// NewInstrumentedStore wraps a store with observability under a backend
// label such as "memory" or "sqlite".
//
// Example:
//
//	store := results.NewInstrumentedStore("sqlite", sqliteStore,
//	    results.WithLogger(logger),
//	    results.WithMetrics(observability.NewMetricsRecorder()),
//	)
func NewInstrumentedStore(backend string, store Store, opts ...Option) *InstrumentedStore {
	s := &InstrumentedStore{
		backend: backend,
		store:   store,
		logger:  slog.Default(),
		metrics: observability.NoopMetrics{},
		spans:   observability.NoopSpanManager{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Backend returns the backend label the store reports under.
func (s *InstrumentedStore) Backend() string {
	return s.backend
}

// Save implements Store.
func (s *InstrumentedStore) Save(ctx context.Context, result Result) (saved Result, err error) {
	ctx, span := s.spans.StartStoreSpan(ctx, s.backend, "save")
	defer func() {
		s.spans.EndSpanWithError(span, err)
	}()

	start := time.Now()
	saved, err = s.store.Save(ctx, result)
	duration := time.Since(start)

	s.metrics.RecordStoreOperation(ctx, s.backend, "save", duration, err)
	if err != nil {
		observability.LogStoreError(s.logger, s.backend, "save", err)
		return Result{}, err
	}

	if payload, merr := json.Marshal(saved.Payload); merr == nil {
		s.metrics.RecordResultSize(ctx, saved.Suite, int64(len(payload)))
	}
	observability.LogStoreOperation(s.logger, s.backend, "save", float64(duration.Milliseconds()))
	return saved, nil
}

// Get implements Store.
func (s *InstrumentedStore) Get(ctx context.Context, id string) (result Result, err error) {
	ctx, span := s.spans.StartStoreSpan(ctx, s.backend, "get")
	defer func() {
		s.spans.EndSpanWithError(span, err)
	}()

	start := time.Now()
	result, err = s.store.Get(ctx, id)
	duration := time.Since(start)

	s.metrics.RecordStoreOperation(ctx, s.backend, "get", duration, err)
	if err != nil {
		observability.LogStoreError(s.logger, s.backend, "get", err)
		return Result{}, err
	}

	observability.LogStoreOperation(s.logger, s.backend, "get", float64(duration.Milliseconds()))
	return result, nil
}

// List implements Store.
func (s *InstrumentedStore) List(ctx context.Context, suite string) (results []Result, err error) {
	ctx, span := s.spans.StartStoreSpan(ctx, s.backend, "list")
	defer func() {
		s.spans.EndSpanWithError(span, err)
	}()

	start := time.Now()
	results, err = s.store.List(ctx, suite)
	duration := time.Since(start)

	s.metrics.RecordStoreOperation(ctx, s.backend, "list", duration, err)
	if err != nil {
		observability.LogStoreError(s.logger, s.backend, "list", err)
		return nil, err
	}

	observability.LogStoreOperation(s.logger, s.backend, "list", float64(duration.Milliseconds()))
	return results, nil
}

// Delete implements Store.
func (s *InstrumentedStore) Delete(ctx context.Context, id string) (err error) {
	ctx, span := s.spans.StartStoreSpan(ctx, s.backend, "delete")
	defer func() {
		s.spans.EndSpanWithError(span, err)
	}()

	start := time.Now()
	err = s.store.Delete(ctx, id)
	duration := time.Since(start)

	s.metrics.RecordStoreOperation(ctx, s.backend, "delete", duration, err)
	if err != nil {
		observability.LogStoreError(s.logger, s.backend, "delete", err)
		return err
	}

	observability.LogStoreOperation(s.logger, s.backend, "delete", float64(duration.Milliseconds()))
	return nil
}

// Close implements Store.
func (s *InstrumentedStore) Close() error {
	return s.store.Close()
}
