package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// setupMetricsTest creates a test meter provider and returns a function to collect metrics.
func setupMetricsTest(t *testing.T) (*sdkmetric.ManualReader, func()) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	// Save the original provider
	originalProvider := otel.GetMeterProvider()

	// Set test provider
	otel.SetMeterProvider(provider)

	// Return cleanup function
	cleanup := func() {
		otel.SetMeterProvider(originalProvider)
		if err := provider.Shutdown(context.Background()); err != nil {
			t.Logf("Error shutting down meter provider: %v", err)
		}
	}

	return reader, cleanup
}

// collectMetrics collects all metrics from the reader.
func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) *metricdata.ResourceMetrics {
	var rm metricdata.ResourceMetrics
	err := reader.Collect(context.Background(), &rm)
	require.NoError(t, err)
	return &rm
}

// findMetric finds a metric by name in the collected data.
func findMetric(rm *metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func TestNewMetricsRecorder(t *testing.T) {
	_, cleanup := setupMetricsTest(t)
	defer cleanup()

	// NewMetricsRecorder uses the global provider
	recorder := NewMetricsRecorder()
	require.NotNil(t, recorder)

	// Should not be a noop (since we set up a real provider)
	_, isNoop := recorder.(NoopMetrics)
	assert.False(t, isNoop, "Expected real metrics recorder, got noop")
}

func TestRecordInstantiation(t *testing.T) {
	reader, cleanup := setupMetricsTest(t)
	defer cleanup()

	// Create a fresh metrics instance using the test provider
	m, err := newOtelMetrics()
	require.NoError(t, err)

	ctx := context.Background()

	t.Run("records instantiation count", func(t *testing.T) {
		m.RecordInstantiation(ctx, "datavet/results", "MemoryResultStore", 5*time.Millisecond, nil)

		rm := collectMetrics(t, reader)
		metric := findMetric(rm, "datavet.component.instantiations")
		require.NotNil(t, metric)

		sum, ok := metric.Data.(metricdata.Sum[int64])
		require.True(t, ok, "Expected Sum type")
		require.NotEmpty(t, sum.DataPoints)

		// Find the datapoint for our class
		found := false
		for _, dp := range sum.DataPoints {
			for _, attr := range dp.Attributes.ToSlice() {
				if attr.Key == "class_name" && attr.Value.AsString() == "MemoryResultStore" {
					found = true
					assert.GreaterOrEqual(t, dp.Value, int64(1))
				}
			}
		}
		assert.True(t, found, "Expected to find datapoint for class_name=MemoryResultStore")
	})

	t.Run("records latency", func(t *testing.T) {
		m.RecordInstantiation(ctx, "datavet/results", "SQLiteResultStore", 100*time.Millisecond, nil)

		rm := collectMetrics(t, reader)
		metric := findMetric(rm, "datavet.component.latency_ms")
		require.NotNil(t, metric)

		hist, ok := metric.Data.(metricdata.Histogram[float64])
		require.True(t, ok, "Expected Histogram type")
		require.NotEmpty(t, hist.DataPoints)
	})

	t.Run("records errors when present", func(t *testing.T) {
		testErr := errors.New("constructor failed")
		m.RecordInstantiation(ctx, "datavet/results", "BrokenStore", 10*time.Millisecond, testErr)

		rm := collectMetrics(t, reader)
		metric := findMetric(rm, "datavet.component.errors")
		require.NotNil(t, metric)

		sum, ok := metric.Data.(metricdata.Sum[int64])
		require.True(t, ok, "Expected Sum type")

		found := false
		for _, dp := range sum.DataPoints {
			for _, attr := range dp.Attributes.ToSlice() {
				if attr.Key == "class_name" && attr.Value.AsString() == "BrokenStore" {
					found = true
					assert.GreaterOrEqual(t, dp.Value, int64(1))
				}
			}
		}
		assert.True(t, found, "Expected to find error datapoint for class_name=BrokenStore")
	})

	t.Run("no error metric on success", func(t *testing.T) {
		m.RecordInstantiation(ctx, "datavet/results", "CleanStore", 5*time.Millisecond, nil)

		rm := collectMetrics(t, reader)
		metric := findMetric(rm, "datavet.component.errors")
		if metric == nil {
			return // no errors recorded at all is fine
		}

		sum, ok := metric.Data.(metricdata.Sum[int64])
		require.True(t, ok)

		for _, dp := range sum.DataPoints {
			for _, attr := range dp.Attributes.ToSlice() {
				if attr.Key == "class_name" {
					assert.NotEqual(t, "CleanStore", attr.Value.AsString())
				}
			}
		}
	})
}

func TestRecordStoreOperation(t *testing.T) {
	reader, cleanup := setupMetricsTest(t)
	defer cleanup()

	m, err := newOtelMetrics()
	require.NoError(t, err)

	ctx := context.Background()

	t.Run("records operation count with attributes", func(t *testing.T) {
		m.RecordStoreOperation(ctx, "sqlite", "save", 20*time.Millisecond, nil)

		rm := collectMetrics(t, reader)
		metric := findMetric(rm, "datavet.store.operations")
		require.NotNil(t, metric)

		sum, ok := metric.Data.(metricdata.Sum[int64])
		require.True(t, ok, "Expected Sum type")

		found := false
		for _, dp := range sum.DataPoints {
			hasBackend := false
			hasOp := false
			for _, attr := range dp.Attributes.ToSlice() {
				if attr.Key == "backend" && attr.Value.AsString() == "sqlite" {
					hasBackend = true
				}
				if attr.Key == "operation" && attr.Value.AsString() == "save" {
					hasOp = true
				}
			}
			if hasBackend && hasOp {
				found = true
				assert.GreaterOrEqual(t, dp.Value, int64(1))
			}
		}
		assert.True(t, found, "Expected datapoint with backend=sqlite operation=save")
	})

	t.Run("records latency", func(t *testing.T) {
		m.RecordStoreOperation(ctx, "memory", "list", 2*time.Millisecond, nil)

		rm := collectMetrics(t, reader)
		metric := findMetric(rm, "datavet.store.latency_ms")
		require.NotNil(t, metric)

		hist, ok := metric.Data.(metricdata.Histogram[float64])
		require.True(t, ok, "Expected Histogram type")
		require.NotEmpty(t, hist.DataPoints)
	})

	t.Run("records errors when present", func(t *testing.T) {
		testErr := errors.New("db locked")
		m.RecordStoreOperation(ctx, "sqlite", "delete", 3*time.Millisecond, testErr)

		rm := collectMetrics(t, reader)
		metric := findMetric(rm, "datavet.store.errors")
		require.NotNil(t, metric)

		sum, ok := metric.Data.(metricdata.Sum[int64])
		require.True(t, ok, "Expected Sum type")
		require.NotEmpty(t, sum.DataPoints)
	})
}

func TestRecordResultSize(t *testing.T) {
	reader, cleanup := setupMetricsTest(t)
	defer cleanup()

	m, err := newOtelMetrics()
	require.NoError(t, err)

	ctx := context.Background()

	m.RecordResultSize(ctx, "warehouse_checks", 2048)

	rm := collectMetrics(t, reader)
	metric := findMetric(rm, "datavet.result.size_bytes")
	require.NotNil(t, metric)

	hist, ok := metric.Data.(metricdata.Histogram[int64])
	require.True(t, ok, "Expected Histogram type")
	require.NotEmpty(t, hist.DataPoints)

	found := false
	for _, dp := range hist.DataPoints {
		for _, attr := range dp.Attributes.ToSlice() {
			if attr.Key == "suite" && attr.Value.AsString() == "warehouse_checks" {
				found = true
				assert.Equal(t, uint64(1), dp.Count)
				assert.Equal(t, int64(2048), dp.Sum)
			}
		}
	}
	assert.True(t, found, "Expected datapoint for suite=warehouse_checks")
}
