package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Apurer/cat-haven/internal/domains/favorites/adapters/memory"
	"github.com/Apurer/cat-haven/internal/domains/favorites/domain"
	"github.com/Apurer/cat-haven/internal/domains/favorites/ports"
)

type failingStore struct{ err error }

func (f failingStore) List(context.Context, string) ([]domain.ItemID, error) { return nil, f.err }
func (f failingStore) Insert(context.Context, string, domain.ItemID) error  { return f.err }
func (f failingStore) Remove(context.Context, string, domain.ItemID) error  { return f.err }

func newTestInstruments() (*tracetest.SpanRecorder, *sdktrace.TracerProvider, *sdkmetric.ManualReader, *sdkmetric.MeterProvider) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	return recorder, tp, reader, mp
}

func counterTotal(t *testing.T, reader *sdkmetric.ManualReader, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	return total
}

func TestDurableStore_DelegatesAndRecords(t *testing.T) {
	recorder, tp, reader, mp := newTestInstruments()
	store := New(memory.NewDurableStore(), WithTracer(tp.Tracer("test")), WithMeter(mp.Meter("test")))
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, "u1", "a"))
	require.NoError(t, store.Insert(ctx, "u1", "b"))
	require.NoError(t, store.Remove(ctx, "u1", "a"))
	ids, err := store.List(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []domain.ItemID{"b"}, ids)

	spans := recorder.Ended()
	require.Len(t, spans, 4)
	assert.Equal(t, "DurableStore.Insert", spans[0].Name())
	assert.Equal(t, "DurableStore.List", spans[3].Name())
	assert.Equal(t, int64(4), counterTotal(t, reader, "favorites.remote.calls"))
	assert.Zero(t, counterTotal(t, reader, "favorites.remote.failures"))
}

func TestDurableStore_PropagatesFailures(t *testing.T) {
	recorder, tp, reader, mp := newTestInstruments()
	boom := errors.New("boom")
	store := New(failingStore{err: boom}, WithTracer(tp.Tracer("test")), WithMeter(mp.Meter("test")))

	_, err := store.List(context.Background(), "u1")
	require.ErrorIs(t, err, boom)
	require.ErrorIs(t, store.Insert(context.Background(), "u1", "a"), boom)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, int64(2), counterTotal(t, reader, "favorites.remote.failures"))
}

func TestDurableStore_NilInner(t *testing.T) {
	store := New(nil)
	_, err := store.List(context.Background(), "u1")
	require.ErrorIs(t, err, ports.ErrNotConfigured)
	require.ErrorIs(t, store.Remove(context.Background(), "u1", "a"), ports.ErrNotConfigured)
}
