package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	catmemory "github.com/Apurer/cat-haven/internal/domains/cats/adapters/memory"
	"github.com/Apurer/cat-haven/internal/domains/cats/application"
	"github.com/Apurer/cat-haven/internal/domains/cats/ports"
)

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

func TestService_RecordsSpansAndMetrics(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	svc := New(application.NewService(catmemory.NewRepository()),
		WithTracer(tp.Tracer("test")),
		WithMeter(mp.Meter("test")),
	)
	ctx := context.Background()

	_, err := svc.Register(ctx, ports.RegisterCatInput{ID: "a", Name: "Tom", PhotoURLs: []string{"p"}})
	require.NoError(t, err)
	resolved, err := svc.ResolveFavorites(ctx, []string{"a", "gone", "gone"})
	require.NoError(t, err)
	assert.Len(t, resolved, 1)
	_, err = svc.GetByID(ctx, "missing")
	require.ErrorIs(t, err, ports.ErrNotFound)

	spans := recorder.Ended()
	require.Len(t, spans, 3)
	assert.Equal(t, "CatService.Register", spans[0].Name())
	assert.Equal(t, codes.Error, spans[2].Status().Code)
	assert.Equal(t, int64(1), counterTotal(t, reader, "cats.service.registered"))
	assert.Equal(t, int64(1), counterTotal(t, reader, "cats.favorites.dangling"))
}
