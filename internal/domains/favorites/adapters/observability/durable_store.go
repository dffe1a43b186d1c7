package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/cat-haven/internal/domains/favorites/domain"
	"github.com/Apurer/cat-haven/internal/domains/favorites/ports"
)

const tracerName = "github.com/Apurer/cat-haven/internal/domains/favorites/adapters/observability"

// DurableStore decorates a durable favorites store with tracing, logging, and metrics.
type DurableStore struct {
	inner   ports.DurableStore
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics storeMetrics
}

type Option func(*DurableStore)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *DurableStore) { s.logger = logger }
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(s *DurableStore) { s.tracer = tr }
}

// WithMeter injects the meter used to create the store instruments.
func WithMeter(m metric.Meter) Option {
	return func(s *DurableStore) { s.metrics = newStoreMetrics(m) }
}

// New wraps inner.
func New(inner ports.DurableStore, opts ...Option) *DurableStore {
	s := &DurableStore{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: newStoreMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

func (s *DurableStore) List(ctx context.Context, userID string) ([]domain.ItemID, error) {
	ctx, span := s.tracer.Start(ctx, "DurableStore.List", trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()
	if s.inner == nil {
		return nil, s.fail(ctx, span, "list", ports.ErrNotConfigured, slog.String("user.id", userID))
	}
	ids, err := s.inner.List(ctx, userID)
	if err != nil {
		return nil, s.fail(ctx, span, "list", err, slog.String("user.id", userID))
	}
	span.SetAttributes(attribute.Int("favorites.count", len(ids)))
	s.metrics.record(ctx, "list")
	return ids, nil
}

func (s *DurableStore) Insert(ctx context.Context, userID string, itemID domain.ItemID) error {
	ctx, span := s.tracer.Start(ctx, "DurableStore.Insert", trace.WithAttributes(
		attribute.String("user.id", userID),
		attribute.String("favorites.item_id", string(itemID)),
	))
	defer span.End()
	if s.inner == nil {
		return s.fail(ctx, span, "insert", ports.ErrNotConfigured, slog.String("user.id", userID))
	}
	if err := s.inner.Insert(ctx, userID, itemID); err != nil {
		return s.fail(ctx, span, "insert", err, slog.String("user.id", userID), slog.String("item.id", string(itemID)))
	}
	s.metrics.record(ctx, "insert")
	s.logger.LogAttrs(ctx, slog.LevelDebug, "favorite inserted", slog.String("user.id", userID), slog.String("item.id", string(itemID)))
	return nil
}

func (s *DurableStore) Remove(ctx context.Context, userID string, itemID domain.ItemID) error {
	ctx, span := s.tracer.Start(ctx, "DurableStore.Remove", trace.WithAttributes(
		attribute.String("user.id", userID),
		attribute.String("favorites.item_id", string(itemID)),
	))
	defer span.End()
	if s.inner == nil {
		return s.fail(ctx, span, "remove", ports.ErrNotConfigured, slog.String("user.id", userID))
	}
	if err := s.inner.Remove(ctx, userID, itemID); err != nil {
		return s.fail(ctx, span, "remove", err, slog.String("user.id", userID), slog.String("item.id", string(itemID)))
	}
	s.metrics.record(ctx, "remove")
	s.logger.LogAttrs(ctx, slog.LevelDebug, "favorite removed", slog.String("user.id", userID), slog.String("item.id", string(itemID)))
	return nil
}

func (s *DurableStore) fail(ctx context.Context, span trace.Span, op string, err error, attrs ...slog.Attr) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	s.metrics.recordFailure(ctx, op)
	attrs = append(attrs, slog.String("op", op), slog.String("error", err.Error()))
	s.logger.LogAttrs(ctx, slog.LevelWarn, "durable favorites store call failed", attrs...)
	return err
}

type storeMetrics struct {
	calls    metric.Int64Counter
	failures metric.Int64Counter
}

func newStoreMetrics(m metric.Meter) storeMetrics {
	if m == nil {
		return storeMetrics{}
	}
	calls, _ := m.Int64Counter("favorites.remote.calls", metric.WithDescription("Successful durable favorites store calls"))
	failures, _ := m.Int64Counter("favorites.remote.failures", metric.WithDescription("Failed durable favorites store calls"))
	return storeMetrics{calls: calls, failures: failures}
}

func (m storeMetrics) record(ctx context.Context, op string) {
	if m.calls != nil {
		m.calls.Add(ctx, 1, metric.WithAttributes(attribute.String("op", op)))
	}
}

func (m storeMetrics) recordFailure(ctx context.Context, op string) {
	if m.failures != nil {
		m.failures.Add(ctx, 1, metric.WithAttributes(attribute.String("op", op)))
	}
}

var _ ports.DurableStore = (*DurableStore)(nil)
