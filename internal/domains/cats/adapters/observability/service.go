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

	"github.com/Apurer/cat-haven/internal/domains/cats/domain"
	"github.com/Apurer/cat-haven/internal/domains/cats/ports"
)

const tracerName = "github.com/Apurer/cat-haven/internal/domains/cats/adapters/observability"

// Service decorates the catalog service with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) { s.tracer = tr }
}

// WithMeter injects the meter used to create service metrics instruments.
func WithMeter(m metric.Meter) Option {
	return func(s *Service) { s.metrics = newServiceMetrics(m) }
}

// New wires a decorator around the core service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: newServiceMetrics(nil),
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

func (s *Service) Register(ctx context.Context, input ports.RegisterCatInput) (*ports.StoredCat, error) {
	ctx, span := s.tracer.Start(ctx, "CatService.Register", trace.WithAttributes(attribute.String("cat.id", input.ID)))
	defer span.End()

	result, err := s.inner.Register(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to register cat", slog.String("cat.id", input.ID))
	}
	if result != nil && result.Cat != nil {
		span.SetAttributes(attribute.String("cat.id", result.Cat.ID))
		s.metrics.recordRegistered(ctx, result.Cat.Status)
		s.logger.LogAttrs(ctx, slog.LevelInfo, "cat registered",
			slog.String("cat.id", result.Cat.ID),
			slog.String("status", string(result.Cat.Status)),
		)
	}
	return result, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*ports.StoredCat, error) {
	ctx, span := s.tracer.Start(ctx, "CatService.GetByID", trace.WithAttributes(attribute.String("cat.id", id)))
	defer span.End()

	result, err := s.inner.GetByID(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to get cat", slog.String("cat.id", id))
	}
	return result, nil
}

func (s *Service) ListAdoptable(ctx context.Context) ([]*ports.StoredCat, error) {
	ctx, span := s.tracer.Start(ctx, "CatService.ListAdoptable")
	defer span.End()

	result, err := s.inner.ListAdoptable(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list adoptable cats")
	}
	span.SetAttributes(attribute.Int("cat.result.count", len(result)))
	return result, nil
}

// ResolveFavorites records how many favorite ids no longer point at a cat.
func (s *Service) ResolveFavorites(ctx context.Context, ids []string) ([]*ports.StoredCat, error) {
	ctx, span := s.tracer.Start(ctx, "CatService.ResolveFavorites", trace.WithAttributes(attribute.Int("favorites.count", len(ids))))
	defer span.End()

	result, err := s.inner.ResolveFavorites(ctx, ids)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to resolve favorite cats", slog.Int("favorites.count", len(ids)))
	}
	span.SetAttributes(attribute.Int("cat.result.count", len(result)))
	if dangling := uniqueCount(ids) - len(result); dangling > 0 {
		s.metrics.recordDangling(ctx, int64(dangling))
		s.logger.LogAttrs(ctx, slog.LevelDebug, "favorites reference missing cats", slog.Int("dangling", dangling))
	}
	return result, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "CatService.Delete", trace.WithAttributes(attribute.String("cat.id", id)))
	defer span.End()

	if err := s.inner.Delete(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete cat", slog.String("cat.id", id))
	}
	s.metrics.recordDeleted(ctx)
	s.logger.LogAttrs(ctx, slog.LevelInfo, "cat deleted", slog.String("cat.id", id))
	return nil
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	attrs = append(attrs, slog.String("error", err.Error()))
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	return err
}

func uniqueCount(ids []string) int {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	return len(seen)
}

type serviceMetrics struct {
	registered metric.Int64Counter
	deleted    metric.Int64Counter
	dangling   metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	registered, _ := m.Int64Counter("cats.service.registered", metric.WithDescription("Number of cats registered or updated"))
	deleted, _ := m.Int64Counter("cats.service.deleted", metric.WithDescription("Number of cats deleted"))
	dangling, _ := m.Int64Counter("cats.favorites.dangling", metric.WithDescription("Favorite ids that resolved to no cat"))
	return serviceMetrics{registered: registered, deleted: deleted, dangling: dangling}
}

func (m serviceMetrics) recordRegistered(ctx context.Context, status domain.Status) {
	addCounter(ctx, m.registered, 1, attribute.String("cat.status", string(status)))
}

func (m serviceMetrics) recordDeleted(ctx context.Context) {
	addCounter(ctx, m.deleted, 1)
}

func (m serviceMetrics) recordDangling(ctx context.Context, n int64) {
	addCounter(ctx, m.dangling, n)
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

var _ ports.Service = (*Service)(nil)
