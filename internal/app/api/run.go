package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	catsmemory "github.com/Apurer/cat-haven/internal/domains/cats/adapters/memory"
	catsobs "github.com/Apurer/cat-haven/internal/domains/cats/adapters/observability"
	catspostgres "github.com/Apurer/cat-haven/internal/domains/cats/adapters/persistence/postgres"
	catsapp "github.com/Apurer/cat-haven/internal/domains/cats/application"
	catsports "github.com/Apurer/cat-haven/internal/domains/cats/ports"
	favmemory "github.com/Apurer/cat-haven/internal/domains/favorites/adapters/memory"
	favobs "github.com/Apurer/cat-haven/internal/domains/favorites/adapters/observability"
	favpostgres "github.com/Apurer/cat-haven/internal/domains/favorites/adapters/persistence/postgres"
	favapp "github.com/Apurer/cat-haven/internal/domains/favorites/application"
	favports "github.com/Apurer/cat-haven/internal/domains/favorites/ports"
	platformobservability "github.com/Apurer/cat-haven/internal/platform/observability"
	platformpostgres "github.com/Apurer/cat-haven/internal/platform/postgres"
	apierrors "github.com/Apurer/cat-haven/internal/shared/errors"
)

const serviceName = "cat-haven-api"

// Run boots the HTTP API and blocks until ctx is cancelled or SIGINT/SIGTERM arrives.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	instruments, shutdownTelemetry, err := platformobservability.Init(ctx, platformobservability.Settings{
		ServiceName:  serviceName,
		Environment:  cfg.Environment,
		OTLPEndpoint: cfg.OTLPEndpoint,
		OTLPInsecure: cfg.OTLPInsecure,
		LogLevel:     cfg.SlogLevel(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, closeDB := platformpostgres.ConnectOptional(ctx, cfg.PostgresDSN, logger)
	defer closeDB()

	remote := favobs.New(
		buildDurableStore(db, logger),
		favobs.WithLogger(logger),
		favobs.WithTracer(instruments.Tracer("internal.favorites.durable")),
		favobs.WithMeter(instruments.Meter("internal.favorites.durable")),
	)
	catService := catsobs.New(
		catsapp.NewService(buildCatRepository(db, logger)),
		catsobs.WithLogger(logger),
		catsobs.WithTracer(instruments.Tracer("internal.cats.application")),
		catsobs.WithMeter(instruments.Meter("internal.cats.application")),
	)

	registry := NewDeviceRegistry(remote,
		WithLocalDir(cfg.LocalDir),
		WithRegistryLogger(logger),
		WithMaxDevices(cfg.MaxDevices),
		WithIdleTTL(cfg.DeviceIdleTTL),
		WithManagerOptions(favapp.WithTracer(instruments.Tracer("internal.favorites.application"))),
	)
	if cfg.LocalDir == "" {
		logger.Warn("FAVORITES_LOCAL_DIR not set, device favorites are kept in memory")
	}

	responder := apierrors.NewChainedResponder("", logger, errorMappers()...)
	router := NewRouter(RouterDeps{
		ServiceName: serviceName,
		Logger:      logger,
		Registry:    registry,
		Favorites:   NewFavoritesAPI(catService, responder),
		Cats:        NewCatsAPI(catService, responder),
		Responder:   responder,
	})

	return serve(ctx, cfg, logger, router, registry)
}

func serve(ctx context.Context, cfg Config, logger *slog.Logger, handler http.Handler, registry *DeviceRegistry) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("cat-haven API listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down cat-haven API")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		registry.Close()
		return err
	})
	if interval := cfg.SweepInterval(); interval > 0 {
		g.Go(func() error {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-ticker.C:
					if evicted := registry.Sweep(); evicted > 0 {
						logger.Info("evicted idle devices", slog.Int("devices", evicted))
					}
				}
			}
		})
	}
	return g.Wait()
}

func buildDurableStore(db *gorm.DB, logger *slog.Logger) favports.DurableStore {
	if db == nil {
		logger.Warn("durable favorites kept in memory; they are lost on restart")
		return favmemory.NewDurableStore()
	}
	logger.Info("durable favorites store configured with postgres")
	return favpostgres.NewDurableStore(db)
}

func buildCatRepository(db *gorm.DB, logger *slog.Logger) catsports.Repository {
	if db == nil {
		return catsmemory.NewRepository()
	}
	logger.Info("cat repository configured with postgres")
	return catspostgres.NewRepository(db)
}
