package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aliskhannn/kalimat/internal/config"
	delivery "github.com/aliskhannn/kalimat/internal/delivery/http"
	"github.com/aliskhannn/kalimat/internal/domain/entities"
	"github.com/aliskhannn/kalimat/internal/infra/memory"
	"github.com/aliskhannn/kalimat/internal/infra/postgres"
	"github.com/aliskhannn/kalimat/internal/infra/postgres/repository"
	"github.com/aliskhannn/kalimat/internal/logger"
	"github.com/aliskhannn/kalimat/internal/realtime"
	"github.com/aliskhannn/kalimat/internal/service"
)

type store interface {
	service.ProgressRepository
	service.StreakRepository
}

type pgStore struct {
	*repository.ProgressRepository
	*repository.StreakRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = run(ctx, cfg, lg)
	stop()
	if err != nil {
		lg.Error("server stopped with error", zap.Error(err))
		_ = lg.Sync()
		os.Exit(1)
	}
	lg.Info("shutdown complete")
}

func run(ctx context.Context, cfg *config.Config, lg *zap.Logger) error {
	loc, err := entities.ParseTimezoneLocation(cfg.SRS.Timezone)
	if err != nil {
		return err
	}

	checks := make(map[string]delivery.Pinger)

	// Initialize storage.
	var st store
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		lg.Warn("using in-memory storage, progress is lost on restart")
		st = memory.NewStore()
	default:
		dsn, err := cfg.DB.DSN()
		if err != nil {
			return err
		}

		pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
			MaxConns:        int32(cfg.DB.MaxConnections),
			MaxConnLifetime: cfg.DB.MaxConnLifetime,
		})
		if err != nil {
			return err
		}
		defer pool.Close()

		if cfg.DB.Migrate {
			if err := postgres.NewTransactor(pool).Migrate(ctx); err != nil {
				return err
			}
		}

		checks["database"] = pool
		st = pgStore{
			ProgressRepository: repository.NewProgressRepository(pool),
			StreakRepository:   repository.NewStreakRepository(pool),
		}
	}

	// Initialize change feed. Without a broker events only reach streams
	// opened on this instance.
	hub := realtime.NewHub(lg)
	var (
		publisher service.EventPublisher = hub
		bus       realtime.Bus
	)
	if cfg.Redis.Addr != "" {
		rb, err := realtime.NewRedisBus(ctx, cfg.Redis.Addr, cfg.Redis.Channel, lg)
		if err != nil {
			return err
		}
		defer func() { _ = rb.Close() }()

		checks["redis"] = rb
		publisher = rb
		bus = rb
	}

	progressService := service.NewProgressService(st, st, publisher, lg,
		service.WithReviewBatchSize(cfg.SRS.ReviewBatchSize),
		service.WithLocation(loc),
	)

	router := delivery.NewRouter(
		delivery.NewProgressController(progressService, lg),
		delivery.NewEventsController(hub, lg),
		delivery.NewHealthController(checks),
		lg,
	)
	srv := &http.Server{Addr: cfg.HTTP.Addr, Handler: router}
	srv.RegisterOnShutdown(hub.Close)

	g, ctx := errgroup.WithContext(ctx)

	if bus != nil {
		if err := bus.Subscribe(ctx, hub.Dispatch); err != nil {
			return err
		}
	}

	g.Go(func() error {
		lg.Info("http server listening", zap.String("addr", cfg.HTTP.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		lg.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if cfg.Reminders.Enabled {
		digest := service.NewReviewDigestService(st, publisher, cfg.Reminders.Schedule, lg)
		g.Go(func() error { return digest.Start(ctx) })
	}

	return g.Wait()
}
