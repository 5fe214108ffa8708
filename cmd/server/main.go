package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"leasehold/internal/events"
	"leasehold/internal/gate"
	jwttoken "leasehold/internal/jwt_token"
	"leasehold/internal/platform/config"
	"leasehold/internal/platform/httpserver"
	"leasehold/internal/platform/logger"
	platformredis "leasehold/internal/platform/redis"
	"leasehold/internal/registrar/handler"
	"leasehold/internal/registrar/metrics"
	"leasehold/internal/registrar/service"
	"leasehold/internal/registrar/store"
	"leasehold/internal/registry"
	"leasehold/internal/token"
	"leasehold/internal/treasury"
)

// main wires dependencies and owns the process lifecycle. Business logic
// lives in internal packages.
func main() {
	log := logger.New()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	st, cleanup, err := newStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	var reg service.RegistryClient
	if cfg.RegistryURL != "" {
		reg = registry.NewHTTPClient(cfg.RegistryURL)
	} else {
		// Standalone mode: the registrar is its own naming authority.
		log.Warn("REGISTRY_URL not set, using in-process registry")
		reg = registry.NewInMemory()
	}

	publisher, worker, closePublisher := newEvents(ctx, cfg, log)
	defer closePublisher()

	svc := service.New(
		cfg.ParentNode,
		cfg.SelfIdentity,
		cfg.LeaseDuration,
		st,
		token.NewIssuer(),
		reg,
		gate.New(cfg.Admin),
		treasury.New(cfg.Fee),
		service.WithLogger(log),
		service.WithMetrics(metrics.New()),
		service.WithEvents(publisher),
	)

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, "leasehold")
	h := handler.New(svc, jwttoken.NewJWTServiceAdapter(jwtService), log)

	router := chi.NewRouter()
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Handle("/metrics", promhttp.Handler())
	h.Register(router)

	srv := httpserver.New(cfg.Addr, router)

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info("starting leasehold registrar", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if worker != nil {
		group.Go(func() error {
			if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return group.Wait()
}

// newStore picks the lease store backend: Postgres when DATABASE_URL is set,
// then Redis, then in-memory.
func newStore(ctx context.Context, cfg config.Server, log *slog.Logger) (store.Store, func(), error) {
	switch {
	case cfg.DatabaseURL != "":
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		pg := store.NewPostgres(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		log.Info("using postgres lease store")
		return pg, pool.Close, nil

	case cfg.RedisURL != "":
		client, err := platformredis.New(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		log.Info("using redis lease store")
		return store.NewRedis(client.Client), func() { _ = client.Close() }, nil

	default:
		log.Warn("no DATABASE_URL or REDIS_URL set, leases will not survive restarts")
		return store.NewInMemory(), func() {}, nil
	}
}

// newEvents picks the notification path: Kafka behind a buffered channel and
// worker when brokers are configured, otherwise an in-process sink.
func newEvents(ctx context.Context, cfg config.Server, log *slog.Logger) (events.Publisher, *events.Worker, func()) {
	if len(cfg.KafkaBrokers) == 0 {
		return events.NewMemory(), nil, func() {}
	}

	kafka, err := events.NewKafka(ctx, cfg.KafkaBrokers, cfg.KafkaTopic)
	if err != nil {
		log.Warn("kafka unavailable, falling back to in-process events", "error", err)
		return events.NewMemory(), nil, func() {}
	}

	channel := events.NewChannel(256, log)
	worker := events.NewWorker(kafka, channel.Inbox(), log)
	log.Info("publishing events to kafka", "topic", cfg.KafkaTopic)
	return channel, worker, kafka.Close
}
