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

	"golang.org/x/sync/errgroup"

	"github.com/EdinsonB/Portal-Certificacion-Comercios/internal/audit"
	"github.com/EdinsonB/Portal-Certificacion-Comercios/internal/client"
	clienthandler "github.com/EdinsonB/Portal-Certificacion-Comercios/internal/client/handler"
	clientservice "github.com/EdinsonB/Portal-Certificacion-Comercios/internal/client/service"
	"github.com/EdinsonB/Portal-Certificacion-Comercios/internal/export"
	exporthandler "github.com/EdinsonB/Portal-Certificacion-Comercios/internal/export/handler"
	"github.com/EdinsonB/Portal-Certificacion-Comercios/internal/platform/config"
	"github.com/EdinsonB/Portal-Certificacion-Comercios/internal/platform/httpserver"
	"github.com/EdinsonB/Portal-Certificacion-Comercios/internal/platform/logger"
	"github.com/EdinsonB/Portal-Certificacion-Comercios/internal/platform/metrics"
	"github.com/EdinsonB/Portal-Certificacion-Comercios/internal/platform/postgres"
	redisplatform "github.com/EdinsonB/Portal-Certificacion-Comercios/internal/platform/redis"
	"github.com/EdinsonB/Portal-Certificacion-Comercios/internal/progress"
	"github.com/EdinsonB/Portal-Certificacion-Comercios/internal/session"
	sessionhandler "github.com/EdinsonB/Portal-Certificacion-Comercios/internal/session/handler"
	httptransport "github.com/EdinsonB/Portal-Certificacion-Comercios/internal/transport/http"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error("portal terminated", "error", err.Error())
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	m := metrics.New()

	redisClient, err := redisplatform.New(cfg.RedisURL)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	db, err := postgres.Open(cfg.PostgresDSN)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := postgres.EnsureSchema(ctx, db)
		cancel()
		if err != nil {
			return err
		}
	}

	// Store selection mirrors config: Postgres wins over Redis, in-memory is
	// the local development fallback.
	var (
		clientStore   client.Store
		progressStore progress.Store
	)
	health := map[string]func() error{}
	switch {
	case db != nil:
		clientStore = client.NewPostgresStore(db)
		progressStore = progress.NewPostgresStore(db)
		health["postgres"] = func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return db.PingContext(ctx)
		}
		log.Info("using postgres stores")
	case redisClient != nil:
		clientStore = client.NewRedisStore(redisClient.Client)
		progressStore = progress.NewRedisStore(redisClient.Client)
		health["redis"] = func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return redisClient.Health(ctx)
		}
		log.Info("using redis stores")
	default:
		clientStore = client.NewInMemoryStore()
		progressStore = progress.NewInMemoryStore()
		log.Warn("no storage configured, using in-memory stores")
	}

	var sink audit.Sink
	if cfg.KafkaBrokers != "" {
		kafkaSink, err := audit.NewKafkaSink(cfg.KafkaBrokers, cfg.AuditTopic)
		if err != nil {
			return err
		}
		defer kafkaSink.Close()
		sink = kafkaSink
		log.Info("audit events go to kafka", "topic", cfg.AuditTopic)
	} else {
		sink = audit.NewInMemorySink()
	}
	worker, publisher := audit.NewWorker(sink, 256, log)

	clients := clientservice.New(clientStore, progressStore, log, m, publisher)
	sessions := session.NewManager(clientStore, progressStore, clients, cfg.DebounceWindow, log, m, publisher)
	clients.SetOnDelete(sessions.Discard)

	runner := export.NewRunner(log, m, publisher)

	router := httptransport.NewRouter(log, []httptransport.Registrar{
		clienthandler.New(clients, log),
		sessionhandler.New(sessions, log),
		exporthandler.New(sessions, runner, log),
	}, health)

	srv := httpserver.New(cfg.Addr, router)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("portal listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		if err := worker.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		runner.Wait()
		return nil
	})

	return g.Wait()
}
