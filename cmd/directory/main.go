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

	"github.com/dmitrymomot/oauthgate/migrations"
	"github.com/dmitrymomot/oauthgate/pkg/config"
	"github.com/dmitrymomot/oauthgate/pkg/directory/redisrpc"
	"github.com/dmitrymomot/oauthgate/pkg/environment"
	"github.com/dmitrymomot/oauthgate/pkg/httpserver"
	"github.com/dmitrymomot/oauthgate/pkg/logger"
	"github.com/dmitrymomot/oauthgate/pkg/pg"
	"github.com/dmitrymomot/oauthgate/pkg/redis"
	"github.com/dmitrymomot/oauthgate/pkg/telemetry"
	"github.com/dmitrymomot/oauthgate/svc/directory"
)

const serviceName = "oauthgate-directory"

type appConfig struct {
	Env       environment.Config
	Log       logger.Config
	Telemetry telemetry.Config
	Postgres  pg.Config
	Redis     redis.Config
	Directory redisrpc.Config

	// ProbeAddr serves /healthz and /readyz; empty disables it.
	ProbeAddr string `env:"DIRECTORY_PROBE_ADDR" envDefault:":8081"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("directory stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		return err
	}

	log := logger.New(
		logger.WithEnvironment(cfg.Env.Environment().String(), serviceName),
		logger.WithConfig(cfg.Log),
	)
	logger.SetAsDefault(log)

	shutdownTracing, err := telemetry.Setup(ctx, serviceName, cfg.Telemetry)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	pool, err := pg.Connect(ctx, cfg.Postgres)
	if err != nil {
		return err
	}
	defer pool.Close()

	if cfg.Postgres.AutoMigrate {
		if err := pg.Migrate(ctx, pool, migrations.FS, cfg.Postgres, log); err != nil {
			return err
		}
	}

	rdb, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer func() { _ = rdb.Close() }()

	svc := directory.NewService(directory.NewPostgresUserStore(pool), directory.WithLogger(log))
	server := redisrpc.NewServer(rdb, svc,
		append(cfg.Directory.ServerOptions(), redisrpc.WithServerLogger(log))...,
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return server.Serve(ctx) })

	if cfg.ProbeAddr != "" {
		probes := httpserver.New(httpserver.WithAddr(cfg.ProbeAddr), httpserver.WithLogger(log))
		mux := http.NewServeMux()
		mux.Handle("GET /healthz", httpserver.LivenessHandler())
		mux.Handle("GET /readyz", httpserver.ReadinessHandler(log,
			httpserver.Check{Name: "postgres", Fn: pg.Healthcheck(pool)},
			httpserver.Check{Name: "redis", Fn: redis.Healthcheck(rdb)},
		))
		g.Go(func() error { return probes.Run(ctx, mux) })
	}

	log.Info("directory serving", slog.String("queue", cfg.Directory.Queue))
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
