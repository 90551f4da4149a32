package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/oauthgate/migrations"
	authmodule "github.com/dmitrymomot/oauthgate/modules/auth"
	"github.com/dmitrymomot/oauthgate/pkg/config"
	"github.com/dmitrymomot/oauthgate/pkg/cookie"
	"github.com/dmitrymomot/oauthgate/pkg/directory/redisrpc"
	"github.com/dmitrymomot/oauthgate/pkg/environment"
	"github.com/dmitrymomot/oauthgate/pkg/httpserver"
	"github.com/dmitrymomot/oauthgate/pkg/jwt"
	"github.com/dmitrymomot/oauthgate/pkg/logger"
	"github.com/dmitrymomot/oauthgate/pkg/oauth"
	"github.com/dmitrymomot/oauthgate/pkg/pg"
	"github.com/dmitrymomot/oauthgate/pkg/ratelimiter"
	"github.com/dmitrymomot/oauthgate/pkg/redis"
	"github.com/dmitrymomot/oauthgate/pkg/secrets"
	"github.com/dmitrymomot/oauthgate/pkg/state"
	"github.com/dmitrymomot/oauthgate/pkg/telemetry"
	"github.com/dmitrymomot/oauthgate/pkg/tokenstore"
	"github.com/dmitrymomot/oauthgate/svc/auth"
)

const serviceName = "oauthgate-auth"

type appConfig struct {
	Env       environment.Config
	Log       logger.Config
	HTTP      httpserver.Config
	Telemetry telemetry.Config
	Postgres  pg.Config
	Redis     redis.Config
	Directory redisrpc.Config
	OAuth     oauth.Config
	State     state.Config
	Session   jwt.Config
	Cookie    cookie.Config
	Client    authmodule.Config
	RateLimit ratelimiter.Config

	EncryptionKeys secrets.KeySet `env:"ENCRYPTION_KEYS,required"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("auth server stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		return err
	}
	env := cfg.Env.Environment()

	log := logger.New(
		logger.WithEnvironment(env.String(), serviceName),
		logger.WithConfig(cfg.Log),
		logger.WithContextExtractors(logger.StringExtractor("request_id", middleware.GetReqID)),
	)
	logger.SetAsDefault(log)

	shutdownTracing, err := telemetry.Setup(ctx, serviceName, cfg.Telemetry)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Warn("failed to flush traces", logger.Error(err))
		}
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

	keyring, err := secrets.NewKeyring(cfg.EncryptionKeys)
	if err != nil {
		return err
	}

	registry, err := oauth.NewRegistry(cfg.OAuth, oauth.WithLogger(log))
	if err != nil {
		return err
	}

	issuer, err := jwt.NewIssuerFromConfig(cfg.Session)
	if err != nil {
		return err
	}

	svc := auth.NewService(
		registry,
		state.NewRedisStore(rdb, state.WithTTL(cfg.State.TTL)),
		tokenstore.NewPostgresRepository(pool),
		keyring,
		redisrpc.NewClient(rdb, cfg.Directory.ClientOptions()...),
		auth.WithLogger(log),
		auth.WithDirectoryTimeout(cfg.Directory.Timeout),
	)

	cookies := cookie.NewFromConfig(cfg.Cookie, cookie.WithSecure(cfg.Cookie.Secure || env.IsProduction()))

	limiter, err := ratelimiter.NewBucket(ratelimiter.NewRedisStore(rdb), cfg.RateLimit)
	if err != nil {
		return err
	}
	proxies, err := ratelimiter.ParseTrustedProxies(cfg.RateLimit.TrustedProxies)
	if err != nil {
		return err
	}

	module, err := authmodule.New(cfg.Client, svc, issuer, cookies,
		authmodule.WithLogger(log),
		authmodule.WithCookieName(cfg.Session.CookieName),
		authmodule.WithThrottle(ratelimiter.Middleware(limiter,
			ratelimiter.Composite(ratelimiter.Prefix("auth"), ratelimiter.TrustedClientIP(proxies)),
			log,
		)),
	)
	if err != nil {
		return err
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recoverer)
	r.Get("/healthz", httpserver.LivenessHandler())
	r.Get("/readyz", httpserver.ReadinessHandler(log,
		httpserver.Check{Name: "postgres", Fn: pg.Healthcheck(pool)},
		httpserver.Check{Name: "redis", Fn: redis.Healthcheck(rdb)},
	))
	r.Mount("/auth", module.Router())

	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
	if err := srv.Run(ctx, r); err != nil {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}
