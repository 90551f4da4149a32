package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/oauthgate/handler"
	"github.com/dmitrymomot/oauthgate/pkg/binder"
	"github.com/dmitrymomot/oauthgate/pkg/cookie"
	"github.com/dmitrymomot/oauthgate/pkg/jwt"
	"github.com/dmitrymomot/oauthgate/pkg/logger"
	"github.com/dmitrymomot/oauthgate/pkg/oauth"
	authsvc "github.com/dmitrymomot/oauthgate/svc/auth"
)

// Service is the login flow the routes drive.
type Service interface {
	Login(ctx context.Context, provider string) (string, error)
	Callback(ctx context.Context, provider, code, state string) (authsvc.Identity, error)
	RefreshAccessToken(ctx context.Context, provider, owner string) (*oauth.Token, error)
}

// Module serves the /auth routes.
type Module struct {
	auth       Service
	issuer     *jwt.Issuer
	cookies    *cookie.Manager
	cookieName string
	profileURL string
	logger     *slog.Logger
	throttle   func(http.Handler) http.Handler
	onError    handler.ErrorHandler[handler.Context]
}

// Option configures a Module.
type Option func(*Module)

// WithLogger sets the logger for request errors.
func WithLogger(l *slog.Logger) Option {
	return func(m *Module) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithCookieName overrides jwt.DefaultCookieName.
func WithCookieName(name string) Option {
	return func(m *Module) {
		if name != "" {
			m.cookieName = name
		}
	}
}

// WithThrottle wraps the login and callback routes, typically with a
// ratelimiter.Middleware.
func WithThrottle(mw func(http.Handler) http.Handler) Option {
	return func(m *Module) {
		m.throttle = mw
	}
}

// New builds the module. The profile URL is resolved once from cfg.
func New(cfg Config, auth Service, issuer *jwt.Issuer, cookies *cookie.Manager, opts ...Option) (*Module, error) {
	if auth == nil || issuer == nil || cookies == nil {
		return nil, errors.New("auth module: service, issuer and cookie manager are required")
	}

	base, err := url.Parse(cfg.ClientBaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, errors.New("auth module: CLIENT_BASE_URL must be an absolute URL")
	}
	path := cfg.ProfilePath
	if path == "" {
		path = "/user/profile"
	}

	m := &Module{
		auth:       auth,
		issuer:     issuer,
		cookies:    cookies,
		cookieName: jwt.DefaultCookieName,
		profileURL: base.JoinPath(path).String(),
		logger:     logger.Discard(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.onError = handler.NewErrorHandler(m.logger.With(logger.Component("auth_http")))
	return m, nil
}

// Router returns the routes, meant to be mounted at /auth.
func (m *Module) Router() chi.Router {
	r := chi.NewRouter()

	path := binder.Path(chi.URLParam)

	r.Group(func(r chi.Router) {
		if m.throttle != nil {
			r.Use(m.throttle)
		}
		r.Get("/login/{provider}", wrap[providerRequest](m, m.login, path))
		r.Get("/validate/{provider}", wrap[callbackRequest](m, m.validate, path, binder.Query()))
	})
	r.Post("/logout", wrap[noRequest](m, m.logout))

	r.Group(func(r chi.Router) {
		r.Use(jwt.Guard(jwt.GuardConfig{
			Issuer: m.issuer,
			Extractor: jwt.CompositeExtractor(
				jwt.CookieExtractor(m.cookieName),
				jwt.BearerExtractor(),
			),
			Logger:         m.logger,
			OnUnauthorized: m.unauthorized,
		}))
		r.Get("/session", wrap[noRequest](m, m.session))
		r.Post("/refresh/{provider}", wrap[providerRequest](m, m.refresh, path))
	})

	return r
}

func (m *Module) unauthorized(w http.ResponseWriter, r *http.Request) {
	_ = handler.JSONError(handler.ErrUnauthorized).Render(w, r)
}

func wrap[R any](m *Module, h handler.HandlerFunc[handler.Context, R], binders ...handler.Bind) http.HandlerFunc {
	return handler.Wrap(h,
		handler.WithBinders[handler.Context, R](binders...),
		handler.WithErrorHandler[handler.Context, R](m.onError),
	)
}
