package oauth

import (
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/dmitrymomot/oauthgate/pkg/logger"
	"github.com/dmitrymomot/oauthgate/pkg/retry"
)

// Config holds provider credentials and the public base URL used to build redirect URIs.
type Config struct {
	ServerBaseURL string       `env:"SERVER_BASE_URL,required"`
	Google        GoogleConfig `envPrefix:"GOOGLE_OAUTH_"`
}

// GoogleConfig holds configuration for the Google provider.
type GoogleConfig struct {
	ClientID     string `env:"CLIENT_ID,required"`
	ClientSecret string `env:"CLIENT_SECRET,required"`
}

type options struct {
	httpClient  *http.Client
	endpoint    *oauth2.Endpoint
	userInfoURL string
	backoff     retry.Backoff
	attempts    int
	logger      *slog.Logger
}

// Option configures strategies built by NewRegistry or a provider constructor.
type Option func(*options)

// WithHTTPClient sets the client used for every provider call.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		if c != nil {
			o.httpClient = c
		}
	}
}

// WithEndpoint overrides the authorization and token endpoints.
func WithEndpoint(e oauth2.Endpoint) Option {
	return func(o *options) {
		o.endpoint = &e
	}
}

// WithUserInfoURL overrides the profile endpoint.
func WithUserInfoURL(u string) Option {
	return func(o *options) {
		if u != "" {
			o.userInfoURL = u
		}
	}
}

// WithBackoff sets the delay policy between user info attempts.
func WithBackoff(b retry.Backoff) Option {
	return func(o *options) {
		if b != nil {
			o.backoff = b
		}
	}
}

// WithMaxAttempts sets the total number of user info attempts.
func WithMaxAttempts(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.attempts = n
		}
	}
}

// WithLogger sets the logger used to report upstream failures.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func newOptions(opts ...Option) options {
	o := options{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		backoff:    retry.DefaultBackoff(),
		attempts:   retry.DefaultAttempts,
		logger:     logger.Discard(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
