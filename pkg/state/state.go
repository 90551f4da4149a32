package state

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"
)

const (
	// DefaultTTL bounds how long a login attempt may take between redirect and callback.
	DefaultTTL = 10 * time.Minute

	// tokenBytes is the entropy of a state token: 256 bits.
	tokenBytes = 32
)

// Store keeps anti-forgery state tokens bound to a provider.
// A token validates at most one callback: Consume reads and deletes atomically,
// so concurrent consumers of the same token observe a single success.
type Store interface {
	// Generate creates a fresh token bound to provider and stores it with the configured TTL.
	Generate(ctx context.Context, provider string) (string, error)
	// Consume removes the token and returns the provider it was bound to.
	// ok is false when the token is unknown, already consumed or expired.
	Consume(ctx context.Context, state string) (provider string, ok bool, err error)
}

// Config holds state store settings loaded from the environment.
type Config struct {
	TTL time.Duration `env:"OAUTH_STATE_TTL" envDefault:"10m"`
}

type options struct {
	ttl       time.Duration
	keyPrefix string
	now       func() time.Time
}

// Option configures a Store implementation.
type Option func(*options)

// WithTTL sets how long generated tokens stay valid. Non-positive values are ignored.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl > 0 {
			o.ttl = ttl
		}
	}
}

// WithKeyPrefix sets the namespace used for keys in shared backends.
func WithKeyPrefix(prefix string) Option {
	return func(o *options) {
		o.keyPrefix = prefix
	}
}

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func newOptions(opts ...Option) options {
	o := options{
		ttl:       DefaultTTL,
		keyPrefix: "oauth_state:",
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func generateToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(ErrGenerateFailed, err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
