package jwt

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// JWT header constants. The header is fixed: no other algorithm is accepted.
const (
	HeaderType      = "JWT"
	HeaderAlgorithm = "HS256"

	// MinSecretLength is the minimum signing secret size in bytes.
	MinSecretLength = 32

	// DefaultCookieName carries the session in browsers.
	DefaultCookieName = "auth_token"
)

// Header represents the JWT header.
type Header struct {
	Algorithm string `json:"alg"`
	Type      string `json:"typ"`
}

// Config holds session signing settings loaded from the environment.
type Config struct {
	Secret     string        `env:"SESSION_SECRET,required"`
	Lifetime   time.Duration `env:"SESSION_LIFETIME" envDefault:"1h"`
	ClockSkew  time.Duration `env:"SESSION_CLOCK_SKEW" envDefault:"60s"`
	CookieName string        `env:"AUTH_COOKIE_NAME" envDefault:"auth_token"`
}

// Issuer signs and verifies session credentials with HMAC-SHA256.
// It is stateless and safe for concurrent use.
type Issuer struct {
	secret   []byte
	lifetime time.Duration
	skew     time.Duration
	now      func() time.Time

	encodedHeader string
}

// Option configures an Issuer.
type Option func(*Issuer)

// WithLifetime sets how long a minted session stays valid.
func WithLifetime(d time.Duration) Option {
	return func(i *Issuer) {
		if d > 0 {
			i.lifetime = d
		}
	}
}

// WithClockSkew sets how far in the future iat may be before a token is rejected.
func WithClockSkew(d time.Duration) Option {
	return func(i *Issuer) {
		if d >= 0 {
			i.skew = d
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(i *Issuer) {
		if now != nil {
			i.now = now
		}
	}
}

// NewIssuer creates an issuer for secret.
func NewIssuer(secret []byte, opts ...Option) (*Issuer, error) {
	if len(secret) < MinSecretLength {
		return nil, ErrWeakSecret
	}

	headerJSON, err := json.Marshal(Header{Algorithm: HeaderAlgorithm, Type: HeaderType})
	if err != nil {
		return nil, fmt.Errorf("jwt: marshal header: %w", err)
	}

	i := &Issuer{
		secret:        append([]byte(nil), secret...),
		lifetime:      time.Hour,
		skew:          60 * time.Second,
		now:           time.Now,
		encodedHeader: base64URLEncode(headerJSON),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i, nil
}

// NewIssuerFromConfig creates an issuer from Config.
func NewIssuerFromConfig(cfg Config, opts ...Option) (*Issuer, error) {
	return NewIssuer([]byte(cfg.Secret), append([]Option{
		WithLifetime(cfg.Lifetime),
		WithClockSkew(cfg.ClockSkew),
	}, opts...)...)
}

// Lifetime returns the validity window of minted sessions.
func (i *Issuer) Lifetime() time.Duration {
	return i.lifetime
}

// Sign mints a session for subject, stamping iat and exp.
func (i *Issuer) Sign(subject, email string) (string, Claims, error) {
	now := i.now().Unix()
	claims := Claims{
		Subject:   subject,
		Email:     email,
		IssuedAt:  now,
		ExpiresAt: now + int64(i.lifetime/time.Second),
	}
	if claims.ExpiresAt <= claims.IssuedAt {
		claims.ExpiresAt = claims.IssuedAt + 1
	}

	payload, err := json.Marshal(claims)
	if err != nil {
		return "", Claims{}, fmt.Errorf("jwt: marshal claims: %w", err)
	}

	signingInput := i.encodedHeader + "." + base64URLEncode(payload)
	return signingInput + "." + i.sign(signingInput), claims, nil
}

// Verify checks, in order: shape, signature, header and payload schema,
// expiry and issue time. Every failure matches ErrInvalidToken and wraps the reason.
func (i *Issuer) Verify(token string) (Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return Claims{}, invalid(ErrMalformedToken)
	}

	expected := i.sign(parts[0] + "." + parts[1])
	if !hmac.Equal([]byte(parts[2]), []byte(expected)) {
		return Claims{}, invalid(ErrInvalidSignature)
	}

	headerJSON, err := base64URLDecode(parts[0])
	if err != nil {
		return Claims{}, invalid(errors.Join(ErrInvalidHeader, err))
	}
	var header Header
	if err := json.Unmarshal(headerJSON, &header); err != nil {
		return Claims{}, invalid(errors.Join(ErrInvalidHeader, err))
	}
	if header.Algorithm != HeaderAlgorithm || header.Type != HeaderType {
		return Claims{}, invalid(ErrInvalidHeader)
	}

	payload, err := base64URLDecode(parts[1])
	if err != nil {
		return Claims{}, invalid(errors.Join(ErrInvalidClaims, err))
	}
	claims, err := parseClaims(payload)
	if err != nil {
		return Claims{}, invalid(err)
	}

	now := i.now().Unix()
	if claims.ExpiresAt < now {
		return Claims{}, invalid(ErrTokenExpired)
	}
	if claims.IssuedAt > now+int64(i.skew/time.Second) {
		return Claims{}, invalid(ErrTokenFromFuture)
	}

	return claims, nil
}

func invalid(reason error) error {
	return fmt.Errorf("%w: %w", ErrInvalidToken, reason)
}

func (i *Issuer) sign(signingInput string) string {
	h := hmac.New(sha256.New, i.secret)
	h.Write([]byte(signingInput))
	return base64URLEncode(h.Sum(nil))
}

func base64URLEncode(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

// base64URLDecode is strict: non-canonical encodings are rejected.
func base64URLDecode(s string) ([]byte, error) {
	return base64.RawURLEncoding.Strict().DecodeString(s)
}
