package jwt

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/dmitrymomot/oauthgate/pkg/logger"
)

// Extractor pulls a raw credential from a request.
type Extractor func(r *http.Request) (string, error)

// BearerExtractor reads "Authorization: Bearer <token>".
func BearerExtractor() Extractor {
	return func(r *http.Request) (string, error) {
		scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") {
			return "", ErrMissingToken
		}
		token = strings.TrimSpace(token)
		if token == "" {
			return "", ErrMissingToken
		}
		return token, nil
	}
}

// CookieExtractor reads the credential from the named cookie.
func CookieExtractor(name string) Extractor {
	return func(r *http.Request) (string, error) {
		c, err := r.Cookie(name)
		if err != nil || c.Value == "" {
			return "", ErrMissingToken
		}
		return c.Value, nil
	}
}

// CompositeExtractor returns the first credential any extractor finds.
func CompositeExtractor(extractors ...Extractor) Extractor {
	return func(r *http.Request) (string, error) {
		for _, ex := range extractors {
			if token, err := ex(r); err == nil {
				return token, nil
			}
		}
		return "", ErrMissingToken
	}
}

// GuardConfig configures Guard.
type GuardConfig struct {
	Issuer *Issuer
	// Extractor defaults to the auth cookie, then a bearer header.
	Extractor Extractor
	Logger    *slog.Logger
	// OnUnauthorized replaces the default 401 response.
	OnUnauthorized http.HandlerFunc
}

// Guard admits requests carrying a valid session and puts its claims in the
// request context. All rejections look the same to the client.
func Guard(cfg GuardConfig) func(next http.Handler) http.Handler {
	if cfg.Issuer == nil {
		panic("jwt: guard requires an issuer")
	}
	if cfg.Extractor == nil {
		cfg.Extractor = CompositeExtractor(CookieExtractor(DefaultCookieName), BearerExtractor())
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Discard()
	}
	if cfg.OnUnauthorized == nil {
		cfg.OnUnauthorized = unauthorized
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := cfg.Extractor(r)
			if err != nil {
				cfg.Logger.DebugContext(r.Context(), "session credential missing",
					logger.Component("guard"))
				cfg.OnUnauthorized(w, r)
				return
			}

			claims, err := cfg.Issuer.Verify(token)
			if err != nil {
				cfg.Logger.InfoContext(r.Context(), "session rejected",
					logger.Component("guard"),
					logger.Error(err))
				cfg.OnUnauthorized(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(SetClaims(r.Context(), claims)))
		})
	}
}

func unauthorized(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized"}` + "\n"))
}
