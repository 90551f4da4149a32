package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/dmitrymomot/oauthgate/pkg/logger"
	"github.com/dmitrymomot/oauthgate/pkg/retry"
)

const (
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

	// maxProfileBytes bounds how much of a profile response is read.
	maxProfileBytes = 1 << 20
)

type googleStrategy struct {
	conf        *oauth2.Config
	opts        options
	userInfoURL string
}

// NewGoogle creates the Google strategy. The redirect URI is derived from
// cfg.ServerBaseURL and must be registered in the Google console as is.
func NewGoogle(cfg Config, opts ...Option) (Strategy, error) {
	if cfg.Google.ClientID == "" || cfg.Google.ClientSecret == "" {
		return nil, errors.Join(ErrInvalidConfig, errors.New("google client id and secret are required"))
	}
	if cfg.ServerBaseURL == "" {
		return nil, errors.Join(ErrInvalidConfig, errors.New("server base url is required"))
	}

	o := newOptions(opts...)

	endpoint := google.Endpoint
	if o.endpoint != nil {
		endpoint = *o.endpoint
	}

	userInfoURL := googleUserInfoURL
	if o.userInfoURL != "" {
		userInfoURL = o.userInfoURL
	}

	return &googleStrategy{
		conf: &oauth2.Config{
			ClientID:     cfg.Google.ClientID,
			ClientSecret: cfg.Google.ClientSecret,
			RedirectURL:  strings.TrimRight(cfg.ServerBaseURL, "/") + "/auth/validate/" + ProviderGoogle.String(),
			Scopes:       []string{"email", "profile"},
			Endpoint:     endpoint,
		},
		opts:        o,
		userInfoURL: userInfoURL,
	}, nil
}

func (g *googleStrategy) Provider() Provider {
	return ProviderGoogle
}

// AuthorizationURL requests offline access and forces the consent screen,
// otherwise Google omits the refresh token for returning users.
func (g *googleStrategy) AuthorizationURL(state string) string {
	return g.conf.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

func (g *googleStrategy) ExchangeCode(ctx context.Context, code string) (*Token, error) {
	tok, err := g.conf.Exchange(g.clientContext(ctx), code)
	if err != nil {
		g.logUpstreamError(ctx, "token exchange failed", err)
		return nil, errors.Join(ErrExchangeFailed, err)
	}

	if tok.RefreshToken == "" {
		g.opts.logger.WarnContext(ctx, "token response has no refresh token",
			logger.Component("oauth"),
			logger.Provider(ProviderGoogle.String()),
		)
		return nil, ErrMissingRefreshToken
	}

	return tokenFromOAuth2(tok), nil
}

func (g *googleStrategy) UserInfo(ctx context.Context, accessToken string) (*UserInfo, error) {
	var profile googleProfile

	err := retry.Do(ctx, g.opts.attempts, g.opts.backoff, func(ctx context.Context, attempt int) error {
		p, err := g.fetchProfile(ctx, accessToken)
		if err != nil {
			g.opts.logger.WarnContext(ctx, "user info attempt failed",
				logger.Component("oauth"),
				logger.Provider(ProviderGoogle.String()),
				logger.Attempt(attempt),
				logger.Error(err),
			)
			return err
		}
		profile = *p
		return nil
	})
	if err != nil {
		return nil, errors.Join(ErrUserInfoFailed, err)
	}

	if profile.Email == "" {
		return nil, errors.Join(ErrUserInfoFailed, ErrNoEmail)
	}

	return &UserInfo{
		Subject:       profile.Sub,
		Email:         profile.Email,
		EmailVerified: profile.EmailVerified,
		Name:          profile.Name,
	}, nil
}

func (g *googleStrategy) RefreshToken(ctx context.Context, refreshToken string) (*Token, error) {
	src := g.conf.TokenSource(g.clientContext(ctx), &oauth2.Token{RefreshToken: refreshToken})

	tok, err := src.Token()
	if err != nil {
		g.logUpstreamError(ctx, "token refresh failed", err)
		return nil, errors.Join(ErrRefreshFailed, err)
	}

	return tokenFromOAuth2(tok), nil
}

func (g *googleStrategy) fetchProfile(ctx context.Context, accessToken string) (*googleProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userInfoURL, nil)
	if err != nil {
		return nil, retry.Permanent(err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := g.opts.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxProfileBytes))
		statusErr := fmt.Errorf("google userinfo returned status %d", resp.StatusCode)
		if !retry.IsRetryableStatus(resp.StatusCode) {
			return nil, retry.Permanent(statusErr)
		}
		return nil, statusErr
	}

	var p googleProfile
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxProfileBytes)).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode google userinfo: %w", err)
	}
	return &p, nil
}

// clientContext makes x/oauth2 use the configured HTTP client.
func (g *googleStrategy) clientContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, g.opts.httpClient)
}

func (g *googleStrategy) logUpstreamError(ctx context.Context, msg string, err error) {
	attrs := []any{
		logger.Component("oauth"),
		logger.Provider(ProviderGoogle.String()),
	}

	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		if re.Response != nil {
			attrs = append(attrs, logger.StatusCode(re.Response.StatusCode))
		}
		if re.ErrorCode != "" {
			attrs = append(attrs, "error_code", re.ErrorCode)
		}
	} else {
		attrs = append(attrs, logger.Error(err))
	}

	g.opts.logger.ErrorContext(ctx, msg, attrs...)
}

func tokenFromOAuth2(tok *oauth2.Token) *Token {
	t := &Token{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
	}
	if idToken, ok := tok.Extra("id_token").(string); ok {
		t.IDToken = idToken
	}
	if !tok.Expiry.IsZero() {
		t.ExpiresIn = int64(time.Until(tok.Expiry).Round(time.Second).Seconds())
	}
	return t
}

type googleProfile struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}

var _ Strategy = (*googleStrategy)(nil)
