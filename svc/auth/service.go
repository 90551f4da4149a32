package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmitrymomot/oauthgate/pkg/directory"
	"github.com/dmitrymomot/oauthgate/pkg/logger"
	"github.com/dmitrymomot/oauthgate/pkg/oauth"
	"github.com/dmitrymomot/oauthgate/pkg/state"
	"github.com/dmitrymomot/oauthgate/pkg/tokenstore"
)

const tracerName = "oauthgate/svc/auth"

// Callback steps, used in logs and span names.
const (
	stepState     = "state"
	stepExchange  = "exchange"
	stepUserInfo  = "userinfo"
	stepDirectory = "directory"
	stepPersist   = "persist"
	stepRefresh   = "refresh"
)

// Strategies resolves a provider name to its strategy.
type Strategies interface {
	Strategy(name string) (oauth.Strategy, error)
}

// Cipher seals provider refresh tokens at rest.
type Cipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// Identity is the canonical user a successful login resolves to.
type Identity struct {
	Subject string
	Email   string
}

// Service runs the OAuth login flow: it mints state, completes callbacks and
// keeps one encrypted refresh token per user and provider.
type Service struct {
	strategies Strategies
	states     state.Store
	tokens     tokenstore.Repository
	cipher     Cipher
	directory  directory.Client

	logger           *slog.Logger
	tracer           trace.Tracer
	directoryTimeout time.Duration
}

// NewService wires the flow's collaborators.
func NewService(
	strategies Strategies,
	states state.Store,
	tokens tokenstore.Repository,
	cipher Cipher,
	dir directory.Client,
	opts ...Option,
) *Service {
	s := &Service{
		strategies:       strategies,
		states:           states,
		tokens:           tokens,
		cipher:           cipher,
		directory:        dir,
		logger:           logger.Discard(),
		tracer:           otel.Tracer(tracerName),
		directoryTimeout: DefaultDirectoryTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login starts a login with provider and returns the consent page URL.
func (s *Service) Login(ctx context.Context, provider string) (string, error) {
	ctx, span := s.tracer.Start(ctx, "auth.Login", trace.WithAttributes(attribute.String("oauth.provider", provider)))
	defer span.End()

	strategy, err := s.strategies.Strategy(provider)
	if err != nil {
		span.SetStatus(codes.Error, "invalid provider")
		return "", ErrInvalidProvider
	}

	st, err := s.states.Generate(ctx, strategy.Provider().String())
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to mint oauth state",
			logger.Component("auth"),
			logger.Provider(provider),
			logger.Error(err),
		)
		span.RecordError(err)
		span.SetStatus(codes.Error, "state")
		return "", fmt.Errorf("auth: mint state: %w", err)
	}

	return strategy.AuthorizationURL(st), nil
}

// Callback completes a login. Steps run in order and the first failure ends
// the flow, so no identity is returned unless every step succeeded. Work done
// by a completed step is not rolled back.
func (s *Service) Callback(ctx context.Context, provider, code, st string) (Identity, error) {
	ctx, span := s.tracer.Start(ctx, "auth.Callback", trace.WithAttributes(attribute.String("oauth.provider", provider)))
	defer span.End()

	strategy, err := s.strategies.Strategy(provider)
	if err != nil {
		span.SetStatus(codes.Error, "invalid provider")
		return Identity{}, ErrInvalidProvider
	}
	name := strategy.Provider().String()

	if err := s.step(ctx, name, stepState, func(ctx context.Context) error {
		return s.consumeState(ctx, name, st)
	}); err != nil {
		return Identity{}, ErrInvalidState
	}

	var token *oauth.Token
	if err := s.step(ctx, name, stepExchange, func(ctx context.Context) error {
		var err error
		token, err = strategy.ExchangeCode(ctx, code)
		return err
	}); err != nil {
		return Identity{}, ErrProviderExchangeFailed
	}

	var info *oauth.UserInfo
	if err := s.step(ctx, name, stepUserInfo, func(ctx context.Context) error {
		var err error
		info, err = strategy.UserInfo(ctx, token.AccessToken)
		return err
	}); err != nil {
		return Identity{}, ErrProviderUserInfoFailed
	}

	var user *directory.User
	if err := s.step(ctx, name, stepDirectory, func(ctx context.Context) error {
		var err error
		user, err = s.resolveUser(ctx, info)
		return err
	}); err != nil {
		return Identity{}, ErrDirectoryUnavailable
	}

	if err := s.step(ctx, name, stepPersist, func(ctx context.Context) error {
		return s.saveToken(ctx, user.ExternalID, name, token.RefreshToken)
	}); err != nil {
		return Identity{}, ErrTokenPersistenceFailed
	}

	email := user.Email
	if email == "" {
		email = info.Email
	}

	s.logger.InfoContext(ctx, "oauth login completed",
		logger.Component("auth"),
		logger.Provider(name),
		logger.Subject(user.ExternalID),
	)

	return Identity{Subject: user.ExternalID, Email: email}, nil
}

// RefreshAccessToken trades the stored refresh token of owner for a fresh
// access token. A rotated refresh token replaces the stored one.
func (s *Service) RefreshAccessToken(ctx context.Context, provider, owner string) (*oauth.Token, error) {
	ctx, span := s.tracer.Start(ctx, "auth.RefreshAccessToken", trace.WithAttributes(attribute.String("oauth.provider", provider)))
	defer span.End()

	strategy, err := s.strategies.Strategy(provider)
	if err != nil {
		span.SetStatus(codes.Error, "invalid provider")
		return nil, ErrInvalidProvider
	}
	name := strategy.Provider().String()

	stored, err := s.tokens.GetToken(ctx, owner, name)
	switch {
	case errors.Is(err, tokenstore.ErrTokenNotFound):
		return nil, ErrNoStoredToken
	case err != nil:
		s.fail(ctx, span, name, stepRefresh, err)
		return nil, ErrTokenPersistenceFailed
	}

	refreshToken, err := s.cipher.Decrypt(stored.EncryptedSecret)
	if err != nil {
		s.fail(ctx, span, name, stepRefresh, err)
		return nil, ErrTokenPersistenceFailed
	}

	var token *oauth.Token
	if err := s.step(ctx, name, stepRefresh, func(ctx context.Context) error {
		var err error
		token, err = strategy.RefreshToken(ctx, refreshToken)
		return err
	}); err != nil {
		return nil, ErrProviderRefreshFailed
	}

	if token.RefreshToken != "" && token.RefreshToken != refreshToken {
		enc, err := s.cipher.Encrypt(token.RefreshToken)
		if err == nil {
			_, err = s.tokens.UpdateToken(ctx, name, owner, enc)
		}
		if err != nil {
			s.fail(ctx, span, name, stepPersist, err)
			return nil, ErrTokenPersistenceFailed
		}
	}

	return token, nil
}

func (s *Service) consumeState(ctx context.Context, provider, st string) error {
	if st == "" {
		return errors.New("empty state")
	}
	stored, ok, err := s.states.Consume(ctx, st)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("state not found")
	}
	if stored != provider {
		return fmt.Errorf("state issued for %q", stored)
	}
	return nil
}

func (s *Service) resolveUser(ctx context.Context, info *oauth.UserInfo) (*directory.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.directoryTimeout)
	defer cancel()

	user, err := s.directory.GetOrCreateUser(ctx, info.Email, info.Name)
	if err != nil {
		return nil, err
	}
	if user == nil || user.ExternalID == "" {
		return nil, errors.Join(directory.ErrUnavailable, errors.New("empty user record"))
	}
	return user, nil
}

// saveToken keeps exactly one row per (owner, provider). A create that loses
// a race to a concurrent login falls back to a single update.
func (s *Service) saveToken(ctx context.Context, owner, provider, refreshToken string) error {
	enc, err := s.cipher.Encrypt(refreshToken)
	if err != nil {
		return err
	}

	_, err = s.tokens.GetToken(ctx, owner, provider)
	switch {
	case err == nil:
		_, err = s.tokens.UpdateToken(ctx, provider, owner, enc)
		return err
	case !errors.Is(err, tokenstore.ErrTokenNotFound):
		return err
	}

	_, err = s.tokens.CreateToken(ctx, owner, provider, enc)
	if errors.Is(err, tokenstore.ErrTokenExists) {
		_, err = s.tokens.UpdateToken(ctx, provider, owner, enc)
	}
	return err
}

// step runs fn in its own span and logs a failure with the step name.
func (s *Service) step(ctx context.Context, provider, name string, fn func(context.Context) error) error {
	ctx, span := s.tracer.Start(ctx, "auth."+name)
	defer span.End()

	err := fn(ctx)
	if err != nil {
		s.fail(ctx, span, provider, name, err)
	}
	return err
}

// fail records err. Provider errors are logged by kind only because their
// text may carry upstream response bodies.
func (s *Service) fail(ctx context.Context, span trace.Span, provider, step string, err error) {
	span.SetStatus(codes.Error, step+" failed")

	logged := err
	switch {
	case errors.Is(err, oauth.ErrExchangeFailed):
		logged = oauth.ErrExchangeFailed
	case errors.Is(err, oauth.ErrRefreshFailed):
		logged = oauth.ErrRefreshFailed
	}
	span.RecordError(logged)

	s.logger.WarnContext(ctx, "oauth step failed",
		logger.Component("auth"),
		logger.Provider(provider),
		logger.Step(step),
		logger.Error(logged),
	)
}
