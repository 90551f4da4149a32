package directory

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/dmitrymomot/oauthgate/pkg/directory"
	"github.com/dmitrymomot/oauthgate/pkg/logger"
	"github.com/dmitrymomot/oauthgate/pkg/validator"
)

// MaxNameLength bounds stored display names.
const MaxNameLength = 255

// Service owns canonical user records and resolves emails to them.
type Service struct {
	store  UserStore
	logger *slog.Logger
	newID  func() string
}

var _ directory.Client = (*Service)(nil)

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithIDGenerator overrides external id generation (UUID v4 by default).
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// NewService creates a directory service over store.
func NewService(store UserStore, opts ...Option) *Service {
	s := &Service{
		store:  store,
		logger: logger.Discard(),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetOrCreateUser returns the user registered under email, creating one when
// absent. Emails are matched case-insensitively. Concurrent first logins for
// the same email resolve to the same user.
func (s *Service) GetOrCreateUser(ctx context.Context, email, name string) (*directory.User, error) {
	email = normalizeEmail(email)
	name = strings.TrimSpace(name)

	if err := validator.Apply(
		validator.ValidEmail("email", email),
		validator.MaxLen("name", name, MaxNameLength),
	); err != nil {
		return nil, errors.Join(directory.ErrInvalidRequest, err)
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, s.unavailable(ctx, "lookup user", err)
	}

	user, err = s.store.CreateUser(ctx, directory.User{
		ExternalID: s.newID(),
		Email:      email,
		Name:       name,
	})
	if errors.Is(err, ErrUserExists) {
		user, err = s.store.GetUserByEmail(ctx, email)
	}
	if err != nil {
		return nil, s.unavailable(ctx, "create user", err)
	}

	s.logger.InfoContext(ctx, "user created",
		logger.Component("directory"),
		logger.Subject(user.ExternalID),
	)
	return user, nil
}

func (s *Service) unavailable(ctx context.Context, msg string, err error) error {
	s.logger.ErrorContext(ctx, msg,
		logger.Component("directory"),
		logger.Error(err),
	)
	return errors.Join(directory.ErrUnavailable, err)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
