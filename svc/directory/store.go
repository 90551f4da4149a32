package directory

import (
	"context"
	"errors"

	"github.com/dmitrymomot/oauthgate/pkg/directory"
)

var (
	ErrUserNotFound = errors.New("directory: user not found")
	ErrUserExists   = errors.New("directory: user already exists")
	ErrStorage      = errors.New("directory: storage failure")
)

// UserStore persists canonical users. Emails are stored normalized and are
// unique, as are external ids.
type UserStore interface {
	// GetUserByEmail returns ErrUserNotFound when no user has email.
	GetUserByEmail(ctx context.Context, email string) (*directory.User, error)
	// CreateUser returns ErrUserExists when email or external id is taken.
	CreateUser(ctx context.Context, user directory.User) (*directory.User, error)
}
