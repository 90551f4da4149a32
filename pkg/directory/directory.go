// Package directory declares the contract between the auth flow and the
// service that owns canonical user records.
//
// It has no dependencies so both sides can import it: the auth service as a
// consumer of Client, the directory service as its implementation. Transports
// live in sub-packages.
package directory

import (
	"context"
	"errors"
)

// User is the canonical user record.
type User struct {
	ExternalID string `json:"externalId"`
	Email      string `json:"email"`
	Name       string `json:"name"`
}

// Client resolves the canonical user for an email, creating one if absent.
type Client interface {
	GetOrCreateUser(ctx context.Context, email, name string) (*User, error)
}

// ClientFunc adapts a function to Client.
type ClientFunc func(ctx context.Context, email, name string) (*User, error)

// GetOrCreateUser calls f.
func (f ClientFunc) GetOrCreateUser(ctx context.Context, email, name string) (*User, error) {
	return f(ctx, email, name)
}

var (
	// ErrUnavailable means the directory could not answer in time.
	ErrUnavailable = errors.New("directory: unavailable")
	// ErrInvalidRequest means the directory rejected the input.
	ErrInvalidRequest = errors.New("directory: invalid request")
)
