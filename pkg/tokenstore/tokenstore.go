package tokenstore

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// StoredToken is one encrypted provider refresh token. There is at most one
// per (OwnerExternalID, Provider) pair and Provider never changes after creation.
type StoredToken struct {
	ID              uuid.UUID
	OwnerExternalID string
	Provider        string
	EncryptedSecret string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Repository persists encrypted provider tokens.
//
// There is no upsert: UpdateToken only touches an existing row and never
// inserts, so choosing between create and update stays with the caller.
type Repository interface {
	// GetToken returns ErrTokenNotFound when the pair has no row.
	GetToken(ctx context.Context, owner, provider string) (*StoredToken, error)
	// CreateToken returns ErrTokenExists when the pair already has a row.
	CreateToken(ctx context.Context, owner, provider, encryptedSecret string) (*StoredToken, error)
	// UpdateToken replaces the secret of an existing row and returns
	// ErrTokenNotFound, creating nothing, when there is none.
	UpdateToken(ctx context.Context, provider, owner, encryptedSecret string) (*StoredToken, error)
}
