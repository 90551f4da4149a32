package tokenstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type tokenKey struct {
	owner    string
	provider string
}

// MemoryRepository keeps tokens in a map. Intended for tests and local runs.
type MemoryRepository struct {
	mu     sync.RWMutex
	tokens map[tokenKey]StoredToken
	now    func() time.Time
}

var _ Repository = (*MemoryRepository)(nil)

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		tokens: make(map[tokenKey]StoredToken),
		now:    time.Now,
	}
}

func (r *MemoryRepository) GetToken(_ context.Context, owner, provider string) (*StoredToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tokens[tokenKey{owner, provider}]
	if !ok {
		return nil, ErrTokenNotFound
	}
	return &t, nil
}

func (r *MemoryRepository) CreateToken(_ context.Context, owner, provider, encryptedSecret string) (*StoredToken, error) {
	if owner == "" || provider == "" || encryptedSecret == "" {
		return nil, ErrInvalidInput
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := tokenKey{owner, provider}
	if _, exists := r.tokens[key]; exists {
		return nil, ErrTokenExists
	}

	now := r.now().UTC()
	t := StoredToken{
		ID:              uuid.New(),
		OwnerExternalID: owner,
		Provider:        provider,
		EncryptedSecret: encryptedSecret,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	r.tokens[key] = t
	return &t, nil
}

func (r *MemoryRepository) UpdateToken(_ context.Context, provider, owner, encryptedSecret string) (*StoredToken, error) {
	if encryptedSecret == "" {
		return nil, ErrInvalidInput
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := tokenKey{owner, provider}
	t, ok := r.tokens[key]
	if !ok {
		return nil, ErrTokenNotFound
	}

	t.EncryptedSecret = encryptedSecret
	t.UpdatedAt = r.now().UTC()
	r.tokens[key] = t
	return &t, nil
}

// Len returns the number of stored rows.
func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tokens)
}
