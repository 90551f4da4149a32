package directory

import (
	"context"
	"sync"

	"github.com/dmitrymomot/oauthgate/pkg/directory"
)

// MemoryUserStore keeps users in process memory.
type MemoryUserStore struct {
	mu      sync.RWMutex
	byEmail map[string]directory.User
	ids     map[string]struct{}
}

var _ UserStore = (*MemoryUserStore)(nil)

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		byEmail: make(map[string]directory.User),
		ids:     make(map[string]struct{}),
	}
}

func (s *MemoryUserStore) GetUserByEmail(_ context.Context, email string) (*directory.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byEmail[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

func (s *MemoryUserStore) CreateUser(_ context.Context, user directory.User) (*directory.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[user.Email]; ok {
		return nil, ErrUserExists
	}
	if _, ok := s.ids[user.ExternalID]; ok {
		return nil, ErrUserExists
	}
	s.byEmail[user.Email] = user
	s.ids[user.ExternalID] = struct{}{}
	return &user, nil
}

// Len returns the number of stored users.
func (s *MemoryUserStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byEmail)
}
