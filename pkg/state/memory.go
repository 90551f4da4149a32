package state

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	provider  string
	expiresAt time.Time
}

// MemoryStore is an in-process Store for tests and single-instance deployments.
type MemoryStore struct {
	entries sync.Map
	opts    options
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an in-memory state store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	return &MemoryStore{opts: newOptions(opts...)}
}

// Generate implements Store.
func (s *MemoryStore) Generate(ctx context.Context, provider string) (string, error) {
	if provider == "" {
		return "", ErrEmptyProvider
	}

	token, err := generateToken()
	if err != nil {
		return "", err
	}

	entry := memoryEntry{
		provider:  provider,
		expiresAt: s.opts.now().Add(s.opts.ttl),
	}
	if _, loaded := s.entries.LoadOrStore(token, entry); loaded {
		return "", ErrStoreFailed
	}

	return token, nil
}

// Consume implements Store.
func (s *MemoryStore) Consume(ctx context.Context, state string) (string, bool, error) {
	if state == "" {
		return "", false, nil
	}

	v, ok := s.entries.LoadAndDelete(state)
	if !ok {
		return "", false, nil
	}

	entry := v.(memoryEntry)
	if !s.opts.now().Before(entry.expiresAt) {
		return "", false, nil
	}

	return entry.provider, true, nil
}

// Len returns the number of tokens held, expired ones included.
func (s *MemoryStore) Len() int {
	n := 0
	s.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Sweep removes expired tokens.
func (s *MemoryStore) Sweep() {
	now := s.opts.now()
	s.entries.Range(func(key, v any) bool {
		if !now.Before(v.(memoryEntry).expiresAt) {
			s.entries.CompareAndDelete(key, v)
		}
		return true
	})
}

// Cleanup sweeps expired tokens every interval until ctx is done.
func (s *MemoryStore) Cleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}
