package state

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps state tokens in Redis so any instance can serve the callback.
// Expiry is delegated to the key TTL and Consume relies on GETDEL.
type RedisStore struct {
	client redis.Cmdable
	opts   options
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a Redis backed state store.
func NewRedisStore(client redis.Cmdable, opts ...Option) *RedisStore {
	return &RedisStore{client: client, opts: newOptions(opts...)}
}

// Generate implements Store.
func (s *RedisStore) Generate(ctx context.Context, provider string) (string, error) {
	if provider == "" {
		return "", ErrEmptyProvider
	}

	token, err := generateToken()
	if err != nil {
		return "", err
	}

	stored, err := s.client.SetNX(ctx, s.opts.keyPrefix+token, provider, s.opts.ttl).Result()
	if err != nil {
		return "", errors.Join(ErrStoreFailed, err)
	}
	if !stored {
		return "", ErrStoreFailed
	}

	return token, nil
}

// Consume implements Store.
func (s *RedisStore) Consume(ctx context.Context, state string) (string, bool, error) {
	if state == "" {
		return "", false, nil
	}

	provider, err := s.client.GetDel(ctx, s.opts.keyPrefix+state).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Join(ErrConsumeFailed, err)
	}

	return provider, true, nil
}
