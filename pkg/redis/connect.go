package redis

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/oauthgate/pkg/retry"
)

// Connect parses cfg.ConnectionURL and pings the server until it answers,
// making at most cfg.RetryAttempts attempts within cfg.ConnectTimeout.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	if cfg.ConnectionURL == "" {
		return nil, ErrEmptyConnectionURL
	}

	opts, err := redis.ParseURL(cfg.ConnectionURL)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseRedisConnString, err)
	}
	// Context deadlines bound socket reads, including blocking list pops.
	opts.ContextTimeoutEnabled = true

	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	client := redis.NewClient(opts)
	err = retry.Do(ctx, max(cfg.RetryAttempts, 1), retry.FixedBackoff{Interval: cfg.RetryInterval},
		func(ctx context.Context, _ int) error {
			return client.Ping(ctx).Err()
		})
	if err != nil {
		_ = client.Close()
		return nil, errors.Join(ErrRedisNotReady, err)
	}

	return client, nil
}
