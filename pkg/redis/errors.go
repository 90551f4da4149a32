package redis

import "errors"

var (
	ErrFailedToParseRedisConnString = errors.New("redis: failed to parse connection string")
	ErrRedisNotReady                = errors.New("redis: server did not become ready")
	ErrEmptyConnectionURL           = errors.New("redis: empty connection URL, use REDIS_URL env var")
	ErrHealthcheckFailed            = errors.New("redis: healthcheck failed")
)
