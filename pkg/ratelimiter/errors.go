package ratelimiter

import "errors"

var (
	// ErrInvalidConfig indicates that the bucket configuration is invalid.
	ErrInvalidConfig = errors.New("ratelimiter: invalid configuration")

	// ErrInvalidTokenCount indicates that the requested token count is invalid.
	ErrInvalidTokenCount = errors.New("ratelimiter: invalid token count")

	// ErrStoreUnavailable wraps backend failures.
	ErrStoreUnavailable = errors.New("ratelimiter: store unavailable")
)
