package redisrpc

import "errors"

var (
	ErrUnknownPattern = errors.New("redisrpc: unknown request pattern")
	ErrMalformed      = errors.New("redisrpc: malformed message")
	ErrRemote         = errors.New("redisrpc: remote error")
)
