package config

import "errors"

var (
	// ErrParsingConfig wraps env parse failures, including missing required variables.
	ErrParsingConfig = errors.New("config: failed to parse environment")

	// ErrInvalidConfigType is returned when T is not a struct.
	ErrInvalidConfigType = errors.New("config: config type must be a struct")

	// ErrNilPointer is returned when Load receives a nil pointer.
	ErrNilPointer = errors.New("config: nil pointer")

	// ErrLoadingEnvFile is returned when an explicit .env file cannot be read.
	ErrLoadingEnvFile = errors.New("config: failed to load env file")
)
