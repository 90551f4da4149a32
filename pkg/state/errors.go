package state

import "errors"

var (
	ErrGenerateFailed = errors.New("state: failed to generate state token")
	ErrStoreFailed    = errors.New("state: failed to store state token")
	ErrConsumeFailed  = errors.New("state: failed to consume state token")
	ErrEmptyProvider  = errors.New("state: provider is required")
)
