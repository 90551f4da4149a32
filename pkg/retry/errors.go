package retry

import "errors"

var (
	ErrAttemptsExhausted = errors.New("retry: attempts exhausted")
	ErrPermanentFailure  = errors.New("retry: permanent failure")
)
