package retry

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// DefaultAttempts is the total number of calls Do makes with the default policy.
const DefaultAttempts = 5

// Func is a single attempt. Attempt numbering starts at 1.
type Func func(ctx context.Context, attempt int) error

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying. Do returns it immediately.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err was marked with Permanent.
func IsPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}

// Do calls fn up to attempts times, sleeping b.NextInterval between calls.
// It stops early on success, on a Permanent error and on context cancellation.
// When every attempt fails the result matches ErrAttemptsExhausted and the last error.
func Do(ctx context.Context, attempts int, b Backoff, fn Func) error {
	if attempts <= 0 {
		attempts = 1
	}
	if b == nil {
		b = DefaultBackoff()
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			timer := time.NewTimer(b.NextInterval(attempt - 1))
			select {
			case <-ctx.Done():
				timer.Stop()
				return errors.Join(ctx.Err(), lastErr)
			case <-timer.C:
			}
		}

		err := fn(ctx, attempt)
		if err == nil {
			return nil
		}
		lastErr = err

		if IsPermanent(err) {
			return errors.Join(ErrPermanentFailure, err)
		}
	}

	return errors.Join(ErrAttemptsExhausted, lastErr)
}

// IsRetryableStatus reports whether an HTTP status is worth another attempt.
// Most 4xx codes won't change on retry; 408, 425 and 429 are timing or rate limiting.
func IsRetryableStatus(code int) bool {
	switch {
	case code >= 500:
		return true
	case code == http.StatusRequestTimeout, code == http.StatusTooEarly, code == http.StatusTooManyRequests:
		return true
	default:
		return false
	}
}
