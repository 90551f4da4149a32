package retry

import (
	"math"
	"math/rand/v2"
	"time"
)

// Backoff defines the interface for calculating retry delays.
// Implementations should be safe for concurrent use.
type Backoff interface {
	// NextInterval returns the delay before the next attempt.
	// Attempt starts at 1 for the first retry.
	NextInterval(attempt int) time.Duration
}

// ExponentialBackoff grows the delay by Multiplier on every retry, capped at MaxInterval.
type ExponentialBackoff struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
	JitterFactor    float64
}

// NextInterval returns min(InitialInterval * Multiplier^(attempt-1) * (1 ± JitterFactor), MaxInterval).
func (e ExponentialBackoff) NextInterval(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}

	initial := e.InitialInterval
	if initial == 0 {
		initial = 300 * time.Millisecond
	}

	maxInterval := e.MaxInterval
	if maxInterval == 0 {
		maxInterval = 2 * time.Second
	}

	multiplier := e.Multiplier
	if multiplier == 0 {
		multiplier = 2
	}

	interval := float64(initial) * math.Pow(multiplier, float64(attempt-1))

	if e.JitterFactor > 0 {
		randomJitter := (rand.Float64()*2 - 1) * e.JitterFactor
		interval = interval * (1 + randomJitter)
	}

	if interval > float64(maxInterval) {
		interval = float64(maxInterval)
	}

	return time.Duration(interval)
}

// FixedBackoff waits the same interval between every attempt.
type FixedBackoff struct {
	Interval time.Duration
}

// NextInterval always returns the same interval regardless of attempt number.
func (f FixedBackoff) NextInterval(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	return f.Interval
}

// DefaultBackoff returns the policy used for flaky provider endpoints:
// 300ms, doubling, capped at 2s, no jitter.
func DefaultBackoff() Backoff {
	return ExponentialBackoff{
		InitialInterval: 300 * time.Millisecond,
		MaxInterval:     2 * time.Second,
		Multiplier:      2,
	}
}
