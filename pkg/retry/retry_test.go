package retry_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/oauthgate/pkg/retry"
)

var errTransient = errors.New("transient")

func TestExponentialBackoff(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		backoff  retry.ExponentialBackoff
		attempts []int
		want     []time.Duration
	}{
		{
			name:     "default policy",
			backoff:  retry.DefaultBackoff().(retry.ExponentialBackoff),
			attempts: []int{1, 2, 3, 4, 5},
			want: []time.Duration{
				300 * time.Millisecond,
				600 * time.Millisecond,
				1200 * time.Millisecond,
				2 * time.Second, // capped
				2 * time.Second,
			},
		},
		{
			name: "custom values with max cap",
			backoff: retry.ExponentialBackoff{
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
				Multiplier:      3,
			},
			attempts: []int{1, 2, 3, 4},
			want: []time.Duration{
				500 * time.Millisecond,
				1500 * time.Millisecond,
				4500 * time.Millisecond,
				5 * time.Second,
			},
		},
		{
			name:     "zero attempt returns zero",
			backoff:  retry.ExponentialBackoff{},
			attempts: []int{0, -1},
			want:     []time.Duration{0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, len(tt.attempts), len(tt.want), "test setup error")

			for i, attempt := range tt.attempts {
				assert.Equal(t, tt.want[i], tt.backoff.NextInterval(attempt), "attempt %d", attempt)
			}
		})
	}
}

func TestExponentialBackoffJitter(t *testing.T) {
	t.Parallel()

	b := retry.ExponentialBackoff{InitialInterval: time.Second, MaxInterval: time.Minute, JitterFactor: 0.5}
	for range 50 {
		got := b.NextInterval(1)
		assert.GreaterOrEqual(t, got, 500*time.Millisecond)
		assert.LessOrEqual(t, got, 1500*time.Millisecond)
	}
}

func TestDo(t *testing.T) {
	t.Parallel()

	noWait := retry.FixedBackoff{}

	t.Run("succeeds first time", func(t *testing.T) {
		t.Parallel()
		var calls atomic.Int32
		err := retry.Do(context.Background(), 5, noWait, func(context.Context, int) error {
			calls.Add(1)
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("succeeds after transient failures", func(t *testing.T) {
		t.Parallel()
		var calls atomic.Int32
		err := retry.Do(context.Background(), 5, noWait, func(_ context.Context, attempt int) error {
			calls.Add(1)
			if attempt < 3 {
				return errTransient
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("exhausts exactly the configured attempts", func(t *testing.T) {
		t.Parallel()
		var calls atomic.Int32
		err := retry.Do(context.Background(), 5, noWait, func(context.Context, int) error {
			calls.Add(1)
			return errTransient
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, retry.ErrAttemptsExhausted)
		assert.ErrorIs(t, err, errTransient)
		assert.Equal(t, int32(5), calls.Load())
	})

	t.Run("permanent error stops immediately", func(t *testing.T) {
		t.Parallel()
		var calls atomic.Int32
		err := retry.Do(context.Background(), 5, noWait, func(context.Context, int) error {
			calls.Add(1)
			return retry.Permanent(errTransient)
		})
		assert.ErrorIs(t, err, retry.ErrPermanentFailure)
		assert.ErrorIs(t, err, errTransient)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("context cancellation stops waiting", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		var calls atomic.Int32
		err := retry.Do(ctx, 5, retry.FixedBackoff{Interval: time.Hour}, func(context.Context, int) error {
			if calls.Add(1) == 1 {
				cancel()
			}
			return errTransient
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, int32(1), calls.Load())
	})
}

func TestIsRetryableStatus(t *testing.T) {
	t.Parallel()

	for code, want := range map[int]bool{
		400: false,
		401: false,
		403: false,
		404: false,
		408: true,
		425: true,
		429: true,
		500: true,
		502: true,
		503: true,
	} {
		assert.Equal(t, want, retry.IsRetryableStatus(code), "status %d", code)
	}
}

func TestPermanent(t *testing.T) {
	t.Parallel()

	assert.NoError(t, retry.Permanent(nil))
	assert.True(t, retry.IsPermanent(retry.Permanent(errTransient)))
	assert.False(t, retry.IsPermanent(errTransient))
	assert.ErrorIs(t, retry.Permanent(errTransient), errTransient)
}
