package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func quietConfig(attempts int, delay time.Duration) Config {
	return Config{
		MaxAttempts:  attempts,
		InitialDelay: delay,
		OnRetry:      func(int, error) {},
	}
}

func TestDoSucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := Do(context.Background(), quietConfig(3, time.Millisecond), func(context.Context) error {
		calls++
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoRetriesUntilSuccess(t *testing.T) {
	calls := 0
	err := Do(context.Background(), quietConfig(3, time.Millisecond), func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoStopsAfterMaxAttempts(t *testing.T) {
	calls := 0
	boom := errors.New("boom")
	err := Do(context.Background(), quietConfig(3, time.Millisecond), func(context.Context) error {
		calls++
		return boom
	})
	assert.Equal(t, boom, err)
	assert.Equal(t, 3, calls)
}

func TestDoDoublesDelay(t *testing.T) {
	var delays []time.Duration
	last := time.Now()
	calls := 0
	cfg := Config{
		MaxAttempts:  3,
		InitialDelay: 20 * time.Millisecond,
		OnRetry: func(int, error) {
		},
	}
	err := Do(context.Background(), cfg, func(context.Context) error {
		now := time.Now()
		if calls > 0 {
			delays = append(delays, now.Sub(last))
		}
		last = now
		calls++
		return errors.New("transient")
	})
	assert.Error(t, err)
	assert.Len(t, delays, 2)
	// Second gap should be roughly double the first.
	assert.GreaterOrEqual(t, delays[0], 20*time.Millisecond)
	assert.GreaterOrEqual(t, delays[1], 40*time.Millisecond)
}

func TestDoPermanentErrorNotRetried(t *testing.T) {
	calls := 0
	unauthorized := errors.New("invalid credentials")
	err := Do(context.Background(), quietConfig(3, time.Millisecond), func(context.Context) error {
		calls++
		return Permanent(unauthorized)
	})
	assert.Equal(t, unauthorized, err)
	assert.Equal(t, 1, calls)
}

func TestDoContextCancelDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	cfg := Config{
		MaxAttempts:  3,
		InitialDelay: time.Hour,
		OnRetry: func(int, error) {
			cancel()
		},
	}
	err := Do(ctx, cfg, func(context.Context) error {
		calls++
		return errors.New("transient")
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestIsPermanent(t *testing.T) {
	assert.True(t, IsPermanent(Permanent(errors.New("x"))))
	assert.False(t, IsPermanent(errors.New("x")))
	assert.NoError(t, Permanent(nil))
}
