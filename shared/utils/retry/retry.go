package retry

import (
	"context"
	"errors"
	"log"
	"time"
)

// Defaults match the client-facing contract: three attempts with a one
// second initial delay that doubles between attempts.
const (
	DefaultMaxAttempts  = 3
	DefaultInitialDelay = 1 * time.Second
)

// permanentError wraps an error that must not be retried.
type permanentError struct {
	err error
}

func (p *permanentError) Error() string { return p.err.Error() }
func (p *permanentError) Unwrap() error { return p.err }

// Permanent marks err as non-retryable; Do returns it immediately.
// Authentication failures are the canonical case: retrying a rejected
// credential cannot succeed and inflates lockout counters.
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

// Config controls Do. Zero values fall back to the defaults above.
type Config struct {
	MaxAttempts  int
	InitialDelay time.Duration
	// OnRetry, when set, is called before each sleep with the attempt
	// number that just failed and the error it failed with.
	OnRetry func(attempt int, err error)
}

// Do runs fn up to MaxAttempts times with exponential backoff between
// attempts. It stops early on success, on a Permanent error, or when ctx
// is done; the last error is returned unwrapped.
func Do(ctx context.Context, cfg Config, fn func(ctx context.Context) error) error {
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	delay := cfg.InitialDelay
	if delay <= 0 {
		delay = DefaultInitialDelay
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}

		var p *permanentError
		if errors.As(err, &p) {
			return p.err
		}
		lastErr = err

		if attempt == maxAttempts {
			break
		}

		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, err)
		} else {
			log.Printf("⚠️ Attempt %d/%d failed, retrying in %s: %v", attempt, maxAttempts, delay, err)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}

	return lastErr
}
