package thought

import (
	"context"
	"fmt"
	"time"
)

// RetryConfig controls how many times a request is attempted and how long
// to wait between attempts. The wait before retry i (0-based) is
// BaseDelay * 2^i.
type RetryConfig struct {
	Attempts  int
	BaseDelay time.Duration
}

// DefaultRetryConfig returns three attempts with a one second base delay,
// so a request that keeps failing waits 1s and then 2s.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		Attempts:  3,
		BaseDelay: time.Second,
	}
}

// sleepFunc waits for d or until ctx is done.
type sleepFunc func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// backoff returns the delay after the given failed attempt (0-based).
func (c RetryConfig) backoff(attempt int) time.Duration {
	return c.BaseDelay << attempt
}

// executeWithRetry calls fn until it succeeds or cfg.Attempts calls have
// failed. Every error is retried; there is no wait after the last attempt.
func executeWithRetry(ctx context.Context, cfg RetryConfig, sleep sleepFunc, fn func(attempt int) error) error {
	attempts := max(cfg.Attempts, 1)

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		err := fn(attempt)
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt == attempts-1 {
			break
		}
		if err := sleep(ctx, cfg.backoff(attempt)); err != nil {
			return fmt.Errorf("thought: retry wait cancelled: %w", err)
		}
	}
	return fmt.Errorf("%w after %d attempts: %w", ErrExhausted, attempts, lastErr)
}
