// Package retry provides the bounded exponential-backoff loop used by the
// source adapters and client initialization.
package retry

import (
	"context"
	"time"
)

// Config bounds one retry loop. Attempts counts retries after the first
// try, so Attempts=2 means up to three calls total.
type Config struct {
	Attempts  int
	BaseDelay time.Duration
	MaxDelay  time.Duration
}

var DefaultConfig = Config{
	Attempts:  2,
	BaseDelay: 100 * time.Millisecond,
	MaxDelay:  5 * time.Second,
}

// Do runs fn until it succeeds, the attempt budget is spent, or ctx is
// done. The delay before retry n is BaseDelay*2^(n-1), capped at MaxDelay.
func Do(ctx context.Context, cfg Config, fn func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt <= cfg.Attempts; attempt++ {
		if attempt > 0 {
			delay := cfg.BaseDelay * time.Duration(1<<(attempt-1))
			if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
				delay = cfg.MaxDelay
			}
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err := fn(ctx); err != nil {
			lastErr = err
			continue
		}
		return nil
	}

	return lastErr
}
