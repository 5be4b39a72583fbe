// Package retry wraps a fallible operation with bounded exponential
// backoff: a doubling delay capped at a maximum, each wait interruptible by
// context cancellation. The policy is deliberately generic — it does not
// discriminate error kinds; callers decide which operations are worth
// wrapping.
package retry

import (
	"context"
	"log/slog"
	"time"

	"chunkvault/internal/logging"
)

// Config controls retry behavior. Zero values fall back to the defaults used
// throughout chunkvault: 3 retries, a 1 second initial delay, doubling up to
// 30 seconds.
type Config struct {
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Logger       *slog.Logger
}

// DefaultConfig returns chunkvault's standard retry policy.
func DefaultConfig() Config {
	return Config{
		MaxRetries:   3,
		InitialDelay: 1 * time.Second,
		MaxDelay:     30 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.InitialDelay <= 0 {
		c.InitialDelay = 1 * time.Second
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = 30 * time.Second
	}
	return c
}

// Do runs op up to cfg.MaxRetries times. On failure it waits
// InitialDelay doubled per attempt (capped at MaxDelay) before the next
// try, and returns the last error once every attempt has failed. A context
// cancellation aborts retrying immediately.
func Do(ctx context.Context, cfg Config, op func(ctx context.Context) error) error {
	cfg = cfg.withDefaults()
	logger := logging.Default(cfg.Logger)

	delay := cfg.InitialDelay
	var lastErr error
	for attempt := 1; attempt <= cfg.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
		if attempt == cfg.MaxRetries {
			break
		}
		delay = min(delay*2, cfg.MaxDelay)
		logger.Warn("operation failed, retrying", "attempt", attempt, "error", lastErr, "backoff", delay)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return lastErr
}
