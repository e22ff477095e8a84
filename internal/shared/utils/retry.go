package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// RetryConfig controls ConnectWithRetry.
type RetryConfig struct {
	MaxRetries     int           // attempts, at least 1
	RetryDelay     time.Duration // delay before the second attempt, doubled after each failure
	ConnectTimeout time.Duration // bound on a single attempt
}

// ConnectWithRetry calls connect until it succeeds or the attempts run out.
// Delays grow exponentially: RetryDelay * 2^(attempt-1).
func ConnectWithRetry(ctx context.Context, name string, cfg RetryConfig, connect func(ctx context.Context) error) error {
	attempts := cfg.MaxRetries
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		log.Debug().Str("component", name).Msgf("connection attempt %d/%d", attempt, attempts)

		attemptCtx := ctx
		cancel := func() {}
		if cfg.ConnectTimeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		}
		lastErr = connect(attemptCtx)
		cancel()

		if lastErr == nil {
			log.Info().Str("component", name).Int("attempt", attempt).Msg("connected")
			return nil
		}

		log.Warn().Err(lastErr).Str("component", name).Int("attempt", attempt).Msg("connection attempt failed")

		if attempt < attempts {
			delay := cfg.RetryDelay * time.Duration(1<<uint(attempt-1))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return fmt.Errorf("connection cancelled: %w", ctx.Err())
			}
		}
	}

	return fmt.Errorf("failed to connect after %d attempts: %w", attempts, lastErr)
}
