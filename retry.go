package changeling

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// RetryConfig holds configuration for retry behavior.
type RetryConfig struct {
	MaxAttempts int            // Total attempts for one action (first try included)
	BaseDelay   time.Duration  // Backoff base: delay before retry k is BaseDelay * 2^k
	MaxDelay    time.Duration  // Cap on a single backoff delay
	Logger      zerolog.Logger // Receives one line per retry
}

// DefaultRetryConfig returns sensible defaults for retry behavior.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    30 * time.Second,
		Logger:      zerolog.Nop(),
	}
}

// RetryFunc is a function that can be retried.
type RetryFunc[T any] func() (T, error)

// WithRetry executes a function with exponential backoff retry. Attempts are
// strictly sequential. Any failure is retried until the ceiling is reached;
// exhaustion yields a *RetryExhaustedError wrapping the last failure.
func WithRetry[T any](ctx context.Context, cfg RetryConfig, fn RetryFunc[T]) (T, error) {
	var lastErr error
	var zero T

	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		// Check context before each attempt
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		default:
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		// Don't sleep after the last attempt
		if attempt == attempts {
			break
		}

		delay := cfg.BaseDelay * time.Duration(1<<attempt)
		if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}

		cfg.Logger.Warn().
			Int("attempt", attempt).
			Dur("delay", delay).
			Err(err).
			Msg("call failed, backing off before retry")

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(delay):
		}
	}

	return zero, &RetryExhaustedError{Attempts: attempts, Cause: lastErr}
}

// RetryingCompleter wraps a Completer with retry logic.
type RetryingCompleter struct {
	completer Completer
	config    RetryConfig
}

// NewRetryingCompleter creates a new completer with retry logic.
func NewRetryingCompleter(completer Completer, cfg RetryConfig) *RetryingCompleter {
	return &RetryingCompleter{
		completer: completer,
		config:    cfg,
	}
}

// Complete implements Completer with retry logic.
func (c *RetryingCompleter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	return WithRetry(ctx, c.config, func() (string, error) {
		return c.completer.Complete(ctx, req)
	})
}
