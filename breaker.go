package changeling

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerConfig configures the circuit breaker around the completer.
type BreakerConfig struct {
	MaxFailures uint32        // Consecutive failures that trip the breaker
	OpenFor     time.Duration // How long the breaker stays open before a probe
}

// DefaultBreakerConfig returns sensible defaults for the circuit breaker.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxFailures: 5,
		OpenFor:     30 * time.Second,
	}
}

// BreakerCompleter wraps a Completer with a circuit breaker so a run stops
// hammering an unhealthy service instead of burning every pair's retry
// budget against it.
type BreakerCompleter struct {
	completer Completer
	breaker   *gobreaker.CircuitBreaker
}

// NewBreakerCompleter creates a new circuit-breaking completer.
func NewBreakerCompleter(completer Completer, cfg BreakerConfig) *BreakerCompleter {
	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = DefaultBreakerConfig().MaxFailures
	}
	openFor := cfg.OpenFor
	if openFor <= 0 {
		openFor = DefaultBreakerConfig().OpenFor
	}

	settings := gobreaker.Settings{
		Name:    "changeling-completer",
		Timeout: openFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
	}

	return &BreakerCompleter{
		completer: completer,
		breaker:   gobreaker.NewCircuitBreaker(settings),
	}
}

// Complete implements Completer through the circuit breaker.
func (c *BreakerCompleter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.completer.Complete(ctx, req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", &RemoteError{Message: "circuit breaker open", Cause: err}
		}
		return "", err
	}
	return out.(string), nil
}

// State returns the current breaker state.
func (c *BreakerCompleter) State() gobreaker.State {
	return c.breaker.State()
}
