package rest

import (
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"github.com/aretw0/notehub/pkg/core"
)

// BreakerConfig controls the circuit breaker in front of the API.
// The breaker never retries; while open, calls fail fast with a network error.
type BreakerConfig struct {
	MaxFailures uint32        // consecutive failures before opening; 0 disables the breaker
	OpenTimeout time.Duration // how long to stay open before probing again
}

// DefaultBreakerConfig returns the breaker settings used by the CLI.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxFailures: 5,
		OpenTimeout: 30 * time.Second,
	}
}

func newBreaker(cfg BreakerConfig, logger *slog.Logger) *gobreaker.CircuitBreaker {
	settings := gobreaker.Settings{
		Name:        "notehub-api",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if cfg.MaxFailures == 0 {
				return false
			}
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
		// Only transport and server failures say anything about API health.
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			return !errors.Is(err, core.ErrNetwork) && !errors.Is(err, core.ErrServer)
		},
	}
	return gobreaker.NewCircuitBreaker(settings)
}
