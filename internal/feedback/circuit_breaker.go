package feedback

import (
	"fmt"

	"talentrank/internal/config"
	"talentrank/internal/errors"
	"talentrank/internal/types"

	"github.com/sony/gobreaker/v2"
)

// StoreCircuitBreaker wraps feedback store queries with circuit breaker
// protection. Only the read path goes through it; a write failure should be
// reported to the caller directly rather than tripping future lookups.
type StoreCircuitBreaker struct {
	cb *gobreaker.CircuitBreaker[[]types.FeedbackRecord]
}

// NewStoreCircuitBreaker creates a circuit breaker for store queries
func NewStoreCircuitBreaker(name string, cfg *config.CircuitBreakerConfig, logger *errors.Logger) *StoreCircuitBreaker {
	// If circuit breaker is disabled, return nil to indicate no circuit breaker
	if !cfg.Enabled {
		return nil
	}

	settings := gobreaker.Settings{
		Name:        fmt.Sprintf("FeedbackStore-%s", name),
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= cfg.MinRequests &&
				failureRatio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Info("Circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String(),
				"max_requests", cfg.MaxRequests,
				"failure_threshold", cfg.FailureThreshold)
		},
	}

	return &StoreCircuitBreaker{
		cb: gobreaker.NewCircuitBreaker[[]types.FeedbackRecord](settings),
	}
}

// Execute executes the provided query function with circuit breaker protection
func (cb *StoreCircuitBreaker) Execute(fn func() ([]types.FeedbackRecord, error)) ([]types.FeedbackRecord, error) {
	if cb == nil || cb.cb == nil {
		// If breaker is disabled/nil, just execute the function directly
		return fn()
	}
	return cb.cb.Execute(fn)
}

// GetStats returns circuit breaker statistics
func (cb *StoreCircuitBreaker) GetStats() map[string]any {
	if cb == nil || cb.cb == nil {
		return map[string]any{
			"enabled": false,
		}
	}

	return map[string]any{
		"name":    cb.cb.Name(),
		"state":   cb.cb.State().String(),
		"counts":  cb.cb.Counts(),
		"enabled": true,
	}
}

// IsHealthy returns true if the circuit breaker is in closed state
func (cb *StoreCircuitBreaker) IsHealthy() bool {
	if cb == nil || cb.cb == nil {
		return true // If no circuit breaker, consider it healthy
	}
	return cb.cb.State() == gobreaker.StateClosed
}
