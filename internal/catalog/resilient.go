package catalog

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/felixgeelhaar/fortify/circuitbreaker"
	"github.com/felixgeelhaar/fortify/retry"
)

// ResilientSource wraps a Source with retry and circuit breaking, so a flaky
// external catalog neither fails a whole import run on one blip nor gets
// hammered while it is down.
type ResilientSource struct {
	source         Source
	circuitBreaker circuitbreaker.CircuitBreaker[[]ExternalGame]
	retrier        retry.Retry[[]ExternalGame]
	logger         *slog.Logger
}

// NewResilientSource wraps source with resilience patterns.
func NewResilientSource(source Source, logger *slog.Logger) *ResilientSource {
	rs := &ResilientSource{
		source: source,
		logger: logger,
	}

	rs.circuitBreaker = circuitbreaker.New[[]ExternalGame](circuitbreaker.Config{
		MaxRequests: 2,
		Interval:    10 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(from, to circuitbreaker.State) {
			if rs.logger != nil {
				rs.logger.Warn("catalog circuit breaker state change",
					"from", from.String(),
					"to", to.String())
			}
		},
	})

	rs.retrier = retry.New[[]ExternalGame](retry.Config{
		MaxAttempts:   3,
		InitialDelay:  2 * time.Second,
		MaxDelay:      30 * time.Second,
		Multiplier:    2.0,
		BackoffPolicy: retry.BackoffExponential,
		Jitter:        true,
		IsRetryable:   isRetryableFetchError,
	})

	return rs
}

// Fetch retrieves the catalog through the circuit breaker and retrier.
func (s *ResilientSource) Fetch(ctx context.Context) ([]ExternalGame, error) {
	return s.circuitBreaker.Execute(ctx, func(ctx context.Context) ([]ExternalGame, error) {
		return s.retrier.Do(ctx, s.source.Fetch)
	})
}

// isRetryableFetchError treats transport failures and server-side HTTP
// statuses as transient.
func isRetryableFetchError(err error) bool {
	if err == nil {
		return false
	}

	msg := err.Error()
	for _, pattern := range []string{
		"status 429",
		"status 500",
		"status 502",
		"status 503",
		"status 504",
		"connection refused",
		"timeout",
	} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

// Ensure ResilientSource implements Source
var _ Source = (*ResilientSource)(nil)
