// Package breaker puts outbound catalog calls behind a circuit breaker. A
// provider that keeps failing is skipped for a while instead of costing a
// full timeout on every lookup.
package breaker

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"shelf/internal/metrics"
)

const (
	// TripAfter is the number of consecutive failures that opens the circuit.
	TripAfter = 5
	// OpenFor is how long an open circuit rejects calls before letting a
	// single trial call through.
	OpenFor = 30 * time.Second
)

// Breaker guards calls returning T.
type Breaker[T any] struct {
	cb     *gobreaker.CircuitBreaker[T]
	name   string
	logger zerolog.Logger
}

// New builds a breaker for the named provider. Errors matching one of benign
// (typically the provider's not-found error) and context cancellation do not
// count as failures.
func New[T any](name string, logger zerolog.Logger, benign ...error) *Breaker[T] {
	b := &Breaker[T]{
		name:   name,
		logger: logger.With().Str("breaker", name).Logger(),
	}
	metrics.RecordBreakerState(name, float64(gobreaker.StateClosed))

	b.cb = gobreaker.NewCircuitBreaker[T](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     OpenFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= TripAfter
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			b.logger.Warn().Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
			metrics.RecordBreakerState(name, float64(to))
		},
		IsSuccessful: func(err error) bool {
			if err == nil || errors.Is(err, context.Canceled) {
				return true
			}
			for _, e := range benign {
				if errors.Is(err, e) {
					return true
				}
			}
			return false
		},
	})
	return b
}

// Execute runs fn unless the circuit is open. Rejected calls return
// gobreaker.ErrOpenState or gobreaker.ErrTooManyRequests without calling fn.
func (b *Breaker[T]) Execute(fn func() (T, error)) (T, error) {
	res, err := b.cb.Execute(fn)
	if Rejected(err) {
		metrics.BreakerRejected.WithLabelValues(b.name).Inc()
		b.logger.Debug().Err(err).Msg("call rejected by circuit breaker")
	}
	return res, err
}

// State reports the current breaker state.
func (b *Breaker[T]) State() gobreaker.State {
	return b.cb.State()
}

// Rejected reports whether err came from the breaker rather than the call.
func Rejected(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
