// Package circuitbreaker wraps github.com/sony/gobreaker for calls to summarization backends.
package circuitbreaker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// Config holds the configuration for a circuit breaker.
type Config struct {
	// Name identifies the breaker in logs.
	Name string

	// MaxRequests allowed through while half-open.
	MaxRequests uint32

	// Interval after which closed-state counts are cleared.
	Interval time.Duration

	// Timeout spent open before probing again.
	Timeout time.Duration

	// FailureThreshold is the failure ratio (0.0-1.0) that trips the breaker.
	FailureThreshold float64

	// MinRequests before the failure ratio is considered.
	MinRequests uint32

	// Logger receives state transitions. Defaults to slog.Default().
	Logger *slog.Logger
}

// SummarizerConfig returns the configuration used for a summarization provider.
// Inference calls are slow and expensive, so the breaker opens after few samples
// and lets a single probe through when half-open.
func SummarizerConfig(provider string) Config {
	return Config{
		Name:             "summarizer-" + provider,
		MaxRequests:      1,
		Interval:         60 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 0.5,
		MinRequests:      4,
	}
}

// CircuitBreaker trips after a failure ratio so a dead backend fails fast.
type CircuitBreaker struct {
	breaker *gobreaker.CircuitBreaker
}

// New creates a breaker from cfg.
func New(cfg Config) *CircuitBreaker {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			level := slog.LevelWarn
			if to == gobreaker.StateClosed {
				level = slog.LevelInfo
			}
			logger.Log(context.Background(), level, "circuit breaker state changed",
				slog.String("circuit", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
		IsSuccessful: isSuccessful,
	}

	return &CircuitBreaker{breaker: gobreaker.NewCircuitBreaker(settings)}
}

// isSuccessful keeps caller cancellations out of the failure ratio: a client that
// gives up says nothing about the health of the backend.
func isSuccessful(err error) bool {
	return err == nil || errors.Is(err, context.Canceled)
}

// Execute runs fn through the breaker. While open it fails immediately with
// gobreaker.ErrOpenState.
func (cb *CircuitBreaker) Execute(fn func() (interface{}, error)) (interface{}, error) {
	return cb.breaker.Execute(fn)
}

func (cb *CircuitBreaker) State() gobreaker.State { return cb.breaker.State() }

// IsRejection reports whether err was produced by the breaker itself rather than
// by the wrapped call.
func IsRejection(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
