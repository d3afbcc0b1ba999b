// Package retry runs model calls with exponential backoff and jitter. Only errors
// classified as transient by IsRetryable are retried.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net"
	"net/http"
	"strconv"
	"strings"
	"syscall"
	"time"

	"pdf-digest/internal/observability/logging"
)

// Config is a backoff policy.
type Config struct {
	MaxAttempts    int
	InitialDelay   time.Duration
	MaxDelay       time.Duration
	Multiplier     float64
	JitterFraction float64 // 0..1
}

// NoRetryConfig performs exactly one attempt. Summarization failures surface
// to the caller immediately.
func NoRetryConfig() Config {
	return Config{MaxAttempts: 1, Multiplier: 1}
}

// ModelAPIConfig returns a backoff policy for inference APIs with the given number
// of attempts. Values below 1 are treated as 1.
func ModelAPIConfig(maxAttempts int) Config {
	return Config{
		MaxAttempts:    max(maxAttempts, 1),
		InitialDelay:   2 * time.Second,
		MaxDelay:       20 * time.Second,
		Multiplier:     2.0,
		JitterFraction: 0.1,
	}
}

// Do runs fn until it succeeds, returns a non-retryable error, or cfg.MaxAttempts is
// reached. With a single attempt the error of fn is returned as is.
//
// A backend hint carried by *HTTPError (RetryAfter) stretches the wait up to MaxDelay.
func Do[T any](ctx context.Context, cfg Config, fn func() (T, error)) (T, error) {
	if cfg.MaxAttempts <= 1 {
		return fn()
	}

	logger := logging.FromContext(ctx)
	delay := cfg.InitialDelay
	var (
		zero    T
		lastErr error
	)

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		res, err := fn()
		if err == nil {
			if attempt > 1 {
				logger.InfoContext(ctx, "model call succeeded after retry", slog.Int("attempt", attempt))
			}
			return res, nil
		}
		lastErr = err

		if !IsRetryable(err) {
			return zero, err
		}
		if attempt == cfg.MaxAttempts {
			break
		}

		wait := waitFor(err, delay, cfg.MaxDelay)
		logger.WarnContext(ctx, "model call failed, retrying",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", cfg.MaxAttempts),
			slog.Duration("delay", wait),
			slog.Any("error", err))

		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return zero, fmt.Errorf("retry aborted: %w", ctx.Err())
		}

		delay = addJitter(min(time.Duration(float64(delay)*cfg.Multiplier), cfg.MaxDelay), cfg.JitterFraction)
	}

	return zero, fmt.Errorf("max retry attempts (%d) exceeded: %w", cfg.MaxAttempts, lastErr)
}

// waitFor picks the larger of the backoff delay and the backend hint, capped at maxDelay.
func waitFor(err error, delay, maxDelay time.Duration) time.Duration {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) && httpErr.RetryAfter > delay {
		delay = httpErr.RetryAfter
	}
	if maxDelay > 0 && delay > maxDelay {
		delay = maxDelay
	}
	return delay
}

// IsRetryable reports whether err is transient: network timeouts, refused or reset
// connections, 5xx, 408 and 429 answers. Context errors are never retried.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	for _, errno := range []error{syscall.ECONNREFUSED, syscall.ECONNRESET, syscall.ETIMEDOUT, syscall.ENETUNREACH} {
		if errors.Is(err, errno) {
			return true
		}
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		// 503 is also what the Inference API answers while a model is loading.
		return httpErr.StatusCode >= 500 ||
			httpErr.StatusCode == http.StatusTooManyRequests ||
			httpErr.StatusCode == http.StatusRequestTimeout
	}
	return false
}

// HTTPError is a non-2xx answer from a model backend.
type HTTPError struct {
	StatusCode int
	Message    string
	// RetryAfter is the backend's hint of when to try again, zero if none was given.
	RetryAfter time.Duration
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// ParseRetryAfter reads a Retry-After header given in seconds. Dates and invalid
// values yield zero.
func ParseRetryAfter(h http.Header) time.Duration {
	v := h.Get("Retry-After")
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

func addJitter(d time.Duration, fraction float64) time.Duration {
	if fraction <= 0 {
		return d
	}
	fraction = min(fraction, 1.0)
	// #nosec G404 -- jitter does not need a CSPRNG.
	return d + time.Duration(rand.Float64()*float64(d)*fraction)
}
