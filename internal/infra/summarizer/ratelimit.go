package summarizer

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// RateLimiter is a token bucket in front of a model backend, so a burst of uploads
// does not exceed the provider's quota.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter allows requestsPerSecond sustained calls with bursts of up to burst.
// A non-positive rate disables limiting.
//
//	limiter := NewRateLimiter(2.0, 4) // 2 req/s, bursts of 4
func NewRateLimiter(requestsPerSecond float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	limit := rate.Limit(requestsPerSecond)
	if requestsPerSecond <= 0 {
		limit = rate.Inf
	}
	return &RateLimiter{limiter: rate.NewLimiter(limit, burst)}
}

// Wait blocks until a token is available or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	return nil
}

