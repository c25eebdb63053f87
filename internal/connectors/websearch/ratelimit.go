package websearch

import (
	"context"

	"golang.org/x/time/rate"
)

// queriesPerSecond throttles requests below the Custom Search API's
// per-second quota.
const queriesPerSecond = 1

// RateLimiter throttles outbound search requests with a token bucket.
type RateLimiter struct {
	bucket *rate.Limiter
}

// NewRateLimiter creates a rate limiter tuned for the Custom Search API.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		bucket: rate.NewLimiter(rate.Limit(queriesPerSecond), 2),
	}
}

// Wait blocks until it is safe to make a request.
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.bucket.Wait(ctx)
}
