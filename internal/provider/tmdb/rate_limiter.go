package tmdb

import (
	"context"
	"sync"
	"time"
)

// rateLimiter implements a simple sliding window rate limiter
type rateLimiter struct {
	mu          sync.Mutex
	requests    []time.Time
	maxRequests int
	window      time.Duration
}

// newRateLimiter creates a new rate limiter. A non-positive maxRequests
// disables limiting.
func newRateLimiter(maxRequests int, window time.Duration) *rateLimiter {
	if maxRequests < 0 {
		maxRequests = 0
	}
	return &rateLimiter{
		maxRequests: maxRequests,
		window:      window,
		requests:    make([]time.Time, 0, maxRequests),
	}
}

// wait blocks until a request can be made within rate limits or ctx is done.
func (r *rateLimiter) wait(ctx context.Context) error {
	if r == nil || r.maxRequests == 0 {
		return ctx.Err()
	}

	for {
		r.mu.Lock()
		now := time.Now()
		r.prune(now)

		// If we're under the limit, allow the request immediately
		if len(r.requests) < r.maxRequests {
			r.requests = append(r.requests, now)
			r.mu.Unlock()
			return nil
		}

		// Wait until the oldest request leaves the window, plus a small buffer
		waitTime := r.window - now.Sub(r.requests[0]) + 10*time.Millisecond
		r.mu.Unlock()

		timer := time.NewTimer(waitTime)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// prune drops requests that fell out of the window. Caller holds mu.
func (r *rateLimiter) prune(now time.Time) {
	cutoff := now.Add(-r.window)
	valid := r.requests[:0]
	for _, req := range r.requests {
		if req.After(cutoff) {
			valid = append(valid, req)
		}
	}
	r.requests = valid
}
