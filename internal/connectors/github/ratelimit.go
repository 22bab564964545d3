package github

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/ghpipe/internal/logger"
)

const (
	// SearchRateLimit is the authenticated search API limit (30/minute).
	SearchRateLimit = 30

	// DefaultRate is the proactive throttle rate (0.5 req/sec = 30/min).
	DefaultRate = 0.5

	// MinBuffer is the minimum remaining requests before waiting for reset.
	MinBuffer = 1

	// HeaderRateLimit is the rate limit header.
	HeaderRateLimit = "X-RateLimit-Limit"

	// HeaderRateRemaining is the remaining requests header.
	HeaderRateRemaining = "X-RateLimit-Remaining"

	// HeaderRateReset is the reset timestamp header (Unix seconds).
	HeaderRateReset = "X-RateLimit-Reset"

	// HeaderRetryAfter is the cooldown in seconds sent with 429 responses.
	HeaderRetryAfter = "Retry-After"
)

// RateLimiter implements dual-strategy rate limiting for GitHub API.
type RateLimiter struct {
	mu        sync.Mutex
	remaining int           // From API header
	limit     int           // From API header
	resetTime time.Time     // From API header
	bucket    *rate.Limiter // Proactive throttling
	minBuffer int           // Reserve requests
}

// NewRateLimiter creates a new rate limiter allowing perSecond requests.
// A non-positive rate disables proactive throttling.
func NewRateLimiter(perSecond float64) *RateLimiter {
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	return &RateLimiter{
		remaining: SearchRateLimit, // Assume full quota initially
		limit:     SearchRateLimit,
		bucket:    rate.NewLimiter(limit, 1),
		minBuffer: MinBuffer,
	}
}

// Wait blocks for a bucket token, then for the quota reset when the last
// response left fewer than minBuffer calls.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := r.bucket.Wait(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	exhausted := r.remaining < r.minBuffer
	wait := time.Until(r.resetTime)
	r.mu.Unlock()

	if !exhausted || wait <= 0 {
		return nil
	}

	logger.Debug("quota exhausted, waiting %s for reset", wait.Round(time.Second))
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// UpdateFromResponse records the quota headers of a response.
// Missing or malformed headers leave the previous value.
func (r *RateLimiter) UpdateFromResponse(resp *http.Response) {
	if resp == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if v, ok := headerInt(resp.Header, HeaderRateRemaining); ok {
		r.remaining = int(v)
	}
	if v, ok := headerInt(resp.Header, HeaderRateLimit); ok {
		r.limit = int(v)
	}
	if v, ok := headerInt(resp.Header, HeaderRateReset); ok {
		r.resetTime = time.Unix(v, 0)
	}
}

func headerInt(h http.Header, key string) (int64, bool) {
	v, err := strconv.ParseInt(h.Get(key), 10, 64)
	return v, err == nil
}

// Remaining returns the current remaining requests.
func (r *RateLimiter) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.remaining
}

// Limit returns the rate limit.
func (r *RateLimiter) Limit() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.limit
}

// ResetTime returns the rate limit reset time.
func (r *RateLimiter) ResetTime() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resetTime
}
