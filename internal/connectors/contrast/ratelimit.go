package contrast

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// HeaderRetryAfter is the retry-after header (seconds or HTTP date).
	HeaderRetryAfter = "Retry-After"

	// DefaultBackoff applies when a 429 carries no Retry-After.
	DefaultBackoff = 10 * time.Second
)

// RateLimiter throttles requests with a token bucket and holds all
// requests back after the platform answers 429.
type RateLimiter struct {
	mu           sync.Mutex
	bucket       *rate.Limiter
	blockedUntil time.Time
	now          func() time.Time
}

// NewRateLimiter creates a limiter allowing perSecond requests.
func NewRateLimiter(perSecond float64) *RateLimiter {
	if perSecond <= 0 {
		perSecond = DefaultRequestsPerSecond
	}
	return &RateLimiter{
		bucket: rate.NewLimiter(rate.Limit(perSecond), 1),
		now:    time.Now,
	}
}

// Wait blocks until it's safe to make a request.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	blockedUntil := r.blockedUntil
	now := r.now()
	r.mu.Unlock()

	if now.Before(blockedUntil) {
		timer := time.NewTimer(blockedUntil.Sub(now))
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return r.bucket.Wait(ctx)
}

// CheckResponse returns a RateLimitError for a 429 response and blocks
// further requests until the retry time.
func (r *RateLimiter) CheckResponse(resp *http.Response) error {
	if resp == nil || resp.StatusCode != http.StatusTooManyRequests {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	retryAt := r.now().Add(DefaultBackoff)
	if v := resp.Header.Get(HeaderRetryAfter); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil {
			retryAt = r.now().Add(time.Duration(seconds) * time.Second)
		} else if t, err := http.ParseTime(v); err == nil {
			retryAt = t
		}
	}
	if retryAt.After(r.blockedUntil) {
		r.blockedUntil = retryAt
	}

	url := ""
	if resp.Request != nil {
		url = resp.Request.URL.String()
	}
	return &RateLimitError{RetryAt: retryAt, URL: url}
}

// BlockedUntil returns the time before which no request is sent.
func (r *RateLimiter) BlockedUntil() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.blockedUntil
}
