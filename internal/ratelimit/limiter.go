package ratelimit

import (
	"context"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter paces outgoing requests.
type RateLimiter interface {
	// Wait blocks until a request for the given URL can proceed.
	// If the context is cancelled before the pacing allows, an error is returned.
	Wait(ctx context.Context, urlStr string) error
}

// DomainLimiter spaces requests to the same host at least interval apart.
// The first request to a host also waits a full interval, so every page
// fetch is preceded by the configured delay.
type DomainLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	interval time.Duration
}

// NewDomainLimiter creates a limiter enforcing interval between requests per
// host. A non-positive interval disables pacing.
func NewDomainLimiter(interval time.Duration) *DomainLimiter {
	if interval < 0 {
		interval = 0
	}

	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		interval: interval,
	}
}

// Interval returns the configured spacing between requests.
func (dl *DomainLimiter) Interval() time.Duration {
	return dl.interval
}

// Wait blocks until the request for the given URL can proceed
func (dl *DomainLimiter) Wait(ctx context.Context, urlStr string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if dl.interval == 0 {
		return ctx.Err()
	}

	domain := extractDomain(urlStr)
	if domain == "" {
		// Invalid URL, let it proceed (will fail elsewhere)
		return ctx.Err()
	}

	return dl.getLimiter(domain).Wait(ctx)
}

// getLimiter returns or creates a rate limiter for the given domain
func (dl *DomainLimiter) getLimiter(domain string) *rate.Limiter {
	dl.mu.RLock()
	limiter, exists := dl.limiters[domain]
	dl.mu.RUnlock()

	if exists {
		return limiter
	}

	dl.mu.Lock()
	defer dl.mu.Unlock()

	// Double-check after acquiring write lock
	if limiter, exists := dl.limiters[domain]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(rate.Every(dl.interval), 1)
	// Drain the initial token so the first request waits too.
	limiter.Allow()
	dl.limiters[domain] = limiter

	return limiter
}

// extractDomain extracts the domain from a URL string
func extractDomain(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil {
		return ""
	}
	return u.Host
}
