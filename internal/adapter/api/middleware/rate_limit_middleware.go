package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"renaix/pkg/logger"
)

// IPRateLimiter throttles unauthenticated traffic per client IP. It sits in
// front of the whole API; per-user action limits live in the usecases.
type IPRateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*ipBucket
	rate    int
	window  time.Duration
}

type ipBucket struct {
	tokens   int
	resetAt  time.Time
	lastSeen time.Time
}

func NewIPRateLimiter(rate int, window time.Duration) *IPRateLimiter {
	rl := &IPRateLimiter{
		buckets: make(map[string]*ipBucket),
		rate:    rate,
		window:  window,
	}

	go rl.cleanup()

	return rl
}

func (rl *IPRateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()

			allowed, resetAt := rl.take(ip)
			if !allowed {
				logger.Warn("Rate limit hit for %s %s from %s", c.Request().Method, c.Request().URL.Path, ip)

				return c.JSON(http.StatusTooManyRequests, map[string]interface{}{
					"error":      "Rate limit exceeded",
					"retryAfter": int(time.Until(resetAt).Seconds()) + 1,
				})
			}

			return next(c)
		}
	}
}

func (rl *IPRateLimiter) take(ip string) (bool, time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()

	bucket, ok := rl.buckets[ip]
	if !ok || now.After(bucket.resetAt) {
		rl.buckets[ip] = &ipBucket{
			tokens:   rl.rate - 1,
			resetAt:  now.Add(rl.window),
			lastSeen: now,
		}
		return true, time.Time{}
	}

	bucket.lastSeen = now

	if bucket.tokens <= 0 {
		return false, bucket.resetAt
	}

	bucket.tokens--
	return true, time.Time{}
}

func (rl *IPRateLimiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		cutoff := time.Now().Add(-15 * time.Minute)
		for ip, bucket := range rl.buckets {
			if bucket.lastSeen.Before(cutoff) {
				delete(rl.buckets, ip)
			}
		}
		rl.mu.Unlock()
	}
}
