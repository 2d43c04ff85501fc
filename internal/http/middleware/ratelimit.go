package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"
)

const (
	sweepInterval = 5 * time.Minute
	staleAfter    = 10 * time.Minute
)

// RateLimiter throttles callers with a token bucket per client IP. Meta's
// webhook deliveries and operator sends share it; health and scrape
// endpoints are exempt so monitoring never competes with traffic for
// tokens.
type RateLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	rate      float64
	burst     float64
	lastSweep time.Time

	now func() time.Time
}

type bucket struct {
	tokens   float64
	lastSeen time.Time
}

// NewRateLimiter allows rate requests/sec with the given burst per client.
func NewRateLimiter(rate float64, burst int) *RateLimiter {
	return &RateLimiter{
		buckets: make(map[string]*bucket),
		rate:    rate,
		burst:   float64(burst),
		now:     time.Now,
	}
}

// Allow reports whether a request from client fits in its bucket, spending
// a token when it does.
func (rl *RateLimiter) Allow(client string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.sweepLocked(now)

	b, ok := rl.buckets[client]
	if !ok {
		b = &bucket{tokens: rl.burst, lastSeen: now}
		rl.buckets[client] = b
	}

	b.tokens += now.Sub(b.lastSeen).Seconds() * rl.rate
	if b.tokens > rl.burst {
		b.tokens = rl.burst
	}
	b.lastSeen = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// sweepLocked drops buckets idle past staleAfter. Piggybacking on Allow
// keeps the limiter goroutine-free; an idle limiter holds at most the
// buckets from its last busy window.
func (rl *RateLimiter) sweepLocked(now time.Time) {
	if now.Sub(rl.lastSweep) < sweepInterval {
		return
	}
	rl.lastSweep = now
	cutoff := now.Add(-staleAfter)
	for client, b := range rl.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(rl.buckets, client)
		}
	}
}

// exemptPaths are operational endpoints that must answer even when a
// load balancer health check and a Prometheus scrape share the caller IP
// with real traffic.
var exemptPaths = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// RateLimit rejects over-limit requests with 429. Clients are keyed by IP;
// chi's RealIP middleware runs earlier in the chain, so RemoteAddr already
// names the end client rather than the proxy.
func RateLimit(rate float64, burst int) func(http.Handler) http.Handler {
	limiter := NewRateLimiter(rate, burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if exemptPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}
			if !limiter.Allow(clientKey(r.RemoteAddr)) {
				w.Header().Set("Retry-After", "1")
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientKey strips the port so reconnects from the same host share a bucket.
func clientKey(remoteAddr string) string {
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return host
	}
	return remoteAddr
}
