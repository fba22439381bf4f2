// Package ratelimit throttles API clients with one token bucket per client
// address. Buckets live in an expiring cache so idle clients cost nothing
// after IdleTTL.
package ratelimit

import (
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// Limiter hands out per-client token buckets. It is safe for concurrent use.
type Limiter struct {
	rps      rate.Limit
	burst    int
	clients  *cache.Cache
	onReject func()
}

// New creates a Limiter allowing rps requests per second with the given
// burst per client. Buckets unused for idleTTL are dropped.
func New(rps float64, burst int, idleTTL time.Duration) *Limiter {
	return &Limiter{
		rps:     rate.Limit(rps),
		burst:   burst,
		clients: cache.New(idleTTL, idleTTL),
	}
}

// OnReject registers fn to be called for every rejected request.
func (l *Limiter) OnReject(fn func()) { l.onReject = fn }

// Allow takes one token from key's bucket.
func (l *Limiter) Allow(key string) bool {
	return l.bucket(key).Allow()
}

// Clients returns the number of tracked buckets.
func (l *Limiter) Clients() int { return l.clients.ItemCount() }

// Middleware rejects requests over the limit with 429.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(ClientKey(r)) {
			if l.onReject != nil {
				l.onReject()
			}
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]string{"error": "rate limit exceeded"}) //nolint:errcheck
			return
		}
		next.ServeHTTP(w, r)
	})
}

// bucket returns key's limiter, creating it on first use. Every lookup
// pushes the entry's expiry forward.
func (l *Limiter) bucket(key string) *rate.Limiter {
	if v, ok := l.clients.Get(key); ok {
		lim := v.(*rate.Limiter)
		l.clients.SetDefault(key, lim)
		return lim
	}
	lim := rate.NewLimiter(l.rps, l.burst)
	if err := l.clients.Add(key, lim, cache.DefaultExpiration); err != nil {
		// Another request created it first.
		if v, ok := l.clients.Get(key); ok {
			return v.(*rate.Limiter)
		}
	}
	return lim
}

// ClientKey identifies the caller by remote IP, without the port.
func ClientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
