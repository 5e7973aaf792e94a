// ratelimit.go - Sliding-window rate limiter by client IP.
//
// Applied to room creation, the only endpoint that consumes the shared
// room-code space; designed to complement proxy-side limits.
package server

import (
	"net"
	"net/http"
	"sync"
	"time"
)

// rateLimiter tracks request timestamps per IP address with periodic
// cleanup of idle entries.
type rateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rate     int           // requests allowed per window
	window   time.Duration // time window for rate limiting
}

type visitor struct {
	requests []time.Time
	mu       sync.Mutex
}

// newRateLimiter creates a limiter that allows 'rate' requests per
// 'window' per IP.
func newRateLimiter(rate int, window time.Duration) *rateLimiter {
	rl := &rateLimiter{
		visitors: make(map[string]*visitor),
		rate:     rate,
		window:   window,
	}
	go rl.cleanup()
	return rl
}

func (rl *rateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// RealIP middleware has already resolved proxy headers.
		ip := r.RemoteAddr
		if host, _, err := net.SplitHostPort(ip); err == nil {
			ip = host
		}

		if !rl.allow(ip) {
			writeError(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *rateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	v, exists := rl.visitors[ip]
	if !exists {
		v = &visitor{requests: make([]time.Time, 0, rl.rate)}
		rl.visitors[ip] = v
	}
	rl.mu.Unlock()

	v.mu.Lock()
	defer v.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-rl.window)

	valid := v.requests[:0]
	for _, t := range v.requests {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}
	v.requests = valid

	if len(v.requests) >= rl.rate {
		return false
	}

	v.requests = append(v.requests, now)
	return true
}

// cleanup periodically drops visitors with no recent requests.
func (rl *rateLimiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-rl.window * 2)

		rl.mu.Lock()
		for ip, v := range rl.visitors {
			v.mu.Lock()
			if len(v.requests) == 0 || v.requests[len(v.requests)-1].Before(cutoff) {
				delete(rl.visitors, ip)
			}
			v.mu.Unlock()
		}
		rl.mu.Unlock()
	}
}
