package middleware

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// RateLimiter tracks request counts per IP address in a sliding window.
type RateLimiter struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	limit    int           // Max requests allowed, <= 0 disables limiting
	window   time.Duration // Time window for rate limiting
	trusted  []*net.IPNet  // Proxies whose forwarding headers are honoured
	now      func() time.Time
}

// NewRateLimiter creates a limiter and starts its cleanup goroutine.
// Forwarding headers are only read from requests whose remote address is one
// of trustedProxies (IPs or CIDRs).
func NewRateLimiter(limit int, window time.Duration, trustedProxies []string) *RateLimiter {
	rl := newRateLimiter(limit, window, trustedProxies)
	if limit <= 0 {
		slog.Warn("auth rate limiting disabled", "limit", limit)
		return rl
	}
	go rl.cleanupLoop()
	return rl
}

func newRateLimiter(limit int, window time.Duration, trustedProxies []string) *RateLimiter {
	return &RateLimiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
		trusted:  parseProxies(trustedProxies),
		now:      time.Now,
	}
}

// parseProxies accepts single IPs and CIDRs; invalid entries are skipped.
func parseProxies(entries []string) []*net.IPNet {
	var nets []*net.IPNet
	for _, entry := range entries {
		if !strings.Contains(entry, "/") {
			ip := net.ParseIP(entry)
			if ip == nil {
				slog.Warn("ignoring invalid trusted proxy", "value", entry)
				continue
			}
			bits := 8 * net.IPv6len
			if ip.To4() != nil {
				ip, bits = ip.To4(), 8*net.IPv4len
			}
			nets = append(nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, n, err := net.ParseCIDR(entry)
		if err != nil {
			slog.Warn("ignoring invalid trusted proxy", "value", entry)
			continue
		}
		nets = append(nets, n)
	}
	return nets
}

// Allow records a request from ip and reports whether it is within the limit.
// When it is not, the duration until the oldest request leaves the window is
// returned.
func (rl *RateLimiter) Allow(ip string) (bool, time.Duration) {
	if rl.limit <= 0 {
		return true, 0
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	cutoff := now.Add(-rl.window)

	valid := rl.requests[ip][:0]
	for _, t := range rl.requests[ip] {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}

	if len(valid) >= rl.limit {
		rl.requests[ip] = valid
		return false, valid[0].Sub(cutoff)
	}

	rl.requests[ip] = append(valid, now)
	return true, 0
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.cleanup()
	}
}

// cleanup removes IPs with no requests in the last two windows.
func (rl *RateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-rl.window * 2)
	for ip, requests := range rl.requests {
		if len(requests) == 0 || !requests[len(requests)-1].After(cutoff) {
			delete(rl.requests, ip)
		}
	}
}

// RateLimit rejects clients above the limiter's budget with 429.
func RateLimit(limiter *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := getClientIP(r, limiter.trusted)

			ok, retryAfter := limiter.Allow(ip)
			if !ok {
				slog.Warn("rate limit exceeded", "ip", ip, "path", r.URL.Path)
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
				writeError(w, http.StatusTooManyRequests, "too many requests, please try again later")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// getClientIP returns the remote address, or the forwarded client address
// when the request comes from a trusted proxy.
func getClientIP(r *http.Request, trusted []*net.IPNet) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if !isTrusted(host, trusted) {
		return host
	}

	// X-Forwarded-For from a proxy or load balancer, first hop wins
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	return host
}

func isTrusted(host string, trusted []*net.IPNet) bool {
	ip := net.ParseIP(host)
	if ip == nil {
		return false
	}
	for _, n := range trusted {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}
