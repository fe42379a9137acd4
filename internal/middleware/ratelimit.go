// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// rateKeyPrefix namespaces rate limit counters in Valkey.
const rateKeyPrefix = "ratelimit:"

// RateLimiter limits requests per client IP with a fixed window counter
// kept in Valkey, so every app instance shares the same budget.
type RateLimiter struct {
	client *redis.Client
	name   string        // counter namespace, e.g. "design"
	limit  int64         // max requests per window
	window time.Duration // window length
	hops   int           // trusted reverse proxies in front of the app
	now    func() time.Time
}

// NewRateLimiter creates a rate limiter that allows limit requests per
// window for each client IP.
func NewRateLimiter(client *redis.Client, name string, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		client: client,
		name:   name,
		limit:  int64(limit),
		window: window,
		now:    time.Now,
	}
}

// TrustProxyHops sets how many reverse proxies in front of the app append
// to X-Forwarded-For. With zero, the default, forwarding headers are
// ignored and the peer address is used.
func (rl *RateLimiter) TrustProxyHops(n int) *RateLimiter {
	rl.hops = n
	return rl
}

// allow counts one request for ip and reports whether it is within the
// limit, plus the time left in the current window. Valkey errors let the
// request through.
func (rl *RateLimiter) allow(r *http.Request, ip string) (bool, time.Duration) {
	ctx := r.Context()
	bucket := rl.now().UnixNano() / int64(rl.window)
	key := fmt.Sprintf("%s%s:%s:%d", rateKeyPrefix, rl.name, ip, bucket)

	count, err := rl.client.Incr(ctx, key).Result()
	if err != nil {
		slog.Warn("rate limit counter failed, allowing request", "key", key, "error", err)
		return true, 0
	}
	if count == 1 {
		if err := rl.client.Expire(ctx, key, rl.window).Err(); err != nil {
			slog.Warn("rate limit expire failed", "key", key, "error", err)
		}
	}

	retryAfter := time.Duration((bucket+1)*int64(rl.window) - rl.now().UnixNano())
	return count <= rl.limit, retryAfter
}

// Middleware returns an HTTP middleware that rate-limits by client IP.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r, rl.hops)
		ok, retryAfter := rl.allow(r, ip)
		if !ok {
			secs := int(retryAfter.Round(time.Second) / time.Second)
			if secs < 1 {
				secs = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(secs))
			slog.Info("rate limit exceeded", "limiter", rl.name, "ip", ip, "path", r.URL.Path)
			writeError(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP extracts the client's IP address. Forwarding headers are only
// read when trustedHops > 0. X-Forwarded-For is read from the right: the
// entry trustedHops from the end was appended by the outermost trusted
// proxy, and anything left of it is client-supplied.
func clientIP(r *http.Request, trustedHops int) string {
	if trustedHops > 0 {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			entries := strings.Split(xff, ",")
			i := len(entries) - trustedHops
			if i < 0 {
				i = 0
			}
			if ip := strings.TrimSpace(entries[i]); ip != "" {
				return ip
			}
		}
		if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
			return xri
		}
	}

	// Fall back to RemoteAddr (strip port).
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
