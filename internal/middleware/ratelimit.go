package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// RateLimiterConfig configures a RateLimiter.
type RateLimiterConfig struct {
	// Rate is the sustained number of requests per second allowed per key.
	Rate float64

	// Burst is the bucket capacity.
	Burst int

	// IdleTTL is how long an untouched key is remembered. It should exceed
	// Burst/Rate so a forgotten bucket would have been full anyway. Zero keeps
	// keys forever.
	IdleTTL time.Duration

	// Key extracts the limited key. Defaults to ClientIP(false).
	Key func(r *http.Request) string
}

// AuthRateLimiterConfig allows a burst of 10 sign-in or registration attempts
// per client, then one every five seconds.
func AuthRateLimiterConfig(trustProxy bool) RateLimiterConfig {
	return RateLimiterConfig{
		Rate:    0.2,
		Burst:   10,
		IdleTTL: 10 * time.Minute,
		Key:     ClientIP(trustProxy),
	}
}

type bucket struct {
	tokens float64
	seen   time.Time
}

// RateLimiter is an in-memory token bucket limiter keyed per client. Idle keys
// are swept on access.
type RateLimiter struct {
	cfg RateLimiterConfig
	now func() time.Time

	mu        sync.Mutex
	buckets   map[string]*bucket
	lastSweep time.Time
}

// NewRateLimiter creates a RateLimiter.
func NewRateLimiter(cfg RateLimiterConfig) *RateLimiter {
	if cfg.Key == nil {
		cfg.Key = ClientIP(false)
	}
	return &RateLimiter{
		cfg:     cfg,
		now:     time.Now,
		buckets: make(map[string]*bucket),
	}
}

// Reserve takes a token for key. When the bucket is empty it reports how long
// until the next token.
func (rl *RateLimiter) Reserve(key string) (time.Duration, bool) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.sweepLocked(now)

	capacity := float64(rl.cfg.Burst)
	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{tokens: capacity, seen: now}
		rl.buckets[key] = b
	}
	b.tokens = min(b.tokens+now.Sub(b.seen).Seconds()*rl.cfg.Rate, capacity)
	b.seen = now

	if b.tokens >= 1 {
		b.tokens--
		return 0, true
	}
	if rl.cfg.Rate <= 0 {
		return time.Duration(math.MaxInt64), false
	}
	return time.Duration((1 - b.tokens) / rl.cfg.Rate * float64(time.Second)), false
}

// Allow reports whether key may proceed, taking a token if so.
func (rl *RateLimiter) Allow(key string) bool {
	_, ok := rl.Reserve(key)
	return ok
}

// Len returns the number of remembered keys.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.buckets)
}

func (rl *RateLimiter) sweepLocked(now time.Time) {
	if rl.cfg.IdleTTL <= 0 || now.Sub(rl.lastSweep) < rl.cfg.IdleTTL {
		return
	}
	rl.lastSweep = now
	for key, b := range rl.buckets {
		if now.Sub(b.seen) > rl.cfg.IdleTTL {
			delete(rl.buckets, key)
		}
	}
}

// Middleware answers 429 with Retry-After once the caller's bucket is empty.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wait, ok := rl.Reserve(rl.cfg.Key(r))
		if !ok {
			w.Header().Set("Retry-After", retryAfter(wait))
			GetLogger(r.Context()).Warn("rate limit exceeded", "path", r.URL.Path)
			respondTooManyRequests(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func retryAfter(wait time.Duration) string {
	secs := math.Ceil(wait.Seconds())
	switch {
	case secs < 1:
		secs = 1
	case secs > 3600:
		secs = 3600
	}
	return strconv.Itoa(int(secs))
}

// ClientIP returns a key func for the caller's address. Forwarding headers are
// honored only when the server sits behind a trusted proxy.
func ClientIP(trustProxy bool) func(r *http.Request) string {
	return func(r *http.Request) string {
		if trustProxy {
			if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
				first, _, _ := strings.Cut(xff, ",")
				return strings.TrimSpace(first)
			}
			if xri := r.Header.Get("X-Real-IP"); xri != "" {
				return xri
			}
		}
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			return r.RemoteAddr
		}
		return ip
	}
}
