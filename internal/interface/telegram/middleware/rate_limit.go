package middleware

import (
	"sync"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// RATE LIMITER
// Per-user fixed window limiter. The office chat is small, this only guards
// against button mashing and stuck clients, not real abuse.
// ══════════════════════════════════════════════════════════════════════════════

// RateLimitConfig holds configuration for the rate limiter.
type RateLimitConfig struct {
	// RequestsPerWindow is the number of allowed updates per window per user.
	RequestsPerWindow int

	// Window is the measurement window.
	Window time.Duration
}

// DefaultRateLimitConfig returns sensible defaults.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerWindow: 20,
		Window:            time.Minute,
	}
}

// RateLimitResult is the outcome of a rate limit check.
type RateLimitResult struct {
	// Allowed indicates the update may proceed.
	Allowed bool

	// RetryAfter is how long to wait when not allowed.
	RetryAfter time.Duration
}

// RateLimiter tracks per-user request windows.
type RateLimiter struct {
	config RateLimitConfig

	mu      sync.Mutex
	windows map[int64]*userWindow
}

type userWindow struct {
	count   int
	started time.Time
}

// NewRateLimiter creates a new rate limiter.
func NewRateLimiter(config RateLimitConfig) *RateLimiter {
	if config.RequestsPerWindow <= 0 {
		config.RequestsPerWindow = DefaultRateLimitConfig().RequestsPerWindow
	}
	if config.Window <= 0 {
		config.Window = DefaultRateLimitConfig().Window
	}
	return &RateLimiter{
		config:  config,
		windows: make(map[int64]*userWindow),
	}
}

// Check counts one update for the user and reports whether it is allowed.
func (r *RateLimiter) Check(telegramID int64) RateLimitResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()

	w, ok := r.windows[telegramID]
	if !ok || now.Sub(w.started) >= r.config.Window {
		r.windows[telegramID] = &userWindow{count: 1, started: now}
		if len(r.windows) > 4096 {
			r.evictExpired(now)
		}
		return RateLimitResult{Allowed: true}
	}

	w.count++
	if w.count > r.config.RequestsPerWindow {
		return RateLimitResult{
			Allowed:    false,
			RetryAfter: r.config.Window - now.Sub(w.started),
		}
	}
	return RateLimitResult{Allowed: true}
}

// evictExpired drops stale windows. Called under the lock.
func (r *RateLimiter) evictExpired(now time.Time) {
	for id, w := range r.windows {
		if now.Sub(w.started) >= r.config.Window {
			delete(r.windows, id)
		}
	}
}
