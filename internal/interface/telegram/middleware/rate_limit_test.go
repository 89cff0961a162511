package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_AllowsWithinWindow(t *testing.T) {
	limiter := NewRateLimiter(RateLimitConfig{RequestsPerWindow: 3, Window: time.Minute})

	for i := 0; i < 3; i++ {
		res := limiter.Check(1)
		assert.True(t, res.Allowed, "request %d should pass", i+1)
	}

	res := limiter.Check(1)
	assert.False(t, res.Allowed)
	assert.Greater(t, res.RetryAfter, time.Duration(0))
}

func TestRateLimiter_PerUserWindows(t *testing.T) {
	limiter := NewRateLimiter(RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute})

	assert.True(t, limiter.Check(1).Allowed)
	assert.False(t, limiter.Check(1).Allowed)

	// A different user has their own window.
	assert.True(t, limiter.Check(2).Allowed)
}

func TestRateLimiter_DefaultsOnZeroConfig(t *testing.T) {
	limiter := NewRateLimiter(RateLimitConfig{})

	def := DefaultRateLimitConfig()
	for i := 0; i < def.RequestsPerWindow; i++ {
		assert.True(t, limiter.Check(1).Allowed)
	}
	assert.False(t, limiter.Check(1).Allowed)
}
