package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testLimiter(cfg RateLimitConfig) *RateLimiter {
	// No eviction goroutine: tests drive allow directly.
	return &RateLimiter{clients: make(map[string]*clientWindow), cfg: cfg}
}

func TestRateLimiterBlocksAfterLimit(t *testing.T) {
	rl := testLimiter(RateLimitConfig{MaxRequests: 2, TimeWindow: time.Minute, BlockDuration: time.Minute})

	allowed, _ := rl.Allow("1.2.3.4")
	assert.True(t, allowed)
	allowed, _ = rl.Allow("1.2.3.4")
	assert.True(t, allowed)

	allowed, retryAfter := rl.Allow("1.2.3.4")
	assert.False(t, allowed)
	assert.Equal(t, time.Minute, retryAfter)

	// Other clients are unaffected
	allowed, _ = rl.Allow("5.6.7.8")
	assert.True(t, allowed)
}

func TestClientWindowResetsAfterTimeWindow(t *testing.T) {
	cfg := RateLimitConfig{MaxRequests: 1, TimeWindow: time.Minute, BlockDuration: time.Minute}
	w := &clientWindow{}
	now := time.Now()

	allowed, _ := w.allow(now, cfg)
	assert.True(t, allowed)

	// Still inside the window: over the limit.
	allowed, _ = w.allow(now.Add(time.Second), cfg)
	assert.False(t, allowed)

	// Both the window and the block have lapsed.
	allowed, _ = w.allow(now.Add(2*time.Minute), cfg)
	assert.True(t, allowed)
}

func TestClientWindowHonorsBlockDuration(t *testing.T) {
	cfg := RateLimitConfig{MaxRequests: 1, TimeWindow: time.Second, BlockDuration: time.Hour}
	w := &clientWindow{}
	now := time.Now()

	w.allow(now, cfg)
	allowed, _ := w.allow(now, cfg)
	assert.False(t, allowed)

	// The window lapsed but the block outlives it.
	allowed, retryAfter := w.allow(now.Add(time.Minute), cfg)
	assert.False(t, allowed)
	assert.InDelta(t, (59 * time.Minute).Seconds(), retryAfter.Seconds(), 1)

	allowed, _ = w.allow(now.Add(2*time.Hour), cfg)
	assert.True(t, allowed)
}
