package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"staffhub-backend/shared/config"
)

// RateLimitConfig controls the gateway-wide limiter. All knobs come
// from the environment so deploys can tune them without a rebuild.
type RateLimitConfig struct {
	MaxRequests     int
	TimeWindow      time.Duration
	BlockDuration   time.Duration
	CleanupInterval time.Duration
	IdleEviction    time.Duration
}

// NewRateLimitConfig reads the limiter settings from shared config.
func NewRateLimitConfig() RateLimitConfig {
	cfg := config.GetConfig()

	return RateLimitConfig{
		MaxRequests:     cfg.GetRateLimitMaxRequests(),
		TimeWindow:      time.Duration(cfg.GetRateLimitTimeWindowSeconds()) * time.Second,
		BlockDuration:   time.Duration(cfg.GetRateLimitBlockDurationMinutes()) * time.Minute,
		CleanupInterval: time.Duration(cfg.GetRateLimitCleanupMinutes()) * time.Minute,
		IdleEviction:    time.Duration(cfg.GetRateLimitIdleEvictionHours()) * time.Hour,
	}
}

// clientWindow tracks one client IP's requests inside the current window.
type clientWindow struct {
	count      int
	resetAt    time.Time
	lastAccess time.Time
	blockUntil time.Time
}

// allow applies the fixed-window check for a single request. When the
// request is refused it reports how long the client should wait.
func (w *clientWindow) allow(now time.Time, cfg RateLimitConfig) (bool, time.Duration) {
	w.lastAccess = now

	if now.Before(w.blockUntil) {
		return false, w.blockUntil.Sub(now)
	}

	if now.After(w.resetAt) {
		w.count = 0
		w.resetAt = now.Add(cfg.TimeWindow)
	}

	if w.count >= cfg.MaxRequests {
		w.blockUntil = now.Add(cfg.BlockDuration)
		return false, cfg.BlockDuration
	}

	w.count++
	return true, 0
}

// RateLimiter is the process-wide limiter the gateway puts in front of
// every proxied route.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientWindow
	cfg     RateLimitConfig
}

// NewRateLimiter builds the limiter and starts its background eviction
// loop.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*clientWindow),
		cfg:     cfg,
	}

	go rl.evictIdle()

	return rl
}

// evictIdle drops clients that have not been seen for cfg.IdleEviction.
func (rl *RateLimiter) evictIdle() {
	ticker := time.NewTicker(rl.cfg.CleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		rl.mu.Lock()
		for ip, w := range rl.clients {
			if now.Sub(w.lastAccess) > rl.cfg.IdleEviction {
				delete(rl.clients, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// Allow records one request for the client and reports whether it may
// proceed. The second return is the suggested Retry-After on refusal.
func (rl *RateLimiter) Allow(clientIP string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, ok := rl.clients[clientIP]
	if !ok {
		w = &clientWindow{}
		rl.clients[clientIP] = w
	}

	return w.allow(time.Now(), rl.cfg)
}

// GlobalRateLimitMiddleware rejects clients over the gateway-wide limit
// with 429 and a Retry-After header.
func (rl *RateLimiter) GlobalRateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, retryAfter := rl.Allow(c.ClientIP())
		if !allowed {
			seconds := int(retryAfter.Seconds())
			c.Header("Retry-After", strconv.Itoa(seconds))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"message":     "Too many requests from this IP. Please try again later.",
				"retry_after": seconds,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
