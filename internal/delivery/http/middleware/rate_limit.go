package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go-profile-backend/internal/domain"
	"go-profile-backend/pkg/apperror"
	"go-profile-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	// Requests per window
	Limit  int
	Window time.Duration
	// Default: client IP
	KeyFunc func(*gin.Context) string
	// Key prefix in Redis, e.g. "rl:ip:"
	KeyPrefix string
	// Reject instead of falling back to memory when Redis errors
	FailClosed bool
}

// RateLimiter counts requests per key in Redis, or in process memory when
// no Redis client is configured or Redis fails on a fail-open limit.
type RateLimiter struct {
	redis *goredis.Client
	log   logger.Logger
	store sync.Map
	now   func() time.Time
}

// rateLimitEntry tracks request count for a key (in-memory fallback)
type rateLimitEntry struct {
	mu      sync.Mutex
	count   int
	resetAt time.Time
	// removed is set once sweep has dropped the entry from the store
	removed bool
}

// INCR and EXPIRE in one round trip; returns {count, ttl}.
var rateLimitScript = goredis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('TTL', KEYS[1])
return {count, ttl}
`)

// NewRateLimiter accepts a nil client.
func NewRateLimiter(client *goredis.Client, log logger.Logger) *RateLimiter {
	return &RateLimiter{redis: client, log: log, now: time.Now}
}

// GlobalConfig applies to every route.
func GlobalConfig(limit int, window time.Duration) RateLimitConfig {
	return RateLimitConfig{
		Limit:     limit,
		Window:    window,
		KeyPrefix: "rl:ip:",
		KeyFunc:   func(c *gin.Context) string { return c.ClientIP() },
	}
}

// AuthConfig is the stricter limit for register and login.
func AuthConfig(limit int, window time.Duration) RateLimitConfig {
	return RateLimitConfig{
		Limit:      limit,
		Window:     window,
		KeyPrefix:  "rl:auth:",
		FailClosed: true,
		KeyFunc:    func(c *gin.Context) string { return c.ClientIP() },
	}
}

func (l *RateLimiter) Middleware(config RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := config.KeyPrefix + config.KeyFunc(c)

		var count int
		var resetAt time.Time
		if l.redis != nil {
			var err error
			count, resetAt, err = l.checkRedis(c.Request.Context(), key, config)
			if err != nil {
				l.log.Error("rate limit store unavailable", err, zap.String("key_prefix", config.KeyPrefix))
				if config.FailClosed {
					abortWith(c, apperror.New(http.StatusServiceUnavailable, "Service temporarily unavailable. Please try again.", nil))
					return
				}
				count, resetAt = l.checkMemory(key, config)
			}
		} else {
			count, resetAt = l.checkMemory(key, config)
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Limit))
		c.Header("X-RateLimit-Reset", resetAt.Format(time.RFC3339))

		if count > config.Limit {
			retryAfter := int(resetAt.Sub(l.now()).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", strconv.Itoa(retryAfter))

			l.log.Warn("rate limit exceeded",
				zap.String("client_ip", c.ClientIP()),
				zap.String("path", c.FullPath()),
				zap.String("request_id", c.GetString(string(domain.KeyRequestID))),
			)
			abortWith(c, apperror.New(http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.", nil))
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(config.Limit-count))
		c.Next()
	}
}

func (l *RateLimiter) checkRedis(ctx context.Context, key string, config RateLimitConfig) (int, time.Time, error) {
	result, err := rateLimitScript.Run(ctx, l.redis, []string{key}, int(config.Window.Seconds())).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("redis rate limit eval failed: %w", err)
	}

	arr, ok := result.([]interface{})
	if !ok || len(arr) < 2 {
		return 0, time.Time{}, fmt.Errorf("unexpected redis result format")
	}
	count, _ := arr[0].(int64)
	ttl, _ := arr[1].(int64)

	return int(count), l.now().Add(time.Duration(ttl) * time.Second), nil
}

func (l *RateLimiter) checkMemory(key string, config RateLimitConfig) (int, time.Time) {
	now := l.now()
	for {
		v, _ := l.store.LoadOrStore(key, &rateLimitEntry{resetAt: now.Add(config.Window)})
		entry := v.(*rateLimitEntry)

		entry.mu.Lock()
		if entry.removed {
			// swept between LoadOrStore and Lock; count on the live entry
			entry.mu.Unlock()
			continue
		}
		if now.After(entry.resetAt) {
			entry.count = 0
			entry.resetAt = now.Add(config.Window)
		}
		entry.count++
		count, resetAt := entry.count, entry.resetAt
		entry.mu.Unlock()
		return count, resetAt
	}
}

// Cleanup drops expired in-memory counters until ctx is done.
func (l *RateLimiter) Cleanup(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.sweep(l.now())
		}
	}
}

func (l *RateLimiter) sweep(now time.Time) {
	l.store.Range(func(key, value interface{}) bool {
		entry := value.(*rateLimitEntry)
		entry.mu.Lock()
		if now.After(entry.resetAt) {
			entry.removed = true
			l.store.CompareAndDelete(key, entry)
		}
		entry.mu.Unlock()
		return true
	})
}
