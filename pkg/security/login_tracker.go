package security

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// LoginTrackerConfig holds configuration for login tracking
type LoginTrackerConfig struct {
	MaxAttempts   int           // failed attempts before a block
	AttemptWindow time.Duration // how long failures are counted
	BlockDuration time.Duration // how long a block lasts
}

func DefaultLoginTrackerConfig() LoginTrackerConfig {
	return LoginTrackerConfig{
		MaxAttempts:   5,
		AttemptWindow: 15 * time.Minute,
		BlockDuration: 15 * time.Minute,
	}
}

// Redis key patterns
const (
	failLoginPrefix    = "fail:login:user:"
	blockedLoginPrefix = "blocked:login:user:"
)

// INCR with a TTL set on the first increment.
var incrWithTTL = goredis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
return count
`)

// LoginTracker counts failed logins per email and blocks the email once
// MaxAttempts is reached. Without Redis the counters live in process memory.
type LoginTracker struct {
	config LoginTrackerConfig
	redis  *goredis.Client

	mu      sync.Mutex
	entries map[string]*attempts
	now     func() time.Time
}

type attempts struct {
	count        int
	windowEnds   time.Time
	blockedUntil time.Time
}

// NewLoginTracker accepts a nil client.
func NewLoginTracker(config LoginTrackerConfig, client *goredis.Client) *LoginTracker {
	return &LoginTracker{
		config:  config,
		redis:   client,
		entries: make(map[string]*attempts),
		now:     time.Now,
	}
}

func (lt *LoginTracker) IsBlocked(ctx context.Context, email string) (bool, error) {
	if lt.redis != nil {
		n, err := lt.redis.Exists(ctx, blockedLoginPrefix+email).Result()
		if err != nil {
			return false, fmt.Errorf("failed to check block: %w", err)
		}
		return n > 0, nil
	}

	lt.mu.Lock()
	defer lt.mu.Unlock()
	e, ok := lt.entries[email]
	return ok && lt.now().Before(e.blockedUntil), nil
}

// RecordFailedAttempt returns true when this failure caused a block.
func (lt *LoginTracker) RecordFailedAttempt(ctx context.Context, email string) (bool, error) {
	if lt.redis != nil {
		return lt.recordRedis(ctx, email)
	}

	lt.mu.Lock()
	defer lt.mu.Unlock()

	now := lt.now()
	e, ok := lt.entries[email]
	if !ok || now.After(e.windowEnds) {
		e = &attempts{windowEnds: now.Add(lt.config.AttemptWindow), blockedUntil: timeOrZero(e)}
		lt.entries[email] = e
	}
	e.count++
	if e.count >= lt.config.MaxAttempts {
		e.blockedUntil = now.Add(lt.config.BlockDuration)
		e.count = 0
		return true, nil
	}
	return false, nil
}

func (lt *LoginTracker) recordRedis(ctx context.Context, email string) (bool, error) {
	result, err := incrWithTTL.Run(ctx, lt.redis, []string{failLoginPrefix + email}, int(lt.config.AttemptWindow.Seconds())).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment attempts: %w", err)
	}
	count, ok := result.(int64)
	if !ok {
		return false, errors.New("unexpected result type from Lua script")
	}
	if int(count) < lt.config.MaxAttempts {
		return false, nil
	}

	pipe := lt.redis.TxPipeline()
	pipe.Set(ctx, blockedLoginPrefix+email, "1", lt.config.BlockDuration)
	pipe.Del(ctx, failLoginPrefix+email)
	if _, err := pipe.Exec(ctx); err != nil {
		return true, fmt.Errorf("failed to create block: %w", err)
	}
	return true, nil
}

// ClearAttempts forgets failures after a successful login.
func (lt *LoginTracker) ClearAttempts(ctx context.Context, email string) error {
	if lt.redis != nil {
		return lt.redis.Del(ctx, failLoginPrefix+email).Err()
	}

	lt.mu.Lock()
	defer lt.mu.Unlock()
	if e, ok := lt.entries[email]; ok {
		e.count = 0
	}
	return nil
}

func timeOrZero(e *attempts) time.Time {
	if e == nil {
		return time.Time{}
	}
	return e.blockedUntil
}
