package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// fixedWindow increments the key and starts its expiry on the first hit of
// a window.  Returns the count and the remaining TTL in milliseconds.
var fixedWindow = redis.NewScript(`
	local current = redis.call('INCR', KEYS[1])
	if current == 1 then
		redis.call('PEXPIRE', KEYS[1], ARGV[1])
	end
	local ttl = redis.call('PTTL', KEYS[1])
	if ttl < 0 then
		redis.call('PEXPIRE', KEYS[1], ARGV[1])
		ttl = tonumber(ARGV[1])
	end
	return { current, ttl }
`)

// Redis is a Limiter shared by every instance pointing at the same redis.
type Redis struct {
	rdb    *redis.Client
	prefix string
}

// NewRedis returns a redis-backed limiter.  Keys are stored as prefix:key.
func NewRedis(rdb *redis.Client, prefix string) *Redis {
	if prefix == "" {
		prefix = "rl"
	}
	return &Redis{rdb: rdb, prefix: prefix}
}

// Consume implements Limiter.
func (r *Redis) Consume(ctx context.Context, key string, rule Rule) (Result, error) {
	now := time.Now()
	vals, err := fixedWindow.Run(ctx, r.rdb, []string{r.prefix + ":" + key}, rule.Window.Milliseconds()).Int64Slice()
	if err != nil {
		return Result{}, err
	}
	if len(vals) != 2 {
		return Result{}, fmt.Errorf("ratelimit: unexpected script result %v", vals)
	}
	count, ttl := int(vals[0]), time.Duration(vals[1])*time.Millisecond
	return Result{
		Success:   count <= rule.Limit,
		Remaining: max(0, rule.Limit-count),
		ResetAt:   now.Add(ttl),
	}, nil
}
