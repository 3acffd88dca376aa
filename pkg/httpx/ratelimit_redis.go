package httpx

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter is a fixed window counter shared by every replica through Redis.
type RedisLimiter struct {
	client redis.Cmdable
	prefix string
	config RateLimitConfig
	now    func() time.Time
}

// NewRedisLimiter returns a Limiter counting requests per window in Redis.
func NewRedisLimiter(client redis.Cmdable, scope string, config RateLimitConfig) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		prefix: "ratelimit:" + scope,
		config: config,
		now:    time.Now,
	}
}

// RedisLimiters returns a LimiterFactory backed by client.
func RedisLimiters(client redis.Cmdable) LimiterFactory {
	return func(scope string, config RateLimitConfig) Limiter {
		return NewRedisLimiter(client, scope, config)
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	now := l.now()
	window := l.config.Window
	slot := now.UnixNano() / int64(window)
	redisKey := fmt.Sprintf("%s:%s:%d", l.prefix, key, slot)

	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		pipe.Expire(ctx, redisKey, window)
		return nil
	})
	if err != nil {
		return false, 0, fmt.Errorf("redis rate limit: %w", err)
	}

	if incr.Val() > int64(l.config.RequestsPerWindow) {
		windowEnd := time.Unix(0, (slot+1)*int64(window))
		return false, windowEnd.Sub(now), nil
	}
	return true, 0, nil
}
