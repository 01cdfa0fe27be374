// Package ratelimit implements fixed-window counters used to budget OTP
// delivery and verification per email address.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrRateLimited      = errors.New("rate limit exceeded")
	ErrRedisUnavailable = errors.New("redis unavailable")
)

type Limiter interface {
	// Allow consumes one unit of key's budget and returns ErrRateLimited
	// once the window is exhausted.
	Allow(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}

type Rule struct {
	Limit  int
	Window time.Duration
}

type RedisLimiter struct {
	redis  redis.UniversalClient
	prefix string
	rule   Rule
}

func NewRedisLimiter(client redis.UniversalClient, prefix string, rule Rule) *RedisLimiter {
	return &RedisLimiter{redis: client, prefix: prefix, rule: rule}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) error {
	count, err := l.incrementWithTTL(ctx, l.key(key))
	if err != nil {
		return err
	}
	if count > int64(l.rule.Limit) {
		return ErrRateLimited
	}
	return nil
}

func (l *RedisLimiter) Reset(ctx context.Context, key string) error {
	if err := l.redis.Del(ctx, l.key(key)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

func (l *RedisLimiter) incrementWithTTL(ctx context.Context, key string) (int64, error) {
	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if count == 1 {
		if err := l.redis.Expire(ctx, key, l.rule.Window).Err(); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
	}
	return count, nil
}

func (l *RedisLimiter) key(k string) string {
	return "cyberaware:rl:" + l.prefix + ":" + k
}
