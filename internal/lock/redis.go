package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLocker implements Locker using Redis SET NX with expiry.
// Locks are shared across all service replicas pointed at the same Redis.
type RedisLocker struct {
	client *redis.Client
}

// NewRedisLocker creates a new Redis-backed locker.
func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{client: client}
}

// Acquire attempts to acquire a lock.
func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	acquired, err := l.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis lock acquire: %w", err)
	}
	return acquired, nil
}

// Release releases a lock.
func (l *RedisLocker) Release(ctx context.Context, key string) (bool, error) {
	deleted, err := l.client.Del(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("redis lock release: %w", err)
	}
	return deleted > 0, nil
}

// Extend extends the TTL of a held lock.
func (l *RedisLocker) Extend(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	extended, err := l.client.Expire(ctx, key, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis lock extend: %w", err)
	}
	return extended, nil
}

// Ensure RedisLocker implements Locker.
var _ Locker = (*RedisLocker)(nil)
