package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Mutex is a coarse advisory lock used to serialise expensive operations
// across instances. Callers that lose the race receive acquired=false.
type Mutex interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// RedisMutex implements Mutex on top of SET NX with a TTL. The TTL guards
// against a crashed holder leaving the lock stuck.
type RedisMutex struct {
	client *redis.Client
}

// NewRedisMutex wraps an existing Redis client.
func NewRedisMutex(client *redis.Client) *RedisMutex {
	return &RedisMutex{client: client}
}

func (m *RedisMutex) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := m.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire lock %s: %w", key, err)
	}
	return ok, nil
}

func (m *RedisMutex) Release(ctx context.Context, key string) error {
	if err := m.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("release lock %s: %w", key, err)
	}
	return nil
}
