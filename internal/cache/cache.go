package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned by Get when the key is absent or no client is configured.
var ErrMiss = errors.New("cache miss")

// Cache stores JSON encoded values of type T under a key prefix.
type Cache[T any] struct {
	rc     *redis.Client
	prefix string
}

// NewCache creates a Cache. A nil client turns every call into a miss or a no-op.
func NewCache[T any](rc *redis.Client, prefix string) *Cache[T] {
	return &Cache[T]{rc: rc, prefix: prefix}
}

func (c *Cache[T]) key(k string) string {
	return c.prefix + ":" + k
}

func (c *Cache[T]) Get(ctx context.Context, k string) (T, error) {
	var zero T
	if c.rc == nil {
		return zero, ErrMiss
	}

	raw, err := c.rc.Get(ctx, c.key(k)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return zero, ErrMiss
		}
		return zero, fmt.Errorf("failed to get cache: %w", err)
	}

	var v T
	if err = json.Unmarshal(raw, &v); err != nil {
		return zero, fmt.Errorf("failed to unmarshal cache data: %w", err)
	}
	return v, nil
}

func (c *Cache[T]) Set(ctx context.Context, k string, v T, ttl time.Duration) error {
	if c.rc == nil {
		return nil
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal cache data: %w", err)
	}
	if err = c.rc.Set(ctx, c.key(k), raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

func (c *Cache[T]) Delete(ctx context.Context, k string) error {
	if c.rc == nil {
		return nil
	}
	return c.rc.Del(ctx, c.key(k)).Err()
}
