package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	categoryListKey   = "categories:all"
	categoryKeyPrefix = "category:%d"
)

// CategoryTTL bounds how stale a cached category may get if an invalidation is lost.
const CategoryTTL = 10 * time.Minute

// CategoryListKey is the key holding the full category list.
func CategoryListKey() string {
	return categoryListKey
}

// CategoryKey is the key holding a single category.
func CategoryKey(id uint) string {
	return fmt.Sprintf(categoryKeyPrefix, id)
}

// GetJSON loads key into dest. It reports false with no error on a miss or
// when caching is disabled.
func GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if client == nil {
		return false, nil
	}
	s, err := client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(s), dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON marshals v and stores it under key with ttl.
func SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if client == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, b, ttl).Err()
}

// Aside serves key from Redis, falling back to fetch on a miss. fetch must
// populate dest. Redis failures never fail the read.
func Aside(ctx context.Context, key string, dest any, ttl time.Duration, fetch func() error) error {
	found, err := GetJSON(ctx, key, dest)
	if err == nil && found {
		return nil
	}

	if err := fetch(); err != nil {
		return err
	}

	_ = SetJSON(ctx, key, dest, ttl)
	return nil
}

// Invalidate deletes keys. Errors are ignored; entries expire on their own.
func Invalidate(ctx context.Context, keys ...string) {
	if client == nil || len(keys) == 0 {
		return
	}
	client.Del(ctx, keys...)
}

// InvalidateCategory drops the cached category and the cached list.
func InvalidateCategory(ctx context.Context, id uint) {
	Invalidate(ctx, CategoryKey(id), CategoryListKey())
}
