package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyUsername = "account:username:"

// AccountCache caches username lookups in Redis. Mutations invalidate the
// affected id so cached reads never outlive an update or delete.
type AccountCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewAccountCache returns a new AccountCache.
func NewAccountCache(rdb *redis.Client, ttl time.Duration) *AccountCache {
	return &AccountCache{rdb: rdb, ttl: ttl}
}

// GetUsername returns the cached username for id. The second result is false
// on a miss.
func (c *AccountCache) GetUsername(ctx context.Context, id int64) (string, bool, error) {
	v, err := c.rdb.Get(ctx, keyUsername+strconv.FormatInt(id, 10)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// SetUsername stores the username for id.
func (c *AccountCache) SetUsername(ctx context.Context, id int64, username string) error {
	return c.rdb.Set(ctx, keyUsername+strconv.FormatInt(id, 10), username, c.ttl).Err()
}

// Invalidate removes the cached entry for id (cache invalidation on write).
func (c *AccountCache) Invalidate(ctx context.Context, id int64) error {
	return c.rdb.Del(ctx, keyUsername+strconv.FormatInt(id, 10)).Err()
}
