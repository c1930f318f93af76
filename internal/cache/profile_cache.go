package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	dom "accounts/internal/domain"

	"github.com/redis/go-redis/v9"
)

const keyProfile = "profile:"

// ProfileCache caches profile reads in Redis (invalidated on profile update).
type ProfileCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewProfileCache returns a new ProfileCache.
func NewProfileCache(rdb *redis.Client, ttl time.Duration) *ProfileCache {
	return &ProfileCache{rdb: rdb, ttl: ttl}
}

// Get returns the cached profile or nil if miss.
func (c *ProfileCache) Get(ctx context.Context, userID int64) (*dom.Profile, error) {
	b, err := c.rdb.Get(ctx, profileKey(userID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var p dom.Profile
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Set stores the profile in cache.
func (c *ProfileCache) Set(ctx context.Context, userID int64, p dom.Profile) error {
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, profileKey(userID), b, c.ttl).Err()
}

// Invalidate removes the cached profile (cache invalidation on write).
func (c *ProfileCache) Invalidate(ctx context.Context, userID int64) error {
	return c.rdb.Del(ctx, profileKey(userID)).Err()
}

func profileKey(userID int64) string {
	return keyProfile + strconv.FormatInt(userID, 10)
}
