package catalog

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "artist_search:"

// Cache keeps successful Last.fm answers in Redis.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

func cacheKey(query string) string {
	return cacheKeyPrefix + strings.ToLower(query)
}

// Get returns (nil, false, nil) on a miss.
func (c *Cache) Get(ctx context.Context, query string) ([]Artist, bool, error) {
	raw, err := c.rdb.Get(ctx, cacheKey(query)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var artists []Artist
	if err := json.Unmarshal(raw, &artists); err != nil {
		return nil, false, err
	}
	return artists, true, nil
}

func (c *Cache) Set(ctx context.Context, query string, artists []Artist) error {
	raw, err := json.Marshal(artists)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, cacheKey(query), raw, c.ttl).Err()
}
