package scraper

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
)

const cacheKeyPrefix = "quotescraper:page:"

// PageCache keeps rendered page text in Redis so repeated runs against the
// same URL skip the browser. A nil *PageCache disables caching.
type PageCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPageCache returns nil when addr is empty.
func NewPageCache(addr, password string, db int, ttl time.Duration) *PageCache {
	if addr == "" {
		return nil
	}
	return &PageCache{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		ttl: ttl,
	}
}

// Key names the cache entry of url as read by source.
func (c *PageCache) Key(source, url string) string {
	return cacheKeyPrefix + source + ":" + url
}

func (c *PageCache) Ping(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

func (c *PageCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}

// Memoize returns the cached value for key or stores the result of fn.
// Cache errors never fail the call; fn is simply run.
func Memoize[T any](ctx context.Context, c *PageCache, key string, fn func() (T, error)) (T, bool, error) {
	var result T
	if c == nil {
		result, err := fn()
		return result, false, err
	}

	cached, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		if jsonErr := json.Unmarshal(cached, &result); jsonErr == nil {
			return result, true, nil
		}
	}

	result, err = fn()
	if err != nil {
		return result, false, err
	}

	if data, err := json.Marshal(result); err == nil {
		c.client.Set(ctx, key, data, c.ttl)
	}
	return result, false, nil
}
