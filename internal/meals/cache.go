package meals

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const catalogCacheName = "meals"

// KVStore is the subset of the redis client the cache relies on.
type KVStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CatalogKey(name string) string
}

// Cache keeps a JSON copy of the catalog in redis. A nil Cache is valid and
// always misses.
type Cache struct {
	store KVStore
	ttl   time.Duration
}

func NewCache(store KVStore, ttl time.Duration) *Cache {
	if store == nil {
		return nil
	}
	return &Cache{store: store, ttl: ttl}
}

// Get returns the cached catalog. ok is false on a miss.
func (c *Cache) Get(ctx context.Context) ([]Meal, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	raw, err := c.store.Get(ctx, c.key())
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var out []Meal
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, false, err
	}
	return out, true, nil
}

func (c *Cache) Set(ctx context.Context, list []Meal) error {
	if c == nil {
		return nil
	}
	payload, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, c.key(), string(payload), c.ttl)
}

// Invalidate drops the cached catalog.
func (c *Cache) Invalidate(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.store.Del(ctx, c.key())
}

func (c *Cache) key() string {
	return c.store.CatalogKey(catalogCacheName)
}
