package storage

import (
	"context"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"
)

type cacheEntry struct {
	value  []byte
	exists bool
}

// CachedStore is a read-through LRU cache in front of another Store.
// Writes go to the backend first; the cache only reflects successful writes.
type CachedStore struct {
	backend Store
	cache   *lru.Cache[string, cacheEntry]
	logger  *slog.Logger
}

// NewCachedStore wraps backend with an LRU of the given size
func NewCachedStore(backend Store, size int, logger *slog.Logger) (*CachedStore, error) {
	cache, err := lru.New[string, cacheEntry](size)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedStore{backend: backend, cache: cache, logger: logger}, nil
}

func (c *CachedStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if entry, ok := c.cache.Get(key); ok {
		c.logger.Debug("cache.get.hit", "key", key)
		return append([]byte(nil), entry.value...), entry.exists, nil
	}

	value, exists, err := c.backend.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	c.logger.Debug("cache.get.miss", "key", key, "exists", exists)
	c.cache.Add(key, cacheEntry{value: append([]byte(nil), value...), exists: exists})
	return value, exists, nil
}

func (c *CachedStore) Set(ctx context.Context, key string, value []byte) error {
	if err := c.backend.Set(ctx, key, value); err != nil {
		c.cache.Remove(key)
		return err
	}
	c.cache.Add(key, cacheEntry{value: append([]byte(nil), value...), exists: true})
	return nil
}

func (c *CachedStore) Remove(ctx context.Context, key string) error {
	if err := c.backend.Remove(ctx, key); err != nil {
		c.cache.Remove(key)
		return err
	}
	c.cache.Add(key, cacheEntry{exists: false})
	return nil
}

// Close purges the cache and closes the backend
func (c *CachedStore) Close() error {
	c.cache.Purge()
	return c.backend.Close()
}
