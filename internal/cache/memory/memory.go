package memory

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache is an in-process TTL cache.
type Cache struct {
	c *gocache.Cache
}

func New(defaultTTL time.Duration) *Cache {
	if defaultTTL <= 0 {
		defaultTTL = 5 * time.Second
	}

	return &Cache{c: gocache.New(defaultTTL, time.Minute)}
}

func (m *Cache) Get(_ context.Context, key string) ([]byte, bool) {
	v, ok := m.c.Get(key)
	if !ok {
		return nil, false
	}

	b, ok := v.([]byte)
	return b, ok
}

func (m *Cache) Set(_ context.Context, key string, val []byte, ttl time.Duration) {
	m.c.Set(key, val, ttl)
}
