// Package cache holds a bounded in-memory cache of worker responses, keyed
// by request method and path.
package cache

import (
	"sync"

	"github.com/golang/groupcache/lru"

	"lambdagate/internal/wire"
)

// Cache is a concurrency-safe LRU over wire.Response values. groupcache's
// lru.Cache is not itself safe for concurrent use, so every access goes
// through a mutex.
type Cache struct {
	mu       sync.Mutex
	inner    *lru.Cache
	disabled bool
}

// New builds a cache with the given capacity. A non-positive capacity
// disables caching: Get always misses and Put is a no-op.
func New(capacity int) *Cache {
	if capacity <= 0 {
		return &Cache{disabled: true}
	}
	return &Cache{inner: lru.New(capacity)}
}

func Key(method, path string) string {
	return method + ":" + path
}

func (c *Cache) Get(key string) (wire.Response, bool) {
	if c.disabled {
		return wire.Response{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.inner.Get(key)
	if !ok {
		return wire.Response{}, false
	}
	return v.(wire.Response), true
}

func (c *Cache) Put(key string, resp wire.Response) {
	if c.disabled {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inner.Add(key, resp)
}
