// Package cache is an in-process TTL store used for the offer list cache
// when Redis is not available.
package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

type Item struct {
	Value      []byte
	Expiration int64
}

type Cache struct {
	items map[string]Item
	mu    sync.RWMutex
	now   func() time.Time
	stop  chan struct{}
	once  sync.Once
}

func NewCache(gcInterval time.Duration) *Cache {
	cache := &Cache{
		items: make(map[string]Item),
		now:   time.Now,
		stop:  make(chan struct{}),
	}
	go cache.startGC(gcInterval)
	return cache
}

func (c *Cache) IsEnabled() bool {
	return true
}

func (c *Cache) Ping(context.Context) error {
	return nil
}

func (c *Cache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = Item{
		Value:      append([]byte(nil), value...),
		Expiration: c.now().Add(ttl).UnixNano(),
	}
	return nil
}

func (c *Cache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, found := c.items[key]
	if !found || c.now().UnixNano() > item.Expiration {
		return nil, false, nil
	}

	return item.Value, true, nil
}

// DeleteByPattern supports exact keys and a single trailing "*".
func (c *Cache) DeleteByPattern(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	prefix, wildcard := strings.CutSuffix(pattern, "*")
	for k := range c.items {
		if k == pattern || (wildcard && strings.HasPrefix(k, prefix)) {
			delete(c.items, k)
		}
	}
	return nil
}

func (c *Cache) Close() error {
	c.once.Do(func() { close(c.stop) })
	return nil
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *Cache) startGC(interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.purgeExpired()
		}
	}
}

func (c *Cache) purgeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now().UnixNano()
	for k, v := range c.items {
		if now > v.Expiration {
			delete(c.items, k)
		}
	}
}
