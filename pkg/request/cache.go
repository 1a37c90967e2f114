package request

import (
	"container/list"
	"time"
)

const (
	DefaultCacheTTL        = 15 * time.Second
	DefaultCacheMaxEntries = 100
)

type cacheEntry struct {
	key       string
	value     any
	expiresAt time.Time
}

// Cache is a bounded per-key TTL cache used to de-duplicate read requests.
// Eviction is insertion-order (oldest inserted first), not access-order.
// It is not safe for concurrent mutation, its correctness is scoped to one
// owning provider.
type Cache struct {
	ttl        time.Duration
	maxEntries int
	entries    map[string]*list.Element
	order      *list.List

	now func() time.Time
}

type CacheOption func(*Cache)

func WithCacheTTL(d time.Duration) CacheOption {
	return func(c *Cache) { c.ttl = d }
}

func WithCacheMaxEntries(n int) CacheOption {
	return func(c *Cache) { c.maxEntries = n }
}

func NewCache(opts ...CacheOption) *Cache {
	c := &Cache{
		ttl:        DefaultCacheTTL,
		maxEntries: DefaultCacheMaxEntries,
		entries:    make(map[string]*list.Element),
		order:      list.New(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached value. An entry past its expiry is treated as
// absent and evicted on that access.
func (c *Cache) Get(key string) (any, bool) {
	el, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	entry := el.Value.(*cacheEntry)
	if !c.now().Before(entry.expiresAt) {
		c.order.Remove(el)
		delete(c.entries, key)
		return nil, false
	}
	return entry.value, true
}

// Set stores value under key. Inserting a new key at capacity first evicts
// the oldest-inserted entry. Updating an existing key refreshes value and
// expiry in place and never evicts.
func (c *Cache) Set(key string, value any) {
	expiresAt := c.now().Add(c.ttl)
	if el, ok := c.entries[key]; ok {
		entry := el.Value.(*cacheEntry)
		entry.value = value
		entry.expiresAt = expiresAt
		return
	}
	if c.order.Len() >= c.maxEntries {
		oldest := c.order.Front()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*cacheEntry).key)
		}
	}
	c.entries[key] = c.order.PushBack(&cacheEntry{key: key, value: value, expiresAt: expiresAt})
}

func (c *Cache) Delete(key string) bool {
	el, ok := c.entries[key]
	if !ok {
		return false
	}
	c.order.Remove(el)
	delete(c.entries, key)
	return true
}

func (c *Cache) Clear() {
	c.entries = make(map[string]*list.Element)
	c.order.Init()
}

func (c *Cache) Len() int {
	return c.order.Len()
}
