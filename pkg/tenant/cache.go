package tenant

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// Cache stores resolved tenants by ID.
type Cache interface {
	// Get retrieves a tenant from cache by ID.
	Get(ctx context.Context, id int64) (*Tenant, bool)

	// Set stores a tenant in cache with the given TTL.
	Set(ctx context.Context, id int64, t *Tenant, ttl time.Duration) error

	// Delete removes a tenant from cache.
	Delete(ctx context.Context, id int64)

	// Close releases any resources held by the cache.
	Close() error
}

// DefaultCacheSize is the default maximum number of tenants kept in memory.
const DefaultCacheSize = 1000

type memoryEntry struct {
	id        int64
	tenant    *Tenant
	expiresAt time.Time
}

// memoryCache is an LRU cache with per-entry expiry and a background sweeper.
type memoryCache struct {
	mu      sync.Mutex
	items   map[int64]*list.Element
	order   *list.List // front = most recently used
	maxSize int
	now     func() time.Time

	stop   chan struct{}
	done   chan struct{}
	closed bool
}

// NewMemoryCache creates an in-memory cache holding up to maxSize tenants.
// Non-positive sizes fall back to DefaultCacheSize.
func NewMemoryCache(maxSize int) Cache {
	if maxSize <= 0 {
		maxSize = DefaultCacheSize
	}

	c := &memoryCache{
		items:   make(map[int64]*list.Element),
		order:   list.New(),
		maxSize: maxSize,
		now:     time.Now,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go c.sweep(time.Minute)

	return c
}

func (c *memoryCache) Get(_ context.Context, id int64) (*Tenant, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[id]
	if !ok {
		return nil, false
	}
	entry := el.Value.(*memoryEntry)
	if c.now().After(entry.expiresAt) {
		c.removeElement(el)
		return nil, false
	}
	c.order.MoveToFront(el)
	return entry.tenant, true
}

func (c *memoryCache) Set(_ context.Context, id int64, t *Tenant, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.now().Add(ttl)
	if el, ok := c.items[id]; ok {
		entry := el.Value.(*memoryEntry)
		entry.tenant = t
		entry.expiresAt = expiresAt
		c.order.MoveToFront(el)
		return nil
	}

	if c.order.Len() >= c.maxSize {
		if oldest := c.order.Back(); oldest != nil {
			c.removeElement(oldest)
		}
	}
	c.items[id] = c.order.PushFront(&memoryEntry{id: id, tenant: t, expiresAt: expiresAt})
	return nil
}

func (c *memoryCache) Delete(_ context.Context, id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[id]; ok {
		c.removeElement(el)
	}
}

func (c *memoryCache) removeElement(el *list.Element) {
	entry := c.order.Remove(el).(*memoryEntry)
	delete(c.items, entry.id)
}

func (c *memoryCache) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	defer close(c.done)

	for {
		select {
		case <-ticker.C:
			c.removeExpired()
		case <-c.stop:
			return
		}
	}
}

func (c *memoryCache) removeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for el := c.order.Back(); el != nil; {
		prev := el.Prev()
		if now.After(el.Value.(*memoryEntry).expiresAt) {
			c.removeElement(el)
		}
		el = prev
	}
}

// Close stops the sweeper and waits for it to exit. Safe to call twice.
func (c *memoryCache) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	close(c.stop)
	<-c.done
	return nil
}

// noOpCache never stores anything.
type noOpCache struct{}

// NewNoOpCache creates a cache that doesn't cache.
func NewNoOpCache() Cache {
	return noOpCache{}
}

func (noOpCache) Get(context.Context, int64) (*Tenant, bool) { return nil, false }

func (noOpCache) Set(context.Context, int64, *Tenant, time.Duration) error { return nil }

func (noOpCache) Delete(context.Context, int64) {}

func (noOpCache) Close() error { return nil }
