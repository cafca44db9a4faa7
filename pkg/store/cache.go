package store

import (
	"container/list"
	"sync"
	"time"
)

// DefaultCacheCapacity and DefaultCacheTTL bound the decrypted-entry cache
// when the caller does not configure it explicitly.
const (
	DefaultCacheCapacity = 64
	DefaultCacheTTL      = 60 * time.Second
)

// cacheRecord is the internal (key, value, insertedAt) triple.
type cacheRecord struct {
	key        string
	entry      *Entry
	insertedAt time.Time
}

// EntryCache is a bounded, time-boxed, read-through cache of decrypted
// entries keyed by record path. Size never exceeds capacity: the
// least-recently-used record is evicted first. A record older than the TTL
// is treated as absent on lookup even if it was never evicted, and is
// removed on that lookup. All structural mutation is serialized by a
// single mutex so concurrent Get/Put/Invalidate observe one consistent
// LRU order.
type EntryCache struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	order    *list.List // front = most recently used
	items    map[string]*list.Element

	now func() time.Time // injectable for tests
}

// NewEntryCache creates a cache with the given capacity and TTL.
// Non-positive inputs fall back to the defaults.
func NewEntryCache(capacity int, ttl time.Duration) *EntryCache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &EntryCache{
		capacity: capacity,
		ttl:      ttl,
		order:    list.New(),
		items:    make(map[string]*list.Element),
		now:      time.Now,
	}
}

// Get returns the cached entry for key, promoting it to most recently
// used. A key that is absent, or present but older than the TTL, is a
// miss; the stale record is removed on a TTL miss.
func (c *EntryCache) Get(key string) (*Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return nil, false
	}
	rec := elem.Value.(*cacheRecord)
	if c.now().Sub(rec.insertedAt) > c.ttl {
		c.removeLocked(elem)
		return nil, false
	}
	c.order.MoveToFront(elem)
	return rec.entry, true
}

// Put inserts or overwrites the entry for key, marking it most recently
// used and resetting its age. If the cache then exceeds capacity, the
// least-recently-used record is evicted.
func (c *EntryCache) Put(key string, entry *Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		rec := elem.Value.(*cacheRecord)
		rec.entry = entry
		rec.insertedAt = c.now()
		c.order.MoveToFront(elem)
		return
	}

	elem := c.order.PushFront(&cacheRecord{key: key, entry: entry, insertedAt: c.now()})
	c.items[key] = elem

	if c.order.Len() > c.capacity {
		c.removeLocked(c.order.Back())
	}
}

// Invalidate removes key unconditionally; no-op if absent.
func (c *EntryCache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.removeLocked(elem)
	}
}

// Clear empties the cache. Used on full reload or security lock.
func (c *EntryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.order.Init()
	c.items = make(map[string]*list.Element)
}

// Len returns the number of cached records, expired or not.
func (c *EntryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *EntryCache) removeLocked(elem *list.Element) {
	rec := c.order.Remove(elem).(*cacheRecord)
	delete(c.items, rec.key)
}
