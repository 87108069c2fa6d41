package cache

import (
	"container/list"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/segmerge/internal/resource"
)

// LRU is a least-recently-used cache of byte slices bounded by their total
// length. It is safe for concurrent use.
type LRU[K comparable] struct {
	mu        sync.Mutex
	capacity  int64
	size      int64
	items     map[K]*list.Element
	evictList *list.List
	rc        *resource.Controller

	hits   atomic.Int64
	misses atomic.Int64
}

type entry[K comparable] struct {
	key   K
	value []byte
}

// NewLRU creates a cache holding at most capacity bytes. rc may be nil.
func NewLRU[K comparable](capacity int64, rc *resource.Controller) *LRU[K] {
	return &LRU[K]{
		capacity:  capacity,
		items:     make(map[K]*list.Element),
		evictList: list.New(),
		rc:        rc,
	}
}

// Get returns the cached value for key.
func (c *LRU[K]) Get(key K) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.hits.Add(1)
		c.evictList.MoveToFront(el)
		return el.Value.(*entry[K]).value, true
	}
	c.misses.Add(1)
	return nil, false
}

// Set caches value under key, evicting old entries as needed. It reports
// whether the value was cached.
func (c *LRU[K]) Set(key K, value []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := int64(len(value))
	if n > c.capacity {
		c.remove(key)
		return false
	}

	if el, ok := c.items[key]; ok {
		ent := el.Value.(*entry[K])
		old := int64(len(ent.value))
		if n > old {
			if err := c.rc.ReserveCache(n - old); err != nil {
				return false
			}
		} else {
			c.rc.ReleaseCache(old - n)
		}
		ent.value = value
		c.size += n - old
		c.evictList.MoveToFront(el)
		c.evict()
		return true
	}

	for c.size+n > c.capacity {
		c.removeElement(c.evictList.Back())
	}

	if err := c.rc.ReserveCache(n); err != nil {
		return false
	}

	c.items[key] = c.evictList.PushFront(&entry[K]{key: key, value: value})
	c.size += n

	return true
}

// Remove drops key from the cache.
func (c *LRU[K]) Remove(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remove(key)
}

func (c *LRU[K]) remove(key K) {
	if el, ok := c.items[key]; ok {
		c.removeElement(el)
	}
}

// Invalidate removes every entry whose key matches the predicate.
func (c *LRU[K]) Invalidate(match func(K) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, el := range c.items {
		if match(key) {
			c.removeElement(el)
		}
	}
}

// Clear removes all entries.
func (c *LRU[K]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rc.ReleaseCache(c.size)
	clear(c.items)
	c.evictList.Init()
	c.size = 0
}

// Keys returns the cached keys from most to least recently used.
func (c *LRU[K]) Keys() []K {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]K, 0, len(c.items))
	for el := c.evictList.Front(); el != nil; el = el.Next() {
		keys = append(keys, el.Value.(*entry[K]).key)
	}
	return keys
}

// Len returns the number of entries.
func (c *LRU[K]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Size returns the cached bytes.
func (c *LRU[K]) Size() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

// Stats returns the hit and miss counters.
func (c *LRU[K]) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *LRU[K]) evict() {
	for c.size > c.capacity && c.evictList.Len() > 0 {
		c.removeElement(c.evictList.Back())
	}
}

func (c *LRU[K]) removeElement(el *list.Element) {
	c.evictList.Remove(el)
	ent := el.Value.(*entry[K])
	delete(c.items, ent.key)
	n := int64(len(ent.value))
	c.size -= n
	c.rc.ReleaseCache(n)
}
