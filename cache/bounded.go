// Package cache keeps recently fetched payloads in memory.
package cache

import (
	"slices"
	"sync"
)

// Bounded is a fixed capacity cache.
// When full, the oldest inserted key is evicted, no matter how often it was read.
// Setting an existing key changes nothing, not even its age.
type Bounded[K comparable, V any] struct {
	// lock protects values and order
	lock sync.Mutex
	// capacity is the max number of entries
	capacity int
	// values per key
	values map[K]V
	// order of insertion, oldest first
	order []K
	// onEvict, if any, is called after an eviction, outside of lock
	onEvict func(K, V)
}

// NewBounded returns an empty cache. Capacity is at least 1
func NewBounded[K comparable, V any](capacity int) *Bounded[K, V] {
	if capacity < 1 {
		capacity = 1
	}

	return &Bounded[K, V]{
		capacity: capacity,
		values:   make(map[K]V, capacity),
		order:    make([]K, 0, capacity),
	}
}

// OnEvict sets the eviction callback
func (c *Bounded[K, V]) OnEvict(callback func(K, V)) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.onEvict = callback
}

// Get returns the value for key, if any
func (c *Bounded[K, V]) Get(key K) (V, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()
	value, found := c.values[key]
	return value, found
}

// Has returns true if key is in cache
func (c *Bounded[K, V]) Has(key K) bool {
	_, found := c.Get(key)
	return found
}

// Set inserts value if key is not in cache yet, evicting the oldest entry if full.
// It returns true if value was inserted.
func (c *Bounded[K, V]) Set(key K, value V) bool {
	c.lock.Lock()
	if _, found := c.values[key]; found {
		c.lock.Unlock()
		return false
	}

	var evicted bool
	var evictedKey K
	var evictedValue V
	if len(c.order) >= c.capacity {
		evictedKey = c.order[0]
		evictedValue = c.values[evictedKey]
		evicted = true
		delete(c.values, evictedKey)
		c.order = slices.Delete(c.order, 0, 1)
	}

	c.values[key] = value
	c.order = append(c.order, key)
	callback := c.onEvict
	c.lock.Unlock()

	if evicted && callback != nil {
		callback(evictedKey, evictedValue)
	}

	return true
}

// Size returns the number of entries
func (c *Bounded[K, V]) Size() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return len(c.values)
}

// Capacity returns the max number of entries
func (c *Bounded[K, V]) Capacity() int {
	return c.capacity
}

// Keys returns keys, oldest first
func (c *Bounded[K, V]) Keys() []K {
	c.lock.Lock()
	defer c.lock.Unlock()
	return slices.Clone(c.order)
}
