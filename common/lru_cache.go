// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package common

import "unsafe"

// LruCache is a fixed-capacity map evicting the least recently used entry
// when full. It is not safe for concurrent use.
type LruCache[K comparable, V any] struct {
	cache    map[K]*entry[K, V]
	capacity int
	head     *entry[K, V] // most recently used
	tail     *entry[K, V] // least recently used
}

// NewLruCache creates a cache holding at most capacity entries. A
// capacity below one is raised to one.
func NewLruCache[K comparable, V any](capacity int) *LruCache[K, V] {
	if capacity < 1 {
		capacity = 1
	}
	return &LruCache[K, V]{
		cache:    make(map[K]*entry[K, V], capacity),
		capacity: capacity,
	}
}

// Get returns the cached value and marks it as recently used.
func (c *LruCache[K, V]) Get(key K) (V, bool) {
	item, exists := c.cache[key]
	if !exists {
		var empty V
		return empty, false
	}
	c.touch(item)
	return item.val, true
}

// Set stores the value under the key and marks it as recently used. If a new
// key exceeds the capacity, the least recently used entry is evicted and
// returned.
func (c *LruCache[K, V]) Set(key K, val V) (evictedKey K, evictedValue V, evicted bool) {
	if item, exists := c.cache[key]; exists {
		item.val = val
		c.touch(item)
		return
	}

	var item *entry[K, V]
	if len(c.cache) >= c.capacity {
		item = c.dropLast()
		evictedKey, evictedValue, evicted = item.key, item.val, true
	} else {
		item = new(entry[K, V])
	}
	item.key, item.val = key, val
	c.cache[key] = item
	c.pushFront(item)
	return
}

// Remove deletes the key and returns its value if it was present.
func (c *LruCache[K, V]) Remove(key K) (V, bool) {
	item, exists := c.cache[key]
	if !exists {
		var empty V
		return empty, false
	}
	delete(c.cache, key)
	c.unlink(item)
	return item.val, true
}

// Len returns the number of cached entries.
func (c *LruCache[K, V]) Len() int {
	return len(c.cache)
}

func (c *LruCache[K, V]) Clear() {
	c.cache = make(map[K]*entry[K, V], c.capacity)
	c.head = nil
	c.tail = nil
}

func (c *LruCache[K, V]) touch(item *entry[K, V]) {
	if item == c.head {
		return
	}
	c.unlink(item)
	c.pushFront(item)
}

func (c *LruCache[K, V]) pushFront(item *entry[K, V]) {
	item.prev = nil
	item.next = c.head
	if c.head != nil {
		c.head.prev = item
	}
	c.head = item
	if c.tail == nil {
		c.tail = item
	}
}

func (c *LruCache[K, V]) unlink(item *entry[K, V]) {
	if item.prev != nil {
		item.prev.next = item.next
	} else {
		c.head = item.next
	}
	if item.next != nil {
		item.next.prev = item.prev
	} else {
		c.tail = item.prev
	}
	item.prev = nil
	item.next = nil
}

func (c *LruCache[K, V]) dropLast() *entry[K, V] {
	dropped := c.tail
	delete(c.cache, dropped.key)
	c.unlink(dropped)
	return dropped
}

// GetDynamicMemoryFootprint provides the size of the cache, asking the given
// function for the memory referenced by each value.
func (c *LruCache[K, V]) GetDynamicMemoryFootprint(valueSize func(V) uintptr) *MemoryFootprint {
	size := unsafe.Sizeof(*c)
	for _, item := range c.cache {
		size += unsafe.Sizeof(*item) + valueSize(item.val)
	}
	return NewMemoryFootprint(size)
}

type entry[K comparable, V any] struct {
	key  K
	val  V
	prev *entry[K, V]
	next *entry[K, V]
}
