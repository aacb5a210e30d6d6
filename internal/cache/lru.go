// Package cache provides a small generic LRU cache for derived data such as
// convolution kernels.
package cache

import "sync"

// node is an entry in the recency list. The head is the most recently used.
type node[K comparable, V any] struct {
	key        K
	value      V
	prev, next *node[K, V]
}

// LRU is a thread-safe cache that evicts the least recently used entry when
// it holds more than limit entries.
type LRU[K comparable, V any] struct {
	mu         sync.Mutex
	entries    map[K]*node[K, V]
	head, tail *node[K, V]
	limit      int
}

// New creates a cache holding at most limit entries. A limit below 1 is
// treated as 1.
func New[K comparable, V any](limit int) *LRU[K, V] {
	return &LRU[K, V]{
		entries: make(map[K]*node[K, V]),
		limit:   max(limit, 1),
	}
}

// Get returns the cached value for key and marks it most recently used.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.moveToFront(n)
	return n.value, true
}

// GetOrCreate returns the cached value or stores and returns create().
// create runs under the cache lock, so it is never called twice for a key.
func (c *LRU[K, V]) GetOrCreate(key K, create func() V) V {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n, ok := c.entries[key]; ok {
		c.moveToFront(n)
		return n.value
	}
	n := &node[K, V]{key: key, value: create()}
	c.entries[key] = n
	c.pushFront(n)
	if len(c.entries) > c.limit {
		oldest := c.tail
		c.unlink(oldest)
		delete(c.entries, oldest.key)
	}
	return n.value
}

// Len returns the number of cached entries.
func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *LRU[K, V]) pushFront(n *node[K, V]) {
	n.prev = nil
	n.next = c.head
	if c.head != nil {
		c.head.prev = n
	}
	c.head = n
	if c.tail == nil {
		c.tail = n
	}
}

func (c *LRU[K, V]) moveToFront(n *node[K, V]) {
	if n == c.head {
		return
	}
	c.unlink(n)
	c.pushFront(n)
}

func (c *LRU[K, V]) unlink(n *node[K, V]) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		c.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		c.tail = n.prev
	}
	n.prev, n.next = nil, nil
}
