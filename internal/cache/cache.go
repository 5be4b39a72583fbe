// Package cache provides a bounded, thread-safe mapping from file id to
// decoded bytes with strict LRU eviction on access (get and put both
// count), backed by hashicorp/golang-lru.
package cache

import (
	lru "github.com/hashicorp/golang-lru"

	"chunkvault/internal/chunkid"
)

// Cache is a bounded LRU cache from FileID to fully decoded file bytes. It
// is never the source of truth for persistence — only an optional
// fast path populated by store_file and get_file.
type Cache struct {
	inner *lru.Cache
}

// New creates a Cache with the given positive capacity.
func New(capacity int) (*Cache, error) {
	inner, err := lru.New(capacity)
	if err != nil {
		return nil, err
	}
	return &Cache{inner: inner}, nil
}

// Get returns the cached bytes for id, touching LRU recency, or (nil,
// false) on a miss.
func (c *Cache) Get(id chunkid.FileID) ([]byte, bool) {
	v, ok := c.inner.Get(id)
	if !ok {
		return nil, false
	}
	return v.([]byte), true
}

// Put inserts or replaces the cached bytes for id, touching LRU recency and
// evicting the least-recently-used entry if the cache is at capacity.
func (c *Cache) Put(id chunkid.FileID, data []byte) {
	c.inner.Add(id, data)
}

// Invalidate removes id from the cache, if present. A no-op otherwise.
func (c *Cache) Invalidate(id chunkid.FileID) {
	c.inner.Remove(id)
}

// Len returns the number of entries currently cached.
func (c *Cache) Len() int {
	return c.inner.Len()
}
