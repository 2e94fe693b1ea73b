package enrich

import (
	"sync"
	"time"
)

// Entry is one cached enrichment result. Found=false records a negative
// result (the backend had nothing for this key) so repeat misses are not
// re-dispatched. Entries are replaced whole, never mutated in place.
type Entry struct {
	Key       string    `json:"key"`
	Found     bool      `json:"found"`
	Fields    Fields    `json:"fields"`
	FetchedAt time.Time `json:"fetchedAt"`
}

// Store is the persistent cache boundary: a key→entry store surviving
// process restarts. Writes are last-writer-wins per key.
type Store interface {
	Get(key string) (Entry, bool, error)
	Put(key string, e Entry) error
}

// Cache is the two-level enrichment cache: an in-process map in front of an
// optional persistent store. Safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]Entry
	store   Store
}

// NewCache builds a cache over an optional persistent store (nil disables
// persistence).
func NewCache(store Store) *Cache {
	return &Cache{
		entries: make(map[string]Entry),
		store:   store,
	}
}

// Lookup resolves a key from memory first, then the persistent store,
// promoting store hits into memory. A store error degrades to a miss: the
// cache is best-effort by contract.
func (c *Cache) Lookup(key string) (Entry, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return e, true
	}
	if c.store == nil {
		return Entry{}, false
	}
	e, ok, err := c.store.Get(key)
	if err != nil || !ok {
		return Entry{}, false
	}
	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
	return e, true
}

// Put stores the entry in memory and, when configured, the persistent
// store. The store error is returned for logging but the in-memory write
// always succeeds first.
func (c *Cache) Put(e Entry) error {
	c.mu.Lock()
	c.entries[e.Key] = e
	c.mu.Unlock()
	if c.store == nil {
		return nil
	}
	return c.store.Put(e.Key, e)
}
