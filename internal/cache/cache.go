package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"github.com/oukeidos/codeglot/internal/unit"
)

// ParseCache is an in-memory cache of extraction results keyed by file
// path and content hash. Changing either the path or the content yields
// a different key, so stale entries are never served; they are simply
// never looked up again.
type ParseCache struct {
	mu      sync.RWMutex
	entries map[string]*unit.ParseResult
}

// New creates an empty cache.
func New() *ParseCache {
	return &ParseCache{entries: make(map[string]*unit.ParseResult)}
}

// GenerateKey derives the cache key for a file. The key embeds both the
// path and a digest over path and content.
func GenerateKey(path, content string) string {
	h := sha256.New()
	h.Write([]byte(path))
	h.Write([]byte(content))
	return path + ":" + hex.EncodeToString(h.Sum(nil))
}

// Get retrieves a cached result. The returned value is a copy; mutating
// it does not affect the cache.
func (c *ParseCache) Get(key string) (*unit.ParseResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	res, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return res.Clone(), true
}

// Set stores a copy of result under key, replacing any previous entry.
func (c *ParseCache) Set(key string, result *unit.ParseResult) {
	if result == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = result.Clone()
}

// Contains reports whether key is present.
func (c *ParseCache) Contains(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.entries[key]
	return ok
}

// Remove deletes the entry for key, if any.
func (c *ParseCache) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Clear drops all entries.
func (c *ParseCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*unit.ParseResult)
}

// Len returns the number of cached entries.
func (c *ParseCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
