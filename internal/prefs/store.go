// Package prefs persists the reader's theme and last draft as plain
// string key-value pairs.
package prefs

import (
	"time"

	"github.com/ppiankov/verinex/internal/cache"
)

// Well-known keys
const (
	KeyTheme    = "theme"
	KeyLastText = "verinex_last_text"
)

// Store is a string key-value store
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

// CacheStore adapts a cache.Cache into a Store whose entries never expire
type CacheStore struct {
	cache  cache.Cache
	prefix string
}

// NewCacheStore wraps c
func NewCacheStore(c cache.Cache) *CacheStore {
	return &CacheStore{cache: c}
}

// NewDiskStore creates a store that survives restarts
func NewDiskStore(dir string) *CacheStore {
	return NewCacheStore(cache.NewDiskCache(dir, cache.NoExpiration))
}

// NewMemoryStore creates a process-local store
func NewMemoryStore() *CacheStore {
	return NewCacheStore(cache.NewMemoryCache(cache.NoExpiration, 10*time.Minute))
}

// WithPrefix returns a view of the store whose keys are namespaced by prefix.
// The server uses it to keep one set of preferences per browser session.
func (s *CacheStore) WithPrefix(prefix string) *CacheStore {
	return &CacheStore{cache: s.cache, prefix: s.prefix + prefix}
}

// Get returns the value stored under key
func (s *CacheStore) Get(key string) (string, bool) {
	b, ok := s.cache.Get(s.prefix + key)
	if !ok {
		return "", false
	}
	return string(b), true
}

// Set stores value under key
func (s *CacheStore) Set(key, value string) error {
	return s.cache.Set(s.prefix+key, []byte(value), cache.NoExpiration)
}

// Delete removes key
func (s *CacheStore) Delete(key string) error {
	return s.cache.Delete(s.prefix + key)
}
