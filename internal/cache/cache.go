package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// NoExpiration keeps an entry until it is deleted
const NoExpiration time.Duration = gocache.NoExpiration

// Cache is a byte-oriented key-value store with per-entry TTL.
// A ttl of 0 means the implementation's default.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// CacheKey derives the key under which a fetched URL is cached
func CacheKey(url string) string {
	hash := sha256.Sum256([]byte(url))
	return "verinex:v1:fetch:" + hex.EncodeToString(hash[:])
}
