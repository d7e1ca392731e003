package cache

import (
	"strings"
	"testing"
	"time"
)

func TestCacheKey(t *testing.T) {
	a := CacheKey("https://example.com/a")
	b := CacheKey("https://example.com/b")

	if a == b {
		t.Error("Expected different keys for different URLs")
	}
	if a != CacheKey("https://example.com/a") {
		t.Error("Expected stable keys")
	}
	if !strings.HasPrefix(a, "verinex:v1:fetch:") {
		t.Errorf("Unexpected key prefix: %s", a)
	}
}

func TestMemoryCache_SetGetDelete(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	value := []byte("valor")
	if err := c.Set("k", value, 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	value[0] = 'X'

	got, ok := c.Get("k")
	if !ok || string(got) != "valor" {
		t.Fatalf("Expected stored copy %q, got %q (found=%v)", "valor", got, ok)
	}

	if err := c.Delete("k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok := c.Get("k"); ok {
		t.Error("Expected key to be deleted")
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	_ = c.Set("short", []byte("x"), time.Millisecond)
	_ = c.Set("forever", []byte("y"), NoExpiration)
	time.Sleep(5 * time.Millisecond)

	if _, ok := c.Get("short"); ok {
		t.Error("Expected expired entry to be gone")
	}
	if _, ok := c.Get("forever"); !ok {
		t.Error("Expected non-expiring entry to remain")
	}
}

func TestDiskCache_Persistence(t *testing.T) {
	dir := t.TempDir()

	c := NewDiskCache(dir, time.Hour)
	if err := c.Set("verinex:v1:fetch:abc", []byte("conteúdo"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	// A fresh instance over the same directory sees the entry
	reopened := NewDiskCache(dir, time.Hour)
	got, ok := reopened.Get("verinex:v1:fetch:abc")
	if !ok || string(got) != "conteúdo" {
		t.Fatalf("Expected persisted value, got %q (found=%v)", got, ok)
	}
}

func TestDiskCache_ExpiryAndNoExpiration(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Hour)

	_ = c.Set("old", []byte("x"), time.Millisecond)
	_ = c.Set("theme", []byte("dark"), NoExpiration)
	time.Sleep(5 * time.Millisecond)

	if _, ok := c.Get("old"); ok {
		t.Error("Expected expired entry to be gone")
	}
	if got, ok := c.Get("theme"); !ok || string(got) != "dark" {
		t.Errorf("Expected non-expiring entry, got %q (found=%v)", got, ok)
	}
}

func TestDiskCache_DeleteMissing(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Hour)
	if err := c.Delete("missing"); err != nil {
		t.Errorf("Expected no error deleting a missing key, got %v", err)
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()

	disk := NewDiskCache(dir, time.Hour)
	_ = disk.Set("k", []byte("v"), 0)

	layered := &LayeredCache{
		memory: NewMemoryCache(time.Minute, time.Minute),
		disk:   disk,
	}

	if got, ok := layered.Get("k"); !ok || string(got) != "v" {
		t.Fatalf("Expected disk hit, got %q (found=%v)", got, ok)
	}
	if _, ok := layered.memory.Get("k"); !ok {
		t.Error("Expected disk hit to be promoted to memory")
	}

	if err := layered.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, ok := layered.Get("k"); ok {
		t.Error("Expected cache to be empty after Clear")
	}
}
