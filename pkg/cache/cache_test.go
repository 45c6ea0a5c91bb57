package cache

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	key := Key("svg", "doc-hash", "handdrawn")

	// Miss before set
	if _, found, err := c.Get(ctx, key); err != nil || found {
		t.Fatalf("Get before Set: found=%v err=%v", found, err)
	}

	if err := c.Set(ctx, key, []byte("artifact"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}

	data, found, err := c.Get(ctx, key)
	if err != nil || !found {
		t.Fatalf("Get: found=%v err=%v", found, err)
	}
	if string(data) != "artifact" {
		t.Errorf("data = %q, want %q", data, "artifact")
	}

	if err := c.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, found, _ := c.Get(ctx, key); found {
		t.Error("key still present after Delete")
	}

	// Deleting a missing key is fine.
	if err := c.Delete(ctx, key); err != nil {
		t.Errorf("Delete missing key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	key := Key("svg", "x")
	if err := c.Set(ctx, key, []byte("v"), time.Millisecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(10 * time.Millisecond)

	if _, found, _ := c.Get(ctx, key); found {
		t.Error("expired entry should be a miss")
	}
}

func TestFileCacheClearAndStats(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	for _, k := range []string{Key("svg", 1), Key("png", 2), Key("dot", 3)} {
		if err := c.Set(ctx, k, []byte("data"), 0); err != nil {
			t.Fatal(err)
		}
	}

	count, size, err := c.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
	if size == 0 {
		t.Error("size = 0, want > 0")
	}

	removed, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if removed != 3 {
		t.Errorf("removed = %d, want 3", removed)
	}
	count, _, err = c.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("count after clear = %d, want 0", count)
	}
}

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()

	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, found, err := c.Get(ctx, "k"); err != nil || found {
		t.Errorf("null cache returned a hit: found=%v err=%v", found, err)
	}
}

func TestKey(t *testing.T) {
	a := Key("svg", "doc", true)
	b := Key("svg", "doc", true)
	c := Key("svg", "doc", false)

	if a != b {
		t.Error("identical inputs should produce identical keys")
	}
	if a == c {
		t.Error("different inputs should produce different keys")
	}
	if !strings.HasPrefix(a, "svg:") {
		t.Errorf("key %q missing prefix", a)
	}
}

func TestHash(t *testing.T) {
	h := Hash([]byte("content"))
	if len(h) != 64 {
		t.Errorf("hash length = %d, want 64", len(h))
	}
	if h != Hash([]byte("content")) {
		t.Error("hash should be deterministic")
	}
}
