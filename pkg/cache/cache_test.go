package cache

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestFileCacheRoundTrip(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error: %v", err)
	}
	defer c.Close()

	ctx := context.Background()
	key := RenderKey("fsm", "some definition", "circle", "tex")

	if _, ok, err := c.Get(ctx, key); err != nil || ok {
		t.Fatalf("Get() before Set = (ok=%v, err=%v), want miss", ok, err)
	}

	if err := c.Set(ctx, key, []byte("rendered output"), 0); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	data, ok, err := c.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if !ok || string(data) != "rendered output" {
		t.Errorf("Get() = (%q, %v), want stored value", data, ok)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error: %v", err)
	}
	defer c.Close()

	ctx := context.Background()
	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	if _, ok, err := c.Get(ctx, "k"); err != nil || ok {
		t.Errorf("Get() after expiry = (ok=%v, err=%v), want miss", ok, err)
	}
}

func TestFileCacheDelete(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error: %v", err)
	}
	defer c.Close()

	ctx := context.Background()
	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("Get() after Delete should miss")
	}

	// Deleting again is not an error.
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete() of missing key error: %v", err)
	}
}

func TestNullCache(t *testing.T) {
	c := NewNullCache()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if _, ok, err := c.Get(ctx, "k"); err != nil || ok {
		t.Errorf("Get() = (ok=%v, err=%v), null cache never hits", ok, err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete() error: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close() error: %v", err)
	}
}

func TestRenderKey(t *testing.T) {
	a := RenderKey("fsm", "def", "circle", "tex")
	b := RenderKey("fsm", "def", "circle", "tex")
	if a != b {
		t.Error("RenderKey() should be deterministic")
	}

	if !strings.HasPrefix(a, "render:fsm:") {
		t.Errorf("RenderKey() = %q, want render:fsm: prefix", a)
	}

	variants := []string{
		RenderKey("digraph", "def", "circle", "tex"),
		RenderKey("fsm", "other", "circle", "tex"),
		RenderKey("fsm", "def", "grid", "tex"),
		RenderKey("fsm", "def", "circle", "dot"),
	}
	for i, v := range variants {
		if v == a {
			t.Errorf("variant %d should produce a different key", i)
		}
	}
}

func TestHash(t *testing.T) {
	h := Hash([]byte("hello"))
	if len(h) != 64 {
		t.Errorf("Hash() length = %d, want 64", len(h))
	}
	if h != Hash([]byte("hello")) {
		t.Error("Hash() should be deterministic")
	}
	if h == Hash([]byte("world")) {
		t.Error("Hash() of different inputs should differ")
	}
}
