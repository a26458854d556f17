package cache

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || hit || data != nil {
		t.Errorf("Get = %q, %v, %v; want miss", data, hit, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete: %v", err)
	}
}

func TestFileCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	if _, hit, _ := c.Get(ctx, "layout:abc"); hit {
		t.Fatal("empty cache reported a hit")
	}
	if err := c.Set(ctx, "layout:abc", []byte(`{"year":2025}`), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "layout:abc")
	if err != nil || !hit {
		t.Fatalf("Get = hit %v err %v", hit, err)
	}
	if !bytes.Equal(data, []byte(`{"year":2025}`)) {
		t.Errorf("Get = %s", data)
	}

	if err := c.Delete(ctx, "layout:abc"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "layout:abc"); hit {
		t.Error("hit after Delete")
	}
	if err := c.Delete(ctx, "layout:abc"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	_ = c.Set(ctx, "short", []byte("x"), time.Minute)
	_ = c.Set(ctx, "forever", []byte("y"), 0)

	now = now.Add(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("expired entry returned")
	}
	if _, err := os.Stat(c.path("short")); !os.IsNotExist(err) {
		t.Error("expired entry not removed")
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("entry without ttl expired")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	path := c.path("bad")
	_ = os.MkdirAll(filepath.Dir(path), 0o755)
	_ = os.WriteFile(path, []byte("not json"), 0o644)

	if _, hit, err := c.Get(ctx, "bad"); hit || err != nil {
		t.Errorf("corrupt entry: hit %v err %v", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	for _, k := range []string{"a", "b", "c"} {
		_ = c.Set(ctx, k, []byte(k), 0)
	}
	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear removed %d entries, want 3", n)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("entry survived Clear")
	}
}

func TestHash(t *testing.T) {
	if Hash([]byte("hello")) != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if Hash([]byte("hello")) == Hash([]byte("world")) {
		t.Error("different inputs should hash differently")
	}
	if len(Hash(nil)) != 64 {
		t.Error("Hash should return 64 hex characters")
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	base := LayoutKeyOpts{Year: 2025, Mode: "dots", Density: "normal"}
	lk := k.LayoutKey("input", base)
	if !strings.HasPrefix(lk, "layout:") || KeyType(lk) != "layout" {
		t.Errorf("LayoutKey = %s", lk)
	}
	if lk != k.LayoutKey("input", base) {
		t.Error("LayoutKey not deterministic")
	}

	variants := []LayoutKeyOpts{
		{Year: 2026, Mode: "dots", Density: "normal"},
		{Year: 2025, Mode: "stack", Density: "normal"},
		{Year: 2025, Mode: "dots", Density: "compact"},
		{Year: 2025, Mode: "dots", Density: "normal", MatchDescription: true},
		{Year: 2025, Mode: "dots", Density: "normal", RulesHash: "r"},
	}
	for _, v := range variants {
		if k.LayoutKey("input", v) == lk {
			t.Errorf("options %+v should change the key", v)
		}
	}
	if k.LayoutKey("other", base) == lk {
		t.Error("input hash should change the key")
	}

	a1 := k.ArtifactKey("layout", ArtifactKeyOpts{Format: "svg"})
	a2 := k.ArtifactKey("layout", ArtifactKeyOpts{Format: "json"})
	if a1 == a2 || KeyType(a1) != "artifact" {
		t.Errorf("ArtifactKey = %s / %s", a1, a2)
	}
	if KeyType("nocolon") != "unknown" {
		t.Error("KeyType without prefix")
	}
}

func TestNewRedisCacheBadURL(t *testing.T) {
	if _, err := NewRedisCache(context.Background(), "not a url", ""); err == nil {
		t.Error("expected error for malformed URL")
	}
}
