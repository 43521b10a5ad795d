package classloader

import (
	"path/filepath"
	"testing"
)

func TestByteCacheRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "classes.db")
	c, err := OpenByteCache(path)
	if err != nil {
		t.Fatalf("OpenByteCache: %v", err)
	}
	defer c.Close()

	if _, ok := c.Get("a/B", 100); ok {
		t.Fatalf("expected a miss on an empty cache")
	}

	if err := c.Put("a/B", 100, []byte{1, 2, 3}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	data, ok := c.Get("a/B", 100)
	if !ok {
		t.Fatalf("expected a hit after Put")
	}
	if string(data) != "\x01\x02\x03" {
		t.Errorf("Get returned %v, want [1 2 3]", data)
	}

	if _, ok := c.Get("a/B", 200); ok {
		t.Errorf("expected a miss for a different archive mtime")
	}
}

func TestByteCachePutReplacesEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "classes.db")
	c, err := OpenByteCache(path)
	if err != nil {
		t.Fatalf("OpenByteCache: %v", err)
	}
	defer c.Close()

	if err := c.Put("a/B", 100, []byte{1}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := c.Put("a/B", 100, []byte{2}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	data, ok := c.Get("a/B", 100)
	if !ok || len(data) != 1 || data[0] != 2 {
		t.Errorf("expected the second Put to replace the first, got %v, ok=%v", data, ok)
	}
}
