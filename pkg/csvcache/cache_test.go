package csvcache

import (
	"bytes"
	"testing"
	"time"
)

func TestCachePutGet(t *testing.T) {
	c, err := NewCache(t.TempDir(), DefaultSchedule(mustLoc(t)))
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}

	loc := mustLoc(t)
	fetched := time.Date(2025, 3, 10, 18, 0, 0, 0, loc)
	content := []byte("ticker,close\nAAPL,1\n")

	if err := c.Put("File-ID 123", content, fetched); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, ok := c.Get("File-ID 123", fetched.Add(time.Minute))
	if !ok {
		t.Fatal("expected cache hit")
	}
	if !bytes.Equal(got, content) {
		t.Fatalf("content mismatch: %q", got)
	}
}

func TestCacheMissWhenStale(t *testing.T) {
	loc := mustLoc(t)
	c, err := NewCache(t.TempDir(), DefaultSchedule(loc))
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}

	fetched := time.Date(2025, 3, 10, 17, 0, 0, 0, loc)
	if err := c.Put("abc", []byte("x"), fetched); err != nil {
		t.Fatalf("put: %v", err)
	}

	if _, ok := c.Get("abc", time.Date(2025, 3, 10, 18, 0, 0, 0, loc)); ok {
		t.Fatal("entry from before the cutover should miss")
	}
}

func TestNormalizeKey(t *testing.T) {
	if got := NormalizeKey("File-ID 123/x"); got != "file-id_123_x" {
		t.Fatalf("unexpected key: %q", got)
	}
}
