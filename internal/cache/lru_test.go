package cache

import (
	"testing"
	"time"
)

func TestLRU_EvictsLeastRecent(t *testing.T) {
	c := New[string, int](2, 0)
	c.Add("a", 1)
	c.Add("b", 2)
	if _, ok := c.Get("a"); !ok { // a becomes MRU
		t.Fatal("a missing")
	}
	c.Add("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Fatal("b should have been evicted")
	}
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("a = %d, %v", v, ok)
	}
	if c.Len() != 2 {
		t.Fatalf("Len = %d, want 2", c.Len())
	}
}

func TestLRU_TTL(t *testing.T) {
	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	c := New[string, string](4, time.Minute)
	c.now = func() time.Time { return now }

	c.Add("k", "v")
	if v, ok := c.Get("k"); !ok || v != "v" {
		t.Fatalf("fresh get = %q, %v", v, ok)
	}

	now = now.Add(2 * time.Minute)
	if _, ok := c.Get("k"); ok {
		t.Fatal("expired entry returned")
	}
	if c.Len() != 0 {
		t.Fatalf("expired entry kept, Len = %d", c.Len())
	}
}

func TestLRU_Remove(t *testing.T) {
	c := New[int, int](4, 0)
	c.Add(1, 1)
	c.Remove(1)
	c.Remove(2)
	if _, ok := c.Get(1); ok {
		t.Fatal("removed entry returned")
	}
}
