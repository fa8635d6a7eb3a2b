package cache

import (
	"fmt"
	"testing"
	"time"
)

func TestLRUSetGet(t *testing.T) {
	c := NewLRU[[]string](4, time.Minute)

	c.Set("categories", []string{"Lazer", "Transporte"})
	got, ok := c.Get("categories")
	if !ok {
		t.Fatal("expected hit")
	}
	if len(got) != 2 || got[0] != "Lazer" {
		t.Errorf("got %v", got)
	}

	if _, ok := c.Get("tags"); ok {
		t.Error("expected miss for unknown key")
	}
}

func TestLRUExpiry(t *testing.T) {
	c := NewLRU[int](4, 10*time.Millisecond)

	c.Set("k", 1)
	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Error("expired entry must read as miss")
	}
	if c.Len() != 0 {
		t.Errorf("expired read must evict, len = %d", c.Len())
	}
}

func TestLRUCapacityEviction(t *testing.T) {
	c := NewLRU[int](3, time.Minute)

	for i := 0; i < 4; i++ {
		c.Set(fmt.Sprintf("k%d", i), i)
	}

	if c.Len() != 3 {
		t.Fatalf("len = %d, want 3", c.Len())
	}
	if _, ok := c.Get("k0"); ok {
		t.Error("oldest entry should have been evicted")
	}
	if _, ok := c.Get("k3"); !ok {
		t.Error("newest entry must survive")
	}
}

func TestLRUDelete(t *testing.T) {
	c := NewLRU[int](4, time.Minute)

	c.Set("k", 1)
	c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Error("deleted entry must read as miss")
	}
	// Deleting an absent key is a no-op.
	c.Delete("missing")
}

func TestSweepExpired(t *testing.T) {
	c := NewLRU[int](8, 10*time.Millisecond)

	c.Set("a", 1)
	c.Set("b", 2)
	time.Sleep(20 * time.Millisecond)
	c.Set("c", 3)

	if n := c.SweepExpired(); n != 2 {
		t.Errorf("swept %d, want 2", n)
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("fresh entry must survive sweep")
	}
}
