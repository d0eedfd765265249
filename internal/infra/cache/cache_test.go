package cache_test

import (
	"testing"
	"time"

	"github.com/travisk/storage-dashboard-go/internal/infra/cache"
)

func TestCache_SetAndGet(t *testing.T) {
	c := cache.New[string](5 * time.Minute)

	c.Set("kpis", "payload")
	val, ok := c.Get("kpis")
	if !ok {
		t.Fatal("expected key to exist")
	}
	if val != "payload" {
		t.Errorf("expected 'payload', got '%s'", val)
	}
}

func TestCache_GetMiss(t *testing.T) {
	c := cache.New[string](5 * time.Minute)

	_, ok := c.Get("nonexistent")
	if ok {
		t.Fatal("expected cache miss for nonexistent key")
	}
}

func TestCache_Expiration(t *testing.T) {
	c := cache.New[string](50 * time.Millisecond)

	c.Set("kpis", "payload")
	time.Sleep(100 * time.Millisecond)

	_, ok := c.Get("kpis")
	if ok {
		t.Fatal("expected cache entry to be expired")
	}
}

func TestCache_Delete(t *testing.T) {
	c := cache.New[string](5 * time.Minute)

	c.Set("kpis", "payload")
	c.Delete("kpis")

	_, ok := c.Get("kpis")
	if ok {
		t.Fatal("expected key to be deleted")
	}
}

func TestCache_Flush(t *testing.T) {
	c := cache.New[int](5 * time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Flush()

	if _, ok := c.Get("a"); ok {
		t.Fatal("expected flush to drop all entries")
	}
	if _, ok := c.Get("b"); ok {
		t.Fatal("expected flush to drop all entries")
	}
}
