package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestMemoryCache_Expiration(t *testing.T) {
	m := NewMemoryCache()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	ctx := context.Background()

	if err := m.Set(ctx, "adminToken", "tok", time.Hour); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := m.Set(ctx, "forever", 1, 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	now = now.Add(2 * time.Hour)

	var tok string
	if err := m.Get(ctx, "adminToken", &tok); !errors.Is(err, ErrNotFound) {
		t.Errorf("expired key: got %v, want ErrNotFound", err)
	}
	if ok, _ := m.Exists(ctx, "forever"); !ok {
		t.Error("key without expiration must survive")
	}
}

func TestMemoryCache_ConcurrentAccess(t *testing.T) {
	m := NewMemoryCache()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = m.Set(ctx, "k", i, time.Minute)
			var v int
			_ = m.Get(ctx, "k", &v)
			_ = m.Del(ctx, "other")
		}(i)
	}
	wg.Wait()

	if ok, _ := m.Exists(ctx, "k"); !ok {
		t.Error("key should exist after concurrent writes")
	}
}

func TestNullCache(t *testing.T) {
	n := NewNullCache()
	ctx := context.Background()
	_ = n.Set(ctx, "k", "v", time.Minute)
	var v string
	if err := n.Get(ctx, "k", &v); !errors.Is(err, ErrNotFound) {
		t.Errorf("NullCache.Get = %v, want ErrNotFound", err)
	}
}
