package cache

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestGetOrCompute(t *testing.T) {
	c := New[int](time.Minute)
	defer c.Stop()

	calls := 0
	compute := func() (int, error) {
		calls++
		return 42, nil
	}

	v, hit, err := c.GetOrCompute("insights:summary", compute)
	if err != nil || hit || v != 42 {
		t.Fatalf("first call: v=%d hit=%v err=%v", v, hit, err)
	}
	v, hit, err = c.GetOrCompute("insights:summary", compute)
	if err != nil || !hit || v != 42 {
		t.Fatalf("second call: v=%d hit=%v err=%v", v, hit, err)
	}
	if calls != 1 {
		t.Errorf("expected compute to run once, ran %d times", calls)
	}

	stats := c.Stats()
	if stats.HitCount != 1 || stats.MissCount != 1 || stats.ItemCount != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestGetOrComputeErrorIsNotCached(t *testing.T) {
	c := New[string](time.Minute)
	defer c.Stop()

	boom := errors.New("boom")
	if _, _, err := c.GetOrCompute("k", func() (string, error) { return "", boom }); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if c.Size() != 0 {
		t.Error("failed computations must not be cached")
	}
}

func TestInvalidationDuringComputeSkipsStore(t *testing.T) {
	c := New[int](time.Minute)
	defer c.Stop()

	value, hit, err := c.GetOrCompute("insights:summary", func() (int, error) {
		c.InvalidatePrefix("insights:")
		return 1, nil
	})
	if err != nil || hit || value != 1 {
		t.Fatalf("expected computed value 1, got %d hit=%v err=%v", value, hit, err)
	}
	if _, ok := c.Get("insights:summary"); ok {
		t.Error("value computed before invalidation must not be cached")
	}

	value, _, _ = c.GetOrCompute("insights:summary", func() (int, error) { return 2, nil })
	if value != 2 {
		t.Errorf("expected fresh value 2, got %d", value)
	}
	if cached, ok := c.Get("insights:summary"); !ok || cached != 2 {
		t.Errorf("expected 2 cached after clean compute, got %d (%v)", cached, ok)
	}
}

func TestInvalidatePrefix(t *testing.T) {
	c := New[int](time.Minute)
	defer c.Stop()

	for i := 0; i < 50; i++ {
		c.Set(fmt.Sprintf("insights:trends:%d", i), i)
		c.Set(fmt.Sprintf("other:%d", i), i)
	}

	c.InvalidatePrefix("insights:")

	if c.Size() != 50 {
		t.Errorf("expected 50 items after invalidation, got %d", c.Size())
	}
	if _, found := c.Get("insights:trends:7"); found {
		t.Error("prefixed item should have been invalidated")
	}
	if _, found := c.Get("other:7"); !found {
		t.Error("other item should still exist")
	}
}

func TestTTLExpiration(t *testing.T) {
	c := New[string](50 * time.Millisecond)
	defer c.Stop()

	c.Set("expiring", "value")
	if _, found := c.Get("expiring"); !found {
		t.Error("item should exist immediately after setting")
	}

	time.Sleep(100 * time.Millisecond)

	if _, found := c.Get("expiring"); found {
		t.Error("item should have expired")
	}
}

func TestZeroTTLDisablesCache(t *testing.T) {
	c := New[int](0)
	defer c.Stop()

	c.Set("k", 1)
	if _, found := c.Get("k"); found {
		t.Error("zero TTL cache must not store values")
	}
	c.Stop()
}

func TestConcurrentAccess(t *testing.T) {
	c := New[int](time.Minute)
	defer c.Stop()

	var wg sync.WaitGroup
	for g := 0; g < 10; g++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				key := fmt.Sprintf("key_%d_%d", id, i%10)
				switch i % 3 {
				case 0:
					c.Set(key, i)
				case 1:
					c.Get(key)
				default:
					c.InvalidatePrefix(fmt.Sprintf("key_%d_", id))
				}
			}
		}(g)
	}
	wg.Wait()
}
