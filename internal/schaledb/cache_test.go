package schaledb

import (
	"testing"
	"time"
)

// fakeClock drives cache expiry without sleeping.
type fakeClock struct {
	t time.Time
}

func (f *fakeClock) Now() time.Time          { return f.t }
func (f *fakeClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestCache[V any](ttl time.Duration) (*Cache[V], *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewCache[V](ttl)
	c.now = clock.Now
	return c, clock
}

func TestCache_RoundTrip(t *testing.T) {
	t.Parallel()

	c, _ := newTestCache[string](5 * time.Minute)

	if _, hit := c.Get("cn/students"); hit {
		t.Fatal("Get on empty cache: hit=true, want miss")
	}

	c.Set("cn/students", "payload")
	got, hit := c.Get("cn/students")
	if !hit {
		t.Fatal("Get after Set: hit=false, want hit")
	}
	if got != "payload" {
		t.Errorf("Get = %q, want %q", got, "payload")
	}
}

func TestCache_Expiry(t *testing.T) {
	t.Parallel()

	c, clock := newTestCache[int](5 * time.Minute)
	c.Set("key", 42)

	// Just under the TTL: still valid.
	clock.Advance(5*time.Minute - time.Second)
	if _, hit := c.Get("key"); !hit {
		t.Fatal("Get just before TTL: hit=false, want hit")
	}

	// At the TTL boundary: expired.
	clock.Advance(time.Second)
	if _, hit := c.Get("key"); hit {
		t.Fatal("Get at TTL: hit=true, want miss")
	}

	// The expired entry is deleted as a side effect of the miss.
	if n := c.Len(); n != 0 {
		t.Errorf("Len after expired Get = %d, want 0", n)
	}
}

func TestCache_SetRefreshesTimestamp(t *testing.T) {
	t.Parallel()

	c, clock := newTestCache[int](time.Minute)
	c.Set("key", 1)

	clock.Advance(45 * time.Second)
	c.Set("key", 2)

	// 45s after the refresh the original write would be long expired.
	clock.Advance(45 * time.Second)
	got, hit := c.Get("key")
	if !hit {
		t.Fatal("Get after refresh: hit=false, want hit")
	}
	if got != 2 {
		t.Errorf("Get = %d, want 2", got)
	}
}

func TestCache_Clear(t *testing.T) {
	t.Parallel()

	c, _ := newTestCache[string](time.Hour)
	c.Set("a", "1")
	c.Set("b", "2")

	c.Clear()
	if n := c.Len(); n != 0 {
		t.Errorf("Len after Clear = %d, want 0", n)
	}
	if _, hit := c.Get("a"); hit {
		t.Error("Get after Clear: hit=true, want miss")
	}
}

func TestCache_ZeroTTLNeverHits(t *testing.T) {
	t.Parallel()

	c, _ := newTestCache[string](0)
	c.Set("key", "value")
	if _, hit := c.Get("key"); hit {
		t.Error("Get with zero TTL: hit=true, want miss")
	}
}
