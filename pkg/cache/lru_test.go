package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	current time.Time
}

func (f *fakeClock) Now() time.Time { return f.current }

func newTestCache(maxSize int, ttl time.Duration) (*LRUCache[string], *fakeClock) {
	clock := &fakeClock{current: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	c := NewLRUCache[string](maxSize, ttl)
	c.now = clock.Now
	return c, clock
}

func TestLRUCache_GetSet(t *testing.T) {
	c, _ := newTestCache(2, time.Minute)

	c.Set("a", "1")
	value, ok := c.Get("a")

	assert.True(t, ok)
	assert.Equal(t, "1", value)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestLRUCache_Expiration(t *testing.T) {
	c, clock := newTestCache(2, time.Minute)

	c.Set("a", "1")
	clock.current = clock.current.Add(2 * time.Minute)

	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Size())
}

func TestLRUCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c, _ := newTestCache(2, time.Minute)

	c.Set("a", "1")
	c.Set("b", "2")
	c.Get("a")
	c.Set("c", "3")

	_, okA := c.Get("a")
	_, okB := c.Get("b")
	_, okC := c.Get("c")
	assert.True(t, okA)
	assert.False(t, okB)
	assert.True(t, okC)
}

func TestLRUCache_DeletePrefix(t *testing.T) {
	c, _ := newTestCache(10, time.Minute)

	c.Set("src1|a", "1")
	c.Set("src1|b", "2")
	c.Set("src2|a", "3")

	assert.Equal(t, 2, c.DeletePrefix("src1|"))
	assert.Equal(t, 1, c.Size())
}

func TestManager_CleanAll(t *testing.T) {
	c, clock := newTestCache(10, time.Minute)
	c.Set("a", "1")
	c.Set("b", "2")
	clock.current = clock.current.Add(time.Hour)

	manager := NewManager()
	manager.Register(c)

	assert.Equal(t, 2, manager.CleanAll())
	assert.Equal(t, 0, c.Size())
}

func TestManager_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	manager := NewManager()
	manager.StartCleanup(ctx, time.Millisecond)

	cancel()

	select {
	case <-manager.cleanupDone:
	case <-time.After(time.Second):
		t.Fatal("cleanup goroutine did not stop")
	}
}
