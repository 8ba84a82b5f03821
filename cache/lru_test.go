package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func newTestLRU(capacity int, ttl time.Duration) (*LRU[string, int], *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewLRU[string, int](capacity, ttl)
	c.now = clock.Now
	return c, clock
}

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	c, _ := newTestLRU(2, 0)

	c.Set("a", 1)
	c.Set("b", 2)
	_, ok := c.Get("a") // a 变为最近使用
	require.True(t, ok)
	c.Set("c", 3)

	_, ok = c.Get("b")
	assert.False(t, ok)
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, 2, c.Len())
}

func TestLRUOverwrite(t *testing.T) {
	c, _ := newTestLRU(2, 0)

	c.Set("a", 1)
	c.Set("a", 5)
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 5, v)
	assert.Equal(t, 1, c.Len())
}

func TestLRUExpiry(t *testing.T) {
	c, clock := newTestLRU(10, time.Minute)

	c.Set("a", 1)
	clock.now = clock.now.Add(30 * time.Second)
	c.Set("b", 2)

	_, ok := c.Get("a")
	assert.True(t, ok)

	clock.now = clock.now.Add(45 * time.Second)
	_, ok = c.Get("a")
	assert.False(t, ok, "a should have expired")
	assert.Equal(t, 1, c.Len())

	clock.now = clock.now.Add(time.Minute)
	assert.Equal(t, 1, c.Prune())
	assert.Equal(t, 0, c.Len())
}

func TestLRUNoTTLNeverExpires(t *testing.T) {
	c, clock := newTestLRU(10, 0)

	c.Set("a", 1)
	clock.now = clock.now.Add(365 * 24 * time.Hour)

	_, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 0, c.Prune())
}

func TestLRUDefaultCapacity(t *testing.T) {
	c := NewLRU[int, int](0, 0)
	for i := 0; i < 1500; i++ {
		c.Set(i, i)
	}
	assert.Equal(t, 1000, c.Len())
}
