package ttlcache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func (c *clock) add(d time.Duration) { c.t = c.t.Add(d) }

func TestCache_FreshThenStale(t *testing.T) {
	clk := &clock{t: time.Unix(1_700_000_000, 0)}
	c := New[string, int](5 * time.Minute).WithClock(clk.now)

	assert.True(t, c.IsExpired("a"))
	c.Put("a", 1)
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	clk.add(5*time.Minute - time.Second)
	assert.False(t, c.IsExpired("a"))

	clk.add(time.Second)
	_, ok = c.Get("a")
	assert.False(t, ok, "expires exactly at ttl")
	assert.True(t, c.IsExpired("a"))

	v, ok = c.GetStale("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestCache_PutRefreshes(t *testing.T) {
	clk := &clock{t: time.Unix(0, 0)}
	c := New[string, int](time.Minute).WithClock(clk.now)
	c.Put("a", 1)
	clk.add(2 * time.Minute)
	c.Put("a", 2)
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestCache_DeleteAndPurge(t *testing.T) {
	clk := &clock{t: time.Unix(0, 0)}
	c := New[string, int](time.Minute).WithClock(clk.now)
	c.Put("a", 1)
	c.Put("b", 2)
	c.Delete("a")
	_, ok := c.GetStale("a")
	assert.False(t, ok)

	clk.add(time.Hour)
	c.Put("c", 3)
	c.Purge()
	assert.Equal(t, 1, c.Len())
}

func TestCache_Concurrent(t *testing.T) {
	c := New[int, int](time.Minute)
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.Put(i%4, i)
			c.Get(i % 4)
			c.GetStale(i % 4)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 4, c.Len())
}
