package cache

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/segmerge/internal/resource"
)

func TestLRUEviction(t *testing.T) {
	c := NewLRU[string](10, nil)

	require.True(t, c.Set("a", make([]byte, 4)))
	require.True(t, c.Set("b", make([]byte, 4)))
	_, ok := c.Get("a")
	require.True(t, ok)

	require.True(t, c.Set("c", make([]byte, 4)))

	_, ok = c.Get("b")
	assert.False(t, ok, "least recently used entry evicted")
	assert.Equal(t, []string{"c", "a"}, c.Keys())
	assert.Equal(t, int64(8), c.Size())

	hits, misses := c.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
}

func TestLRUOversizedAndUpdate(t *testing.T) {
	c := NewLRU[int](8, nil)

	require.True(t, c.Set(1, []byte("abc")))
	assert.False(t, c.Set(2, make([]byte, 9)))
	assert.Equal(t, 1, c.Len())

	require.True(t, c.Set(1, []byte("abcdef")))
	v, ok := c.Get(1)
	require.True(t, ok)
	assert.Equal(t, "abcdef", string(v))
	assert.Equal(t, int64(6), c.Size())

	assert.False(t, c.Set(1, make([]byte, 20)), "oversized update drops the entry")
	assert.Equal(t, 0, c.Len())
}

func TestLRUInvalidateAndClear(t *testing.T) {
	rc := resource.NewController(resource.Limits{CacheBytes: 100})
	c := NewLRU[string](50, rc)

	for _, k := range []string{"x/1", "x/2", "y/1"} {
		require.True(t, c.Set(k, make([]byte, 5)))
	}
	assert.Equal(t, int64(15), rc.CacheUsage())

	c.Invalidate(func(k string) bool { return k[0] == 'x' })
	assert.Equal(t, []string{"y/1"}, c.Keys())
	assert.Equal(t, int64(5), rc.CacheUsage())

	c.Clear()
	assert.Equal(t, 0, c.Len())
	assert.Zero(t, rc.CacheUsage())
}

func TestLRUSharedBudget(t *testing.T) {
	rc := resource.NewController(resource.Limits{CacheBytes: 10})
	a := NewLRU[int](10, rc)
	b := NewLRU[int](10, rc)

	require.True(t, a.Set(1, make([]byte, 8)))
	assert.False(t, b.Set(1, make([]byte, 8)), "budget is shared")

	a.Remove(1)
	assert.True(t, b.Set(1, make([]byte, 8)))
}

func TestLRUConcurrent(t *testing.T) {
	c := NewLRU[int](1<<10, nil)

	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 200 {
				c.Set(g*1000+i, make([]byte, 16))
				c.Get(g*1000 + i/2)
			}
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Size(), int64(1<<10))
}
