package request

import (
	"fmt"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

func TestCacheReturnsValueWithinTTL(t *testing.T) {
	now := time.Now()
	cache := NewCache(WithCacheTTL(time.Minute))
	cache.now = func() time.Time { return now }

	cache.Set("k", "v")
	got, ok := cache.Get("k")
	require.True(t, ok)
	require.Equal(t, "v", got)
}

func TestCacheExpiresLazily(t *testing.T) {
	now := time.Now()
	cache := NewCache(WithCacheTTL(time.Minute))
	cache.now = func() time.Time { return now }

	cache.Set("k", "v")
	now = now.Add(time.Minute)

	_, ok := cache.Get("k")
	require.False(t, ok)
	// the expired entry was removed on that access
	require.Equal(t, 0, cache.Len())
}

func TestCacheEvictsOldestInserted(t *testing.T) {
	cache := NewCache(WithCacheMaxEntries(3))
	for i := 0; i < 3; i++ {
		cache.Set(fmt.Sprintf("k%d", i), i)
	}
	// touch the oldest key, eviction order must not change (FIFO, not LRU)
	_, ok := cache.Get("k0")
	require.True(t, ok)

	cache.Set("k3", 3)
	_, ok = cache.Get("k0")
	require.False(t, ok)
	for i := 1; i <= 3; i++ {
		_, ok := cache.Get(fmt.Sprintf("k%d", i))
		require.True(t, ok)
	}
}

func TestCacheUpdateNeverEvicts(t *testing.T) {
	cache := NewCache(WithCacheMaxEntries(2))
	cache.Set("a", 1)
	cache.Set("b", 2)
	cache.Set("a", 10)

	require.Equal(t, 2, cache.Len())
	got, ok := cache.Get("a")
	require.True(t, ok)
	require.Equal(t, 10, got)
	_, ok = cache.Get("b")
	require.True(t, ok)
}

func TestCacheDeleteAndClear(t *testing.T) {
	cache := NewCache()
	cache.Set("a", 1)

	require.True(t, cache.Delete("a"))
	require.False(t, cache.Delete("a"))

	cache.Set("b", 2)
	cache.Clear()
	require.Equal(t, 0, cache.Len())
	_, ok := cache.Get("b")
	require.False(t, ok)
}
