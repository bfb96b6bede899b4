package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jlucaspains/sharp-cooking-api/internal/infrastructure/config"
)

func newTestStore(t *testing.T, maxSize int, ttl time.Duration) (*MemoryStore, *time.Time) {
	t.Helper()

	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemoryStore(&config.CacheConfig{Enabled: true, Driver: "memory", MaxSize: maxSize, TTL: ttl})
	m.now = func() time.Time { return clock }
	t.Cleanup(func() { _ = m.Close() })
	return m, &clock
}

func TestMemoryStore_GetSet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m, _ := newTestStore(t, 10, time.Hour)

	_, ok := m.Get(ctx, "missing")
	assert.False(t, ok)

	require.NoError(t, m.Set(ctx, "a", []byte("1")))
	got, ok := m.Get(ctx, "a")
	require.True(t, ok)
	assert.Equal(t, []byte("1"), got)

	stats := m.Stats()
	assert.Equal(t, int64(1), stats["hits"])
	assert.Equal(t, int64(1), stats["misses"])
	assert.Equal(t, 1, stats["size"])
}

func TestMemoryStore_Expiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m, clock := newTestStore(t, 10, time.Minute)

	require.NoError(t, m.Set(ctx, "a", []byte("1")))
	*clock = clock.Add(2 * time.Minute)

	_, ok := m.Get(ctx, "a")
	assert.False(t, ok)
	assert.Equal(t, int64(1), m.Stats()["evictions"])
}

func TestMemoryStore_EvictsLeastUsed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m, clock := newTestStore(t, 2, time.Hour)

	require.NoError(t, m.Set(ctx, "a", []byte("1")))
	*clock = clock.Add(time.Second)
	require.NoError(t, m.Set(ctx, "b", []byte("2")))

	// a 被讀取過，b 應該被淘汰
	_, ok := m.Get(ctx, "a")
	require.True(t, ok)

	require.NoError(t, m.Set(ctx, "c", []byte("3")))

	_, ok = m.Get(ctx, "b")
	assert.False(t, ok)
	_, ok = m.Get(ctx, "a")
	assert.True(t, ok)
	_, ok = m.Get(ctx, "c")
	assert.True(t, ok)
}

func TestMemoryStore_ReplaceDoesNotEvict(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m, _ := newTestStore(t, 1, time.Hour)

	require.NoError(t, m.Set(ctx, "a", []byte("1")))
	require.NoError(t, m.Set(ctx, "a", []byte("2")))

	got, ok := m.Get(ctx, "a")
	require.True(t, ok)
	assert.Equal(t, []byte("2"), got)
	assert.Equal(t, int64(0), m.Stats()["evictions"])
}

func TestMemoryStore_Cleanup(t *testing.T) {
	t.Parallel()

	m := NewMemoryStore(&config.CacheConfig{MaxSize: 10, TTL: time.Millisecond, CleanupInterval: 5 * time.Millisecond})
	defer m.Close()

	require.NoError(t, m.Set(context.Background(), "a", []byte("1")))

	assert.Eventually(t, func() bool {
		return m.Stats()["size"] == 0
	}, time.Second, 5*time.Millisecond)
}

func TestKey(t *testing.T) {
	t.Parallel()

	a := Key("recipe", "https://example.com/a", "false")
	b := Key("recipe", "https://example.com/a", "true")
	c := Key("recipe", "https://example.com/a", "false")

	assert.NotEqual(t, a, b)
	assert.Equal(t, a, c)
	assert.Contains(t, a, "recipe:")
	assert.NotEqual(t, Key("p", "ab", "c"), Key("p", "a", "bc"))
}

func TestNewStore(t *testing.T) {
	t.Parallel()

	t.Run("disabled", func(t *testing.T) {
		t.Parallel()

		s, err := NewStore(&config.CacheConfig{Enabled: false})
		require.NoError(t, err)
		assert.Nil(t, s)
	})

	t.Run("memory", func(t *testing.T) {
		t.Parallel()

		s, err := NewStore(&config.CacheConfig{Enabled: true, Driver: "memory", MaxSize: 1, TTL: time.Minute})
		require.NoError(t, err)
		defer s.Close()
		assert.IsType(t, &MemoryStore{}, s)
	})

	t.Run("unknown driver", func(t *testing.T) {
		t.Parallel()

		_, err := NewStore(&config.CacheConfig{Enabled: true, Driver: "memcached"})
		assert.Error(t, err)
	})

	t.Run("unreachable redis", func(t *testing.T) {
		t.Parallel()

		_, err := NewStore(&config.CacheConfig{Enabled: true, Driver: "redis", RedisAddr: "127.0.0.1:1", TTL: time.Minute})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Redis")
	})
}

func ExampleKey() {
	fmt.Println(len(Key("recipe", "https://example.com")) > len("recipe:"))
	// Output: true
}
