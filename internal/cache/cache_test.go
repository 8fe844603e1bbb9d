package cache_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfarrell/cruise-guides/backend/internal/cache"
)

// fakeClock is a manually advanced clock so TTL expiry can be tested without
// sleeping.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newTestCache(t *testing.T, clk *fakeClock) *cache.Cache {
	t.Helper()
	cfg := cache.DefaultConfig()
	cfg.DefaultTTL = time.Minute
	c, err := cache.New(cfg, cache.WithNow(clk.Now))
	require.NoError(t, err)
	return c
}

func TestCache_SetGetRoundTrip(t *testing.T) {
	c := newTestCache(t, newFakeClock())

	c.Set("trips", "id:1", "alaska")

	got, ok := c.Get("trips", "id:1")
	require.True(t, ok)
	assert.Equal(t, "alaska", got)
}

// TestCache_TTLExpiry checks the round-trip + expiry law: an entry written
// with TTL t is present for any read before t has elapsed and absent after.
func TestCache_TTLExpiry(t *testing.T) {
	clk := newFakeClock()
	c := newTestCache(t, clk)

	c.SetTTL("trips", "id:1", "alaska", 10*time.Second)

	clk.Advance(9 * time.Second)
	_, ok := c.Get("trips", "id:1")
	assert.True(t, ok, "entry must be live before its TTL elapses")

	clk.Advance(2 * time.Second) // now 11s after insert
	_, ok = c.Get("trips", "id:1")
	assert.False(t, ok, "entry must read as absent after its TTL")

	// The expired entry was lazily dropped, not merely hidden.
	assert.Equal(t, 0, c.Stats("trips").Size)
}

func TestCache_SetOverwritesWholesale(t *testing.T) {
	clk := newFakeClock()
	c := newTestCache(t, clk)

	c.SetTTL("trips", "id:1", "old", 5*time.Second)
	clk.Advance(4 * time.Second)
	c.SetTTL("trips", "id:1", "new", 5*time.Second)

	// The rewrite reset the clock: 4s after the first write plus 3s more is
	// within the second entry's TTL.
	clk.Advance(3 * time.Second)
	got, ok := c.Get("trips", "id:1")
	require.True(t, ok)
	assert.Equal(t, "new", got, "last writer wins, no merging")
}

func TestCache_NamespacesAreIsolated(t *testing.T) {
	c := newTestCache(t, newFakeClock())

	c.Set("trips", "id:1", "trip one")
	c.Set("talent", "id:1", "talent one")

	got, ok := c.Get("trips", "id:1")
	require.True(t, ok)
	assert.Equal(t, "trip one", got)

	c.Delete("trips", "id:1")

	_, ok = c.Get("trips", "id:1")
	assert.False(t, ok)
	_, ok = c.Get("talent", "id:1")
	assert.True(t, ok, "delete in one namespace must not touch another")
}

func TestCache_DeleteByPattern(t *testing.T) {
	c := newTestCache(t, newFakeClock())

	c.Set("trips", "id:1", "a")
	c.Set("trips", "id:2", "b")
	c.Set("trips", "slug:alaska-2026", "a")
	c.Set("talent", "id:1", "t")

	deleted, err := c.DeleteByPattern("trips", "id:*")
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	_, ok := c.Get("trips", "id:1")
	assert.False(t, ok)
	_, ok = c.Get("trips", "id:2")
	assert.False(t, ok)
	_, ok = c.Get("trips", "slug:alaska-2026")
	assert.True(t, ok, "non-matching keys survive")
	_, ok = c.Get("talent", "id:1")
	assert.True(t, ok, "other namespaces survive")
}

func TestCache_DeleteByPattern_MatchAll(t *testing.T) {
	c := newTestCache(t, newFakeClock())

	c.Set("trips", "id:1", "a")
	c.Set("trips", "slug:alaska-2026", "a")

	deleted, err := c.DeleteByPattern("trips", "*")
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)
	assert.Equal(t, 0, c.Stats("trips").Size)
}

func TestCache_DeleteByPattern_BadPattern(t *testing.T) {
	c := newTestCache(t, newFakeClock())
	c.Set("trips", "id:1", "a")

	_, err := c.DeleteByPattern("trips", "[unclosed")

	require.Error(t, err)
	_, ok := c.Get("trips", "id:1")
	assert.True(t, ok, "a bad pattern must delete nothing")
}

func TestCache_StatsCountsHitsAndMisses(t *testing.T) {
	clk := newFakeClock()
	c := newTestCache(t, clk)

	c.Set("trips", "id:1", "a")

	c.Get("trips", "id:1")   // hit
	c.Get("trips", "id:1")   // hit
	c.Get("trips", "id:404") // miss
	clk.Advance(2 * time.Minute)
	c.Get("trips", "id:1") // expired → miss

	s := c.Stats("trips")
	assert.Equal(t, uint64(2), s.Hits)
	assert.Equal(t, uint64(2), s.Misses)
	assert.Equal(t, 0, s.Size)
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := newTestCache(t, newFakeClock())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				key := fmt.Sprintf("id:%d", j%10)
				c.Set("trips", key, n)
				c.Get("trips", key)
				if j%50 == 0 {
					c.Delete("trips", key)
				}
			}
		}(i)
	}
	wg.Wait()

	// No assertion beyond "no race, no panic"; counters must be coherent.
	s := c.Stats("trips")
	assert.Equal(t, uint64(8*200), s.Hits+s.Misses)
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*cache.Config)
	}{
		{"zero capacity", func(c *cache.Config) { c.Capacity = 0 }},
		{"zero shards", func(c *cache.Config) { c.NumShards = 0 }},
		{"zero ttl", func(c *cache.Config) { c.DefaultTTL = 0 }},
		{"ttl beyond sweep horizon", func(c *cache.Config) { c.DefaultTTL = 48 * time.Hour }},
		{"eviction percentage too high", func(c *cache.Config) { c.EvictionPercentage = 150 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := cache.DefaultConfig()
			tt.mutate(&cfg)
			_, err := cache.New(cfg)
			var cfgErr *cache.ConfigError
			require.ErrorAs(t, err, &cfgErr)
		})
	}
}
