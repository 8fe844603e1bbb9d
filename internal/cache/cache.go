// Package cache provides the namespaced, TTL-scoped in-memory store that
// backs aggregate lookups. Storage is a sharded sturdyc client; this wrapper
// adds namespaces, per-entry TTLs, glob invalidation, and hit/miss counters.
//
// The cache is best-effort and single-process. A race between a populating
// Set and a concurrent invalidating Delete resolves as "last write observed
// wins": a reader that started before an invalidation can repopulate a value
// the writer just deleted. That window is accepted — the database remains
// the source of truth and the entry ages out by TTL.
package cache

import (
	"path"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/viccon/sturdyc"
)

// KeySeparator joins the namespace and key segments of a storage key.
const KeySeparator = "::"

// storageTTL is the eviction horizon handed to the storage engine. Entry
// expiry is enforced by this wrapper against each entry's own TTL; the
// engine bound only guarantees long-dead entries are eventually swept, so
// per-entry TTLs must stay below it.
const storageTTL = 24 * time.Hour

// Config holds cache sizing and expiry settings.
type Config struct {
	// Capacity is the maximum number of entries across all namespaces.
	Capacity int
	// NumShards spreads entries over independently locked shards.
	NumShards int
	// DefaultTTL applies to entries written with Set.
	DefaultTTL time.Duration
	// EvictionPercentage is how much of a full shard is evicted at once.
	EvictionPercentage int
}

// DefaultConfig returns sizing suitable for a single-process API server.
func DefaultConfig() Config {
	return Config{
		Capacity:           10_000,
		NumShards:          64,
		DefaultTTL:         5 * time.Minute,
		EvictionPercentage: 10,
	}
}

// Stats is a per-namespace observability snapshot.
type Stats struct {
	Hits   uint64 `json:"hits"`
	Misses uint64 `json:"misses"`
	Size   int    `json:"size"`
}

// Option configures optional Cache behavior.
type Option func(*Cache)

// WithNow injects the clock used for entry expiry. Tests pass a fake so the
// TTL law can be checked without sleeping.
func WithNow(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// entry is what the storage engine actually holds: the value plus the
// metadata this wrapper needs to enforce the entry's own TTL.
type entry struct {
	value      any
	insertedAt time.Time
	ttl        time.Duration
}

type nsStats struct {
	hits   atomic.Uint64
	misses atomic.Uint64
}

// Cache is the namespaced key/value store. All methods are safe for
// concurrent use.
type Cache struct {
	client     *sturdyc.Client[entry]
	defaultTTL time.Duration
	now        func() time.Time

	mu    sync.Mutex
	stats map[string]*nsStats
}

// New validates cfg and builds the cache.
func New(cfg Config, opts ...Option) (*Cache, error) {
	if cfg.Capacity <= 0 {
		return nil, &ConfigError{Field: "Capacity", Message: "must be greater than 0"}
	}
	if cfg.NumShards <= 0 {
		return nil, &ConfigError{Field: "NumShards", Message: "must be greater than 0"}
	}
	if cfg.DefaultTTL <= 0 {
		return nil, &ConfigError{Field: "DefaultTTL", Message: "must be greater than 0"}
	}
	if cfg.DefaultTTL > storageTTL {
		return nil, &ConfigError{Field: "DefaultTTL", Message: "must not exceed 24h"}
	}
	if cfg.EvictionPercentage < 1 || cfg.EvictionPercentage > 100 {
		return nil, &ConfigError{Field: "EvictionPercentage", Message: "must be between 1 and 100"}
	}

	c := &Cache{
		client:     sturdyc.New[entry](cfg.Capacity, cfg.NumShards, storageTTL, cfg.EvictionPercentage),
		defaultTTL: cfg.DefaultTTL,
		now:        time.Now,
		stats:      make(map[string]*nsStats),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ConfigError reports an invalid cache configuration value.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "cache: config field " + e.Field + " " + e.Message
}

// Get returns the live value stored under (namespace, key). An entry past
// its TTL counts as a miss and is lazily dropped on the way out.
func (c *Cache) Get(namespace, key string) (any, bool) {
	s := c.namespaceStats(namespace)
	full := namespace + KeySeparator + key

	e, ok := c.client.Get(full)
	if ok && c.now().Sub(e.insertedAt) < e.ttl {
		s.hits.Add(1)
		return e.value, true
	}
	if ok {
		c.client.Delete(full)
	}
	s.misses.Add(1)
	return nil, false
}

// Set stores value under (namespace, key) with the default TTL, replacing
// any previous entry wholesale.
func (c *Cache) Set(namespace, key string, value any) {
	c.SetTTL(namespace, key, value, c.defaultTTL)
}

// SetTTL stores value with an explicit TTL. Non-positive TTLs fall back to
// the default. TTLs are capped at the storage engine's 24h sweep horizon.
func (c *Cache) SetTTL(namespace, key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	if ttl > storageTTL {
		ttl = storageTTL
	}
	c.client.Set(namespace+KeySeparator+key, entry{
		value:      value,
		insertedAt: c.now(),
		ttl:        ttl,
	})
}

// Delete removes the entry under (namespace, key). Deleting an absent key is
// a no-op.
func (c *Cache) Delete(namespace, key string) {
	c.client.Delete(namespace + KeySeparator + key)
}

// DeleteByPattern removes every entry in the namespace whose key matches the
// glob pattern (path.Match syntax: "trip:*", "id:42"). It returns how many
// entries were removed. A malformed pattern is the one error this layer can
// produce; mutation paths log it and fail open.
func (c *Cache) DeleteByPattern(namespace, pattern string) (int, error) {
	// Validate once up front so a bad pattern fails before any deletes.
	if _, err := path.Match(pattern, ""); err != nil {
		return 0, err
	}

	prefix := namespace + KeySeparator
	deleted := 0
	for _, full := range c.client.ScanKeys() {
		key, ok := strings.CutPrefix(full, prefix)
		if !ok {
			continue
		}
		if matched, _ := path.Match(pattern, key); matched {
			c.client.Delete(full)
			deleted++
		}
	}
	return deleted, nil
}

// Stats returns the hit/miss counters and current entry count for one
// namespace. Size counts stored entries including any not yet swept after
// expiry, mirroring what the cache actually holds in memory.
func (c *Cache) Stats(namespace string) Stats {
	s := c.namespaceStats(namespace)
	prefix := namespace + KeySeparator
	size := 0
	for _, full := range c.client.ScanKeys() {
		if strings.HasPrefix(full, prefix) {
			size++
		}
	}
	return Stats{
		Hits:   s.hits.Load(),
		Misses: s.misses.Load(),
		Size:   size,
	}
}

func (c *Cache) namespaceStats(namespace string) *nsStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.stats[namespace]
	if !ok {
		s = &nsStats{}
		c.stats[namespace] = s
	}
	return s
}
