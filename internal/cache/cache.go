package cache

// #region imports
import (
	"fmt"
	"time"
)

// #endregion imports

// #region policy

// Policy selects which entry is evicted when the cache is at capacity.
type Policy string

const (
	PolicyLRU  Policy = "lru"  // least recently touched; a Get hit relocates
	PolicyLFU  Policy = "lfu"  // lowest access count; ties by scan order
	PolicyFIFO Policy = "fifo" // oldest CreatedAt
)

func (p Policy) valid() bool {
	switch p {
	case PolicyLRU, PolicyLFU, PolicyFIFO:
		return true
	}
	return false
}

// #endregion policy

// #region entry

// Entry is one cached value with its lifecycle bookkeeping. Created on Set,
// mutated on Get (access counters, LRU relocation), removed on expiry,
// Delete, Clear, or eviction.
type Entry[T any] struct {
	Value       T
	CreatedAt   time.Time
	ExpiresAt   time.Time
	AccessCount int
	LastAccess  time.Time
}

// #endregion entry

// #region stats

// Stats is the incrementally maintained cache telemetry.
type Stats struct {
	Hits      int     `json:"hits"`
	Misses    int     `json:"misses"`
	Evictions int     `json:"evictions"`
	Size      int     `json:"size"`
	HitRate   float64 `json:"hit_rate"`
}

// #endregion stats

// #region cache

// Cache is a bounded TTL store. It is not internally synchronized:
// concurrent use of one instance must be serialized by the caller.
type Cache[T any] struct {
	entries    map[string]*Entry[T]
	recency    []string // oldest-touched first; maintained for LRU
	maxSize    int
	defaultTTL time.Duration
	policy     Policy

	hits      int
	misses    int
	evictions int

	now func() time.Time // test seam
}

// New creates a cache. maxSize and defaultTTL must be positive and policy
// must be one of the three known policies; all three fail fast.
func New[T any](maxSize int, defaultTTL time.Duration, policy Policy) (*Cache[T], error) {
	if maxSize <= 0 {
		return nil, fmt.Errorf("cache max size %d must be positive", maxSize)
	}
	if defaultTTL <= 0 {
		return nil, fmt.Errorf("cache default TTL %v must be positive", defaultTTL)
	}
	if !policy.valid() {
		return nil, fmt.Errorf("unknown eviction policy %q", policy)
	}
	return &Cache[T]{
		entries:    make(map[string]*Entry[T]),
		maxSize:    maxSize,
		defaultTTL: defaultTTL,
		policy:     policy,
		now:        time.Now,
	}, nil
}

// #endregion cache

// #region get

// Get returns the live value for key. Expired entries count as misses and
// are removed lazily. Under LRU a hit relocates the key to most recent.
func (c *Cache[T]) Get(key string) (T, bool) {
	var zero T
	entry, ok := c.entries[key]
	if !ok {
		c.misses++
		return zero, false
	}
	if c.expired(entry) {
		c.remove(key)
		c.misses++
		return zero, false
	}

	entry.AccessCount++
	entry.LastAccess = c.now()
	if c.policy == PolicyLRU {
		c.touch(key)
	}
	c.hits++
	return entry.Value, true
}

// Has reports whether key holds a live value, without access bookkeeping.
// Expired entries are removed lazily.
func (c *Cache[T]) Has(key string) bool {
	entry, ok := c.entries[key]
	if !ok {
		return false
	}
	if c.expired(entry) {
		c.remove(key)
		return false
	}
	return true
}

// #endregion get

// #region set

// Set stores value under key with the instance default TTL, evicting one
// entry first if the cache is at capacity.
func (c *Cache[T]) Set(key string, value T) {
	c.SetTTL(key, value, c.defaultTTL)
}

// SetTTL stores value with a per-call TTL override. A zero or negative TTL
// falls back to the instance default.
func (c *Cache[T]) SetTTL(key string, value T, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	now := c.now()

	if existing, ok := c.entries[key]; ok {
		existing.Value = value
		existing.CreatedAt = now
		existing.ExpiresAt = now.Add(ttl)
		if c.policy == PolicyLRU {
			c.touch(key)
		}
		return
	}

	if len(c.entries) >= c.maxSize {
		c.evictOne()
	}

	c.entries[key] = &Entry[T]{
		Value:     value,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	c.recency = append(c.recency, key)
}

// #endregion set

// #region get-or-set

// GetOrSet returns the cached value or computes and stores it via factory.
// The miss check and the store are not atomic across concurrent callers:
// duplicate factory invocations are possible, so factories must be
// idempotent.
func (c *Cache[T]) GetOrSet(key string, factory func() (T, error), ttl time.Duration) (T, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	v, err := factory()
	if err != nil {
		var zero T
		return zero, err
	}
	c.SetTTL(key, v, ttl)
	return v, nil
}

// #endregion get-or-set

// #region delete-clear

// Delete removes key. Unknown keys are a no-op.
func (c *Cache[T]) Delete(key string) {
	c.remove(key)
}

// Clear drops every entry. Statistics are kept.
func (c *Cache[T]) Clear() {
	c.entries = make(map[string]*Entry[T])
	c.recency = c.recency[:0]
}

// Cleanup eagerly sweeps expired entries and returns how many it removed.
func (c *Cache[T]) Cleanup() int {
	var expired []string
	for key, entry := range c.entries {
		if c.expired(entry) {
			expired = append(expired, key)
		}
	}
	for _, key := range expired {
		c.remove(key)
	}
	return len(expired)
}

// #endregion delete-clear

// #region stats-accessors

// Len returns the current entry count, including not-yet-swept expired
// entries.
func (c *Cache[T]) Len() int {
	return len(c.entries)
}

// Stats returns a snapshot of the cache telemetry.
func (c *Cache[T]) Stats() Stats {
	total := c.hits + c.misses
	rate := 0.0
	if total > 0 {
		rate = float64(c.hits) / float64(total)
	}
	return Stats{
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		Size:      len(c.entries),
		HitRate:   rate,
	}
}

// #endregion stats-accessors

// #region eviction

// evictOne removes one entry per the configured policy. An empty cache is
// a no-op, not an error.
func (c *Cache[T]) evictOne() {
	if len(c.entries) == 0 {
		return
	}

	var victim string
	switch c.policy {
	case PolicyLRU:
		victim = c.recency[0]
	case PolicyLFU:
		lowest := -1
		for key, entry := range c.entries {
			if lowest < 0 || entry.AccessCount < lowest {
				lowest = entry.AccessCount
				victim = key
			}
		}
	case PolicyFIFO:
		var oldest time.Time
		first := true
		for key, entry := range c.entries {
			if first || entry.CreatedAt.Before(oldest) {
				oldest = entry.CreatedAt
				victim = key
				first = false
			}
		}
	}

	c.remove(victim)
	c.evictions++
}

// #endregion eviction

// #region helpers

func (c *Cache[T]) expired(entry *Entry[T]) bool {
	return !entry.ExpiresAt.After(c.now())
}

func (c *Cache[T]) remove(key string) {
	if _, ok := c.entries[key]; !ok {
		return
	}
	delete(c.entries, key)
	for i, k := range c.recency {
		if k == key {
			c.recency = append(c.recency[:i], c.recency[i+1:]...)
			break
		}
	}
}

// touch relocates key to the most-recent end of the recency order.
func (c *Cache[T]) touch(key string) {
	for i, k := range c.recency {
		if k == key {
			c.recency = append(c.recency[:i], c.recency[i+1:]...)
			c.recency = append(c.recency, key)
			return
		}
	}
}

// #endregion helpers
