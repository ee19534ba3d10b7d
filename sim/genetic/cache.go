package genetic

import (
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/inference-sim/krpsim/sim"
)

// Cache memoizes run outcomes by weights and seed. It is advisory: a miss
// only means the Individual has to be simulated.
//
// Thread-safety: safe for concurrent use.
type Cache struct {
	mu       sync.Mutex
	capacity int
	entries  map[uint64]sim.Outcome
	order    []uint64 // insertion order, oldest first
	hits     int
	misses   int
}

// NewCache creates a cache holding at most capacity outcomes.
// A capacity of 0 yields a cache that never stores anything.
func NewCache(capacity int) *Cache {
	return &Cache{
		capacity: capacity,
		entries:  make(map[uint64]sim.Outcome),
	}
}

// CacheKey hashes the canonical weights together with seed.
func CacheKey(w *sim.Weights, seed int64) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(w.Canonical())
	_, _ = d.WriteString("|")
	_, _ = d.WriteString(strconv.FormatInt(seed, 10))
	return d.Sum64()
}

// Get returns the outcome stored under key.
func (c *Cache) Get(key uint64) (sim.Outcome, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	o, ok := c.entries[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return o, ok
}

// Put stores o under key, evicting the oldest entry when full. Traces are
// not cached.
func (c *Cache) Put(key uint64, o sim.Outcome) {
	if c.capacity <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; exists {
		return
	}
	for len(c.order) >= c.capacity {
		delete(c.entries, c.order[0])
		c.order = c.order[1:]
	}
	o.Trace = nil
	c.entries[key] = o
	c.order = append(c.order, key)
}

// Reset drops every entry and zeroes the counters.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[uint64]sim.Outcome)
	c.order = nil
	c.hits, c.misses = 0, 0
}

// Len returns the number of stored outcomes.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns the hit and miss counts since the last Reset.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
