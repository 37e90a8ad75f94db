package ec

import (
	"runtime"
	"sync"
	"weak"
)

// PrecompInfo is a precomputed table attached to a point by a multiplication
// algorithm. Published values are never modified.
type PrecompInfo interface{}

// PrecompWNaf is the cache name of WNafPrecompInfo tables.
const PrecompWNaf = "bc_wnaf"

// WNafPrecompInfo holds the odd multiples P, 3P, ..., (2^(Width-1)-1)P of a
// point, their negations and 2P.
type WNafPrecompInfo struct {
	Width      int
	PreComp    []*Point
	PreCompNeg []*Point
	Twice      *Point
}

// PrecompCache maps points to their precomputed tables. Entries live exactly
// as long as the point they describe: the cache only holds weak references to
// its keys and drops an entry once its point has been collected.
type PrecompCache struct {
	mu      sync.Mutex
	entries map[weak.Pointer[Point]]*precompEntry
}

type precompEntry struct {
	mu     sync.Mutex
	tables map[string]PrecompInfo
}

func NewPrecompCache() *PrecompCache {
	return &PrecompCache{entries: make(map[weak.Pointer[Point]]*precompEntry)}
}

// Len returns the number of points with cached tables.
func (c *PrecompCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *PrecompCache) entry(p *Point, create bool) *precompEntry {
	key := weak.Make(p)
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok && create {
		e = &precompEntry{tables: make(map[string]PrecompInfo)}
		c.entries[key] = e
		runtime.AddCleanup(p, c.evict, key)
	}
	return e
}

func (c *PrecompCache) evict(key weak.Pointer[Point]) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	Logger.Trace("dropped precomputation of collected point")
}

// Get returns the table stored for p under name, or nil.
func (c *PrecompCache) Get(p *Point, name string) PrecompInfo {
	e := c.entry(p, false)
	if e == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tables[name]
}

// Set stores info for p under name. info must not reference p.
func (c *PrecompCache) Set(p *Point, name string, info PrecompInfo) {
	e := c.entry(p, true)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tables[name] = info
}

// Compute replaces the table for p under name by fn(existing) while holding
// the lock of p, so that concurrent callers build a table only once. fn may
// return existing unchanged. The result must not reference p.
func (c *PrecompCache) Compute(p *Point, name string, fn func(existing PrecompInfo) PrecompInfo) PrecompInfo {
	e := c.entry(p, true)
	e.mu.Lock()
	defer e.mu.Unlock()
	info := fn(e.tables[name])
	e.tables[name] = info
	return info
}
