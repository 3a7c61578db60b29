// Package cache provides the memoizing factories used when many distinct
// phase functions are composed from continuous particle size
// distributions. Rebuilding an identical phase function or sampling
// lookup table is far more expensive than a map probe, and downstream
// code compares families by identity in hot paths, so identical
// construction parameters must yield the same shared instance.
//
// Caches are explicit objects scoped to a simulation session; there are
// no package-level maps. Entries are never evicted, which matches the
// append-only usage pattern of a session but makes long-lived caches
// grow without bound.
package cache

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Key builds a cache key from a factory name and its exact argument
// values. Floats are keyed bit-exactly (no rounding): near-identical
// values from non-identical upstream computations intentionally miss.
func Key(factory string, args ...float64) string {
	var sb strings.Builder
	sb.WriteString(factory)
	for _, a := range args {
		sb.WriteByte('|')
		sb.WriteString(strconv.FormatFloat(a, 'b', -1, 64))
	}
	return sb.String()
}

// ObjCache memoizes constructed objects by their construction
// parameters. Safe for concurrent use; the construction callback runs
// under the cache lock so racing callers observe one shared instance.
type ObjCache struct {
	mu      sync.Mutex
	entries map[string]interface{}
}

// NewObjCache creates an empty object cache.
func NewObjCache() *ObjCache {
	return &ObjCache{entries: make(map[string]interface{})}
}

// Get returns the object cached under key, constructing and storing it
// with build on the first request. All callers that present the same key
// share the returned instance and must treat it as read-only.
func (c *ObjCache) Get(key string, build func() interface{}) interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()

	obj, ok := c.entries[key]
	if !ok {
		obj = build()
		c.entries[key] = obj
	}
	return obj
}

// Len returns the number of cached entries.
func (c *ObjCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Lut is a memoized sampling lookup table. The table data is reachable
// only through a copying accessor so cached entries cannot be mutated
// through aliased references.
type Lut struct {
	values []float64
}

// NewLut wraps table values into an immutable lookup table entry.
func NewLut(values []float64) *Lut {
	owned := make([]float64, len(values))
	copy(owned, values)
	return &Lut{values: owned}
}

// Len returns the number of table nodes.
func (l *Lut) Len() int { return len(l.values) }

// At returns the table value at the given node.
func (l *Lut) At(i int) float64 { return l.values[i] }

// Values returns a fresh copy of the table data.
func (l *Lut) Values() []float64 {
	out := make([]float64, len(l.values))
	copy(out, l.values)
	return out
}

// LutCache memoizes lookup tables by their construction parameters.
// Safe for concurrent use.
type LutCache struct {
	mu      sync.Mutex
	entries map[string]*Lut
}

// NewLutCache creates an empty lookup table cache.
func NewLutCache() *LutCache {
	return &LutCache{entries: make(map[string]*Lut)}
}

// Get returns the table cached under key, building and storing it on the
// first request.
func (c *LutCache) Get(key string, build func() []float64) *Lut {
	c.mu.Lock()
	defer c.mu.Unlock()

	lut, ok := c.entries[key]
	if !ok {
		lut = NewLut(build())
		c.entries[key] = lut
	}
	return lut
}

// Len returns the number of cached tables.
func (c *LutCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// String implements Stringer for diagnostics.
func (c *LutCache) String() string {
	return fmt.Sprintf("LutCache(%d tables)", c.Len())
}
