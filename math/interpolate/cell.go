package interpolate

import (
	"math"
)

// maxDims is the largest grid dimensionality a CellCache supports.
const maxDims = 3

// span is the coordinate range of one cell along one axis. lo and hi are
// the values of nodes idx and idx+1, so lo > hi on a descending axis.
type span struct {
	lo, hi float64
	idx    int
}

func (s *span) contains(incr bool, x float64) bool {
	if incr {
		return s.lo <= x && x < s.hi
	}
	return s.lo >= x && x > s.hi
}

// CellCache remembers the most recently located grid cell. Callers usually
// sweep through space in small steps, so the next point is likely to be in
// the same cell and the axis searches can be skipped.
//
// A CellCache is mutated by every lookup and is not safe for concurrent use.
// Results never depend on the cache's state.
type CellCache struct {
	spans    [maxDims]span
	disabled bool

	hits, misses uint64
}

// NewCellCache returns an empty, enabled cache.
func NewCellCache() *CellCache {
	c := &CellCache{}
	c.Reset()
	return c
}

// Reset empties the cache. Every bound is set to NaN so that every
// containment test fails until the next lookup.
func (c *CellCache) Reset() {
	for d := range c.spans {
		c.spans[d] = span{lo: math.NaN(), hi: math.NaN(), idx: -1}
	}
}

// SetEnabled turns caching on or off. A disabled cache always runs the full
// axis search.
func (c *CellCache) SetEnabled(on bool) {
	c.disabled = !on
	c.Reset()
}

// Enabled returns true if the cache is in use.
func (c *CellCache) Enabled() bool { return !c.disabled }

// Stats returns the number of lookups which reused the cached cell on every
// axis and the number which needed at least one search.
func (c *CellCache) Stats() (hits, misses uint64) { return c.hits, c.misses }

// Index returns the cached lower-corner index along dimension d, or -1.
func (c *CellCache) Index(d int) int { return c.spans[d].idx }

// Bounds returns the cached node values bounding the cell along dimension d.
// They are NaN if the cache is empty.
func (c *CellCache) Bounds(d int) (lo, hi float64) {
	return c.spans[d].lo, c.spans[d].hi
}

// locate finds the cell of x along axis d, consulting the cached span first.
// It reports whether the cached span was reused.
func (c *CellCache) locate(
	d int, ax *Axis, x float64,
) (i int, t float64, hit, ok bool) {
	s := &c.spans[d]
	if !c.disabled && s.contains(ax.incr, x) {
		return s.idx, ax.Fraction(s.idx, x), true, true
	}

	i, t, ok = ax.Locate(x)
	if !ok {
		return -1, 0, false, false
	}
	if !c.disabled {
		s.lo, s.hi, s.idx = ax.vals[i], ax.vals[i+1], i
	}
	return i, t, false, true
}

// record updates the hit counters after a full lookup.
func (c *CellCache) record(hit bool) {
	if hit {
		c.hits++
	} else {
		c.misses++
	}
}
