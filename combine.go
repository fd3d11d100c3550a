package gomag

import (
	"errors"
)

// Composite returns the sum of the fields of a and b at the Cartesian point
// (x, y, z). Either grid may be nil, but not both. A grid which does not
// cover the point contributes nothing, and ErrOutOfRange is only returned
// if no present grid covers it.
func Composite(a, b *Grid, x, y, z float64) (FieldVector, error) {
	if a == nil && b == nil {
		return FieldVector{}, ErrConfiguration
	}

	var (
		sum     FieldVector
		covered bool
	)
	for _, g := range [2]*Grid{a, b} {
		if g == nil {
			continue
		}
		v, err := g.Value(x, y, z)
		switch {
		case err == nil:
			sum, covered = sum.Add(v), true
		case errors.Is(err, ErrOutOfRange):
		default:
			return FieldVector{}, err
		}
	}

	if !covered {
		return FieldVector{}, ErrOutOfRange
	}
	return sum, nil
}

// Combiner superposes a torus and a solenoid. It borrows its grids: they
// are not copied and their caches are shared with any other user of the
// same Grid values.
type Combiner struct {
	torus, solenoid *Grid
}

// NewCombiner creates a Combiner. Either grid may be nil.
func NewCombiner(torus, solenoid *Grid) *Combiner {
	c := &Combiner{}
	c.SetSources(torus, solenoid)
	return c
}

// SetSources replaces the combined grids. The cache of every grid which was
// not already in use is reset, so stale cells from an earlier user are not
// reused.
func (c *Combiner) SetSources(torus, solenoid *Grid) {
	if torus != nil && torus != c.torus {
		torus.ResetCache()
	}
	if solenoid != nil && solenoid != c.solenoid {
		solenoid.ResetCache()
	}
	c.torus, c.solenoid = torus, solenoid
}

// Sources returns the combined grids.
func (c *Combiner) Sources() (torus, solenoid *Grid) {
	return c.torus, c.solenoid
}

// Empty returns true if the Combiner has no grids.
func (c *Combiner) Empty() bool { return c.torus == nil && c.solenoid == nil }

// Value returns the combined field at the Cartesian point (x, y, z). See
// Composite.
func (c *Combiner) Value(x, y, z float64) (FieldVector, error) {
	return Composite(c.torus, c.solenoid, x, y, z)
}

// Magnitude returns the magnitude of the combined field at (x, y, z).
func (c *Combiner) Magnitude(x, y, z float64) (float64, error) {
	b, err := c.Value(x, y, z)
	if err != nil {
		return 0, err
	}
	return b.Magnitude(), nil
}

// Ref returns a Combiner over Refs of this Combiner's grids, for use by
// another goroutine.
func (c *Combiner) Ref() *Combiner {
	ref := &Combiner{}
	if c.torus != nil {
		ref.torus = c.torus.Ref()
	}
	if c.solenoid != nil {
		ref.solenoid = c.solenoid.Ref()
	}
	return ref
}
