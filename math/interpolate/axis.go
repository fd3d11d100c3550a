package interpolate

import (
	"fmt"
	"math"
)

// Axis is an immutable, strictly monotonic sequence of coordinate values
// along one dimension of a grid. Spacing does not need to be uniform.
type Axis struct {
	name string
	vals []float64
	incr bool

	// Usually the input data is uniform. This is our estimate of the point
	// spacing, used to guess an index before falling back to bisection.
	dx float64
}

// NewAxis creates an axis from a sequence of strictly increasing or strictly
// decreasing values. The values are copied.
func NewAxis(name string, vals []float64) (*Axis, error) {
	if len(vals) < 2 {
		return nil, fmt.Errorf(
			"%w: axis '%s' has %d nodes, need at least 2",
			ErrInvariant, name, len(vals),
		)
	}

	for i, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf(
				"%w: axis '%s' has non-finite value %g at node %d",
				ErrInvariant, name, v, i,
			)
		}
	}

	ax := &Axis{name: name, incr: vals[0] < vals[1]}
	for i := 0; i < len(vals)-1; i++ {
		if (vals[i] < vals[i+1]) != ax.incr || vals[i] == vals[i+1] {
			return nil, fmt.Errorf(
				"%w: axis '%s' is not strictly monotonic at node %d",
				ErrInvariant, name, i,
			)
		}
	}

	ax.vals = make([]float64, len(vals))
	copy(ax.vals, vals)
	ax.dx = (vals[len(vals)-1] - vals[0]) / float64(len(vals)-1)

	return ax, nil
}

// NewUniformAxis creates an axis of n evenly spaced values running from
// first to last. first may be larger than last.
func NewUniformAxis(name string, first, last float64, n int) (*Axis, error) {
	if n < 2 {
		return nil, fmt.Errorf(
			"%w: axis '%s' has %d nodes, need at least 2", ErrInvariant, name, n,
		)
	}

	vals := make([]float64, n)
	dx := (last - first) / float64(n-1)
	for i := range vals {
		vals[i] = first + float64(i)*dx
	}
	// Avoid accumulating rounding error in the last node.
	vals[n-1] = last

	return NewAxis(name, vals)
}

// Name returns the axis label, e.g. "phi".
func (ax *Axis) Name() string { return ax.name }

// Len returns the number of nodes.
func (ax *Axis) Len() int { return len(ax.vals) }

// Value returns the i-th node.
func (ax *Axis) Value(i int) float64 { return ax.vals[i] }

// Values returns a copy of the nodes.
func (ax *Axis) Values() []float64 {
	out := make([]float64, len(ax.vals))
	copy(out, ax.vals)
	return out
}

// Increasing returns true if the nodes are stored in ascending order.
func (ax *Axis) Increasing() bool { return ax.incr }

// Min returns the smallest node.
func (ax *Axis) Min() float64 {
	if ax.incr {
		return ax.vals[0]
	}
	return ax.vals[len(ax.vals)-1]
}

// Max returns the largest node.
func (ax *Axis) Max() float64 {
	if ax.incr {
		return ax.vals[len(ax.vals)-1]
	}
	return ax.vals[0]
}

// Contains returns true if x lies in the closed range [Min(), Max()].
func (ax *Axis) Contains(x float64) bool {
	return x >= ax.Min() && x <= ax.Max()
}

// String returns a one-line description of the axis.
func (ax *Axis) String() string {
	return fmt.Sprintf(
		"%-4s min: %8.3f  max: %8.3f  Np: %4d  delta: %8.3f",
		ax.name, ax.Min(), ax.Max(), len(ax.vals), math.Abs(ax.dx),
	)
}

// below returns true if x lies at or past node i in the direction of
// the axis.
func (ax *Axis) below(i int, x float64) bool {
	if ax.incr {
		return ax.vals[i] <= x
	}
	return ax.vals[i] >= x
}

// inCell returns true if x lies in the half-open cell [vals[i], vals[i+1]).
func (ax *Axis) inCell(i int, x float64) bool {
	if ax.incr {
		return ax.vals[i] <= x && x < ax.vals[i+1]
	}
	return ax.vals[i] >= x && x > ax.vals[i+1]
}

// Search returns the index i such that x lies in the half-open cell starting
// at node i, i.e. vals[i] <= x < vals[i+1] for an ascending axis and
// vals[i] >= x > vals[i+1] for a descending one. -1 is returned if x is
// before the first node, at or past the last node, or NaN.
func (ax *Axis) Search(x float64) int {
	n := len(ax.vals)
	if !ax.below(0, x) || ax.below(n-1, x) {
		return -1
	}

	// Guess under the assumption of uniform spacing.
	guess := int((x - ax.vals[0]) / ax.dx)
	if guess >= 0 && guess < n-1 && ax.inCell(guess, x) {
		return guess
	}

	// Binary search. vals[lo] is always at or before x and vals[hi] is
	// always past it.
	lo, hi := 0, n-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if ax.below(mid, x) {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo
}

// Locate returns the cell containing x together with the fractional position
// of x inside that cell. Unlike Search, the final node is covered: it
// resolves to the last cell with t = 1. ok is false if x is outside the axis.
func (ax *Axis) Locate(x float64) (i int, t float64, ok bool) {
	n := len(ax.vals)
	if x == ax.vals[n-1] {
		return n - 2, 1, true
	}

	i = ax.Search(x)
	if i < 0 {
		return -1, 0, false
	}
	return i, ax.Fraction(i, x), true
}

// Fraction returns (x - vals[i]) / (vals[i+1] - vals[i]).
func (ax *Axis) Fraction(i int, x float64) float64 {
	if x == ax.vals[i] {
		return 0
	} else if x == ax.vals[i+1] {
		return 1
	}
	return (x - ax.vals[i]) / (ax.vals[i+1] - ax.vals[i])
}

// Nearest returns the index of the node closest to x, or -1 if x is outside
// the axis.
func (ax *Axis) Nearest(x float64) int {
	i, t, ok := ax.Locate(x)
	if !ok {
		return -1
	}
	if t < 0.5 {
		return i
	}
	return i + 1
}
