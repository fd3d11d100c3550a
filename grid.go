/*package gomag evaluates magnetic field maps: pre-tabulated field samples on
non-uniform torus (phi, rho, z) or solenoid (rho, z) grids.

Query coordinates are Cartesian and in cm. Results are Cartesian field
vectors in kG. A Grid caches the last cell it looked in, so a single Grid must
not be queried from more than one goroutine; use Ref to make a copy for each
goroutine instead.
*/
package gomag

import (
	"fmt"
	"math"

	"github.com/phil-mansfield/gomag/geom"
	"github.com/phil-mansfield/gomag/math/interpolate"
)

// Options are the construction parameters of a Grid which are not part of
// its axes or samples.
type Options struct {
	// Symmetric torus maps store only the [0, 30] degree wedge of sector 1.
	Symmetric bool
	// Layout is the nesting order of the samples. Solenoid grids only use
	// the relative order of rho and z.
	Layout Layout
	Header Header
	// Path is the file the map was read from, if any.
	Path string
}

// Grid is a field map: two or three axes and one sample per node. Samples
// are in canonical units: axes in cm and degrees, fields in kG.
type Grid struct {
	Kind      Geometry
	Symmetric bool
	// Scale multiplies every value returned by the Grid.
	Scale float64
	// Shifts are subtracted from query coordinates before lookup.
	ShiftX, ShiftY, ShiftZ float64

	Header Header
	Path   string

	layout      Layout
	phi, rho, z *interpolate.Axis
	vals        []FieldVector

	tri *interpolate.TriLinear[FieldVector]
	bi  *interpolate.BiLinear[FieldVector]

	metrics Metrics
}

// NewTorus creates a three dimensional grid. vals must be ordered according
// to opt.Layout and must not be modified afterwards.
func NewTorus(
	phi, rho, z *interpolate.Axis, vals []FieldVector, opt Options,
) (*Grid, error) {
	if phi == nil || rho == nil || z == nil {
		return nil, fmt.Errorf(
			"%w: a torus grid needs phi, rho, and z axes", ErrConfiguration,
		)
	}

	g := newGrid(Torus, opt)
	g.phi, g.rho, g.z, g.vals = phi, rho, z, vals

	var err error
	switch opt.Layout {
	case PhiMajor:
		g.tri, err = interpolate.NewTriLinear(phi, rho, z, vals)
	case ZMajor:
		g.tri, err = interpolate.NewTriLinear(z, rho, phi, vals)
	default:
		err = fmt.Errorf("%w: unknown layout %s", ErrConfiguration, opt.Layout)
	}
	if err != nil {
		return nil, fmt.Errorf("torus grid: %w", err)
	}

	g.metrics = computeMetrics(vals)
	return g, nil
}

// NewSolenoid creates an azimuthally symmetric two dimensional grid. The
// samples describe the field in the phi = 0 half-plane.
func NewSolenoid(
	rho, z *interpolate.Axis, vals []FieldVector, opt Options,
) (*Grid, error) {
	if rho == nil || z == nil {
		return nil, fmt.Errorf(
			"%w: a solenoid grid needs rho and z axes", ErrConfiguration,
		)
	}

	// Solenoids are symmetric by construction, but not in the folded sense.
	opt.Symmetric = false
	g := newGrid(Solenoid, opt)
	g.rho, g.z, g.vals = rho, z, vals

	var err error
	switch opt.Layout {
	case PhiMajor:
		g.bi, err = interpolate.NewBiLinear(rho, z, vals)
	case ZMajor:
		g.bi, err = interpolate.NewBiLinear(z, rho, vals)
	default:
		err = fmt.Errorf("%w: unknown layout %s", ErrConfiguration, opt.Layout)
	}
	if err != nil {
		return nil, fmt.Errorf("solenoid grid: %w", err)
	}

	g.metrics = computeMetrics(vals)
	return g, nil
}

func newGrid(kind Geometry, opt Options) *Grid {
	return &Grid{
		Kind:      kind,
		Symmetric: opt.Symmetric,
		Scale:     1,
		Header:    opt.Header,
		Path:      opt.Path,
		layout:    opt.Layout,
	}
}

// Phi returns the azimuthal axis, or nil for a solenoid.
func (g *Grid) Phi() *interpolate.Axis { return g.phi }

// Rho returns the radial axis.
func (g *Grid) Rho() *interpolate.Axis { return g.rho }

// Z returns the longitudinal axis.
func (g *Grid) Z() *interpolate.Axis { return g.z }

// Layout returns the nesting order of the samples.
func (g *Grid) Layout() Layout { return g.layout }

// Len returns the number of samples.
func (g *Grid) Len() int { return len(g.vals) }

// Metrics returns summary statistics computed when the grid was created.
func (g *Grid) Metrics() Metrics { return g.metrics }

// Value returns the field at the Cartesian point (x, y, z). The grid's shift
// is subtracted from the point and the result is multiplied by its scale.
// ErrOutOfRange is returned if the point is not covered by the map.
func (g *Grid) Value(x, y, z float64) (FieldVector, error) {
	phi, rho := geom.CartesianToCylindrical(x-g.ShiftX, y-g.ShiftY)
	b, err := g.cylindrical(phi, rho, z-g.ShiftZ)
	if err != nil {
		return b, err
	}
	return b.Scale(g.Scale), nil
}

// ValueCylindrical is Value for a point given by its azimuth in degrees,
// radius and z.
func (g *Grid) ValueCylindrical(phi, rho, z float64) (FieldVector, error) {
	x, y := geom.CylindricalToCartesian(phi, rho)
	return g.Value(x, y, z)
}

// Contains returns true if the map covers the Cartesian point (x, y, z).
func (g *Grid) Contains(x, y, z float64) bool {
	phi, rho := geom.CartesianToCylindrical(x-g.ShiftX, y-g.ShiftY)
	z -= g.ShiftZ

	if !g.rho.Contains(rho) || !g.z.Contains(z) {
		return false
	}
	switch {
	case g.Kind == Solenoid:
		return true
	case g.Symmetric:
		return g.phi.Contains(FoldAzimuth(phi).Wedge())
	}
	return g.phi.Contains(phi)
}

// Nearest returns the field at the map node closest to the Cartesian point
// (x, y, z), with the same shift, scale and symmetry handling as Value.
func (g *Grid) Nearest(x, y, z float64) (FieldVector, error) {
	phi, rho := geom.CartesianToCylindrical(x-g.ShiftX, y-g.ShiftY)
	z -= g.ShiftZ

	var (
		b   FieldVector
		err error
	)
	switch {
	case g.Kind == Solenoid:
		b, _, err = g.nearest(0, rho, z)
		b = g.toCartesian(b, phi)
	case g.Symmetric:
		f := FoldAzimuth(phi)
		b, _, err = g.nearest(f.Wedge(), rho, z)
		b = f.Unfold(g.toCartesian(b, f.Wedge()))
	default:
		b, _, err = g.nearest(phi, rho, z)
		b = g.toCartesian(b, phi)
	}

	if err != nil {
		return FieldVector{}, err
	}
	return b.Scale(g.Scale), nil
}

// At returns the raw sample with composite index i.
func (g *Grid) At(i int) (FieldVector, error) {
	if i < 0 || i >= len(g.vals) {
		return FieldVector{}, ErrOutOfRange
	}
	return g.vals[i], nil
}

// Sample returns the raw sample at the node with axis indices (iPhi, iRho,
// iZ), independent of the layout. iPhi must be 0 for a solenoid.
func (g *Grid) Sample(iPhi, iRho, iZ int) (FieldVector, error) {
	nPhi := 1
	if g.phi != nil {
		nPhi = g.phi.Len()
	}
	if iPhi < 0 || iPhi >= nPhi || iRho < 0 || iRho >= g.rho.Len() ||
		iZ < 0 || iZ >= g.z.Len() {
		return FieldVector{}, ErrOutOfRange
	}
	return g.vals[g.encode([3]int{iPhi, iRho, iZ})], nil
}

// Location returns the grid coordinates of the node with composite index i.
// phi is 0 for a solenoid.
func (g *Grid) Location(i int) (phi, rho, z float64, err error) {
	var idx [3]int
	if err = g.decode(i, &idx); err != nil {
		return 0, 0, 0, err
	}
	iPhi, iRho, iZ := idx[0], idx[1], idx[2]

	if g.Kind == Torus {
		phi = g.phi.Value(iPhi)
	}
	return phi, g.rho.Value(iRho), g.z.Value(iZ), nil
}

// decode writes the (phi, rho, z) axis indices of composite index i into idx.
func (g *Grid) decode(i int, idx *[3]int) error {
	if g.Kind == Solenoid {
		out := idx[1:3]
		if err := g.bi.Indexer().Decode(i, out); err != nil {
			return err
		}
		if g.layout == ZMajor {
			idx[1], idx[2] = idx[2], idx[1]
		}
		idx[0] = 0
		return nil
	}

	if err := g.tri.Indexer().Decode(i, idx[:]); err != nil {
		return err
	}
	if g.layout == ZMajor {
		idx[0], idx[2] = idx[2], idx[0]
	}
	return nil
}

// Ref returns a Grid sharing this grid's axes and samples but with its own
// cell cache, for use by another goroutine.
func (g *Grid) Ref() *Grid {
	ref := *g
	if g.tri != nil {
		ref.tri = g.tri.Ref()
	}
	if g.bi != nil {
		ref.bi = g.bi.Ref()
	}
	return &ref
}

// Cache returns the grid's cell cache.
func (g *Grid) Cache() *interpolate.CellCache {
	if g.tri != nil {
		return g.tri.Cache()
	}
	return g.bi.Cache()
}

// SetCaching turns the cell cache on or off. Results are the same either
// way.
func (g *Grid) SetCaching(on bool) { g.Cache().SetEnabled(on) }

// ResetCache empties the cell cache.
func (g *Grid) ResetCache() { g.Cache().Reset() }

// cylindrical returns the unscaled field, in Cartesian components, at a
// point given in the grid's own cylindrical frame.
func (g *Grid) cylindrical(phi, rho, z float64) (FieldVector, error) {
	if g.Kind == Solenoid {
		b, err := g.lookup(0, rho, z)
		if err != nil {
			return b, err
		}
		return g.toCartesian(b, phi), nil
	}

	if !g.Symmetric {
		b, err := g.lookup(phi, rho, z)
		if err != nil {
			return b, err
		}
		return g.toCartesian(b, phi), nil
	}

	f := FoldAzimuth(phi)
	b, err := g.lookup(f.Wedge(), rho, z)
	if err != nil {
		return b, err
	}
	return f.Unfold(g.toCartesian(b, f.Wedge())), nil
}

// lookup interpolates the raw samples. phi is ignored for solenoids.
func (g *Grid) lookup(phi, rho, z float64) (FieldVector, error) {
	if g.Kind == Solenoid {
		if g.layout == ZMajor {
			return g.bi.Eval(z, rho)
		}
		return g.bi.Eval(rho, z)
	}

	if g.layout == ZMajor {
		return g.tri.Eval(z, rho, phi)
	}
	return g.tri.Eval(phi, rho, z)
}

// nearest returns the raw sample closest to a point and its composite index.
func (g *Grid) nearest(phi, rho, z float64) (FieldVector, int, error) {
	if g.Kind == Solenoid {
		if g.layout == ZMajor {
			return g.bi.Nearest(z, rho)
		}
		return g.bi.Nearest(rho, z)
	}

	if g.layout == ZMajor {
		return g.tri.Nearest(z, rho, phi)
	}
	return g.tri.Nearest(phi, rho, z)
}

// toCartesian converts a raw sample located at azimuth phi to Cartesian
// components. Solenoid samples live in the phi = 0 half-plane, so their
// Cartesian components are rotated out to phi.
func (g *Grid) toCartesian(b FieldVector, phi float64) FieldVector {
	switch {
	case g.Header.FieldCS == Cylindrical:
		b[0], b[1] = geom.CartesianComponents(b[0], b[1], phi)
	case g.Kind == Solenoid && phi != 0:
		sin, cos := math.Sincos(geom.ToRadians(phi))
		b[0], b[1] = geom.Rotate(b[0], b[1], cos, sin)
	}
	return b
}
