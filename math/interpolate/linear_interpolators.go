package interpolate

import (
	"fmt"
)

/////////////////////////////
// BiLinear Implementation //
/////////////////////////////

// BiLinear is a bi-linear interpolator over vector samples.
type BiLinear[V Vector] struct {
	xs, ys *Axis
	vals   []V
	index  *Indexer
	cache  *CellCache
}

// NewBiLinear creates a bi-linear interpolator for samples laid out with xs
// as the outer dimension: vals[ix*len(ys) + iy].
//
// vals must not be modified throughout the lifetime of the BiLinear.
func NewBiLinear[V Vector](xs, ys *Axis, vals []V) (*BiLinear[V], error) {
	if xs == nil || ys == nil {
		return nil, fmt.Errorf("%w: BiLinear needs two axes", ErrConfiguration)
	}

	index, err := NewIndexer(xs.Len(), ys.Len())
	if err != nil {
		return nil, err
	}

	if index.Len() != len(vals) {
		return nil, fmt.Errorf(
			"%w: len(vals) = %d, but len(%s) = %d and len(%s) = %d",
			ErrInvariant, len(vals), xs.Name(), xs.Len(), ys.Name(), ys.Len(),
		)
	}

	return &BiLinear[V]{
		xs: xs, ys: ys, vals: vals, index: index, cache: NewCellCache(),
	}, nil
}

// Eval returns the interpolated value at (x, y), or ErrOutOfRange if the
// point is outside the grid.
func (bi *BiLinear[V]) Eval(x, y float64) (V, error) {
	var out V

	ix, tx, hx, ok := bi.cache.locate(0, bi.xs, x)
	if !ok {
		return out, ErrOutOfRange
	}
	iy, ty, hy, ok := bi.cache.locate(1, bi.ys, y)
	if !ok {
		return out, ErrOutOfRange
	}
	bi.cache.record(hx && hy)

	i00 := bi.index.Index2(ix, iy)
	i10 := bi.index.Index2(ix+1, iy)

	v0 := lerp(bi.vals[i00], bi.vals[i00+1], ty)
	v1 := lerp(bi.vals[i10], bi.vals[i10+1], ty)
	return lerp(v0, v1, tx), nil
}

// Nearest returns the sample at the node closest to (x, y) and its
// composite index.
func (bi *BiLinear[V]) Nearest(x, y float64) (V, int, error) {
	var out V
	ix, iy := bi.xs.Nearest(x), bi.ys.Nearest(y)
	if ix < 0 || iy < 0 {
		return out, -1, ErrOutOfRange
	}
	n := bi.index.Index2(ix, iy)
	return bi.vals[n], n, nil
}

// Ref creates a shallow copy of the interpolator with its own cache.
func (bi *BiLinear[V]) Ref() *BiLinear[V] {
	ref := *bi
	ref.cache = NewCellCache()
	ref.cache.SetEnabled(bi.cache.Enabled())
	return &ref
}

// Indexer returns the composite indexer of the sample slice.
func (bi *BiLinear[V]) Indexer() *Indexer { return bi.index }

// Cache returns the interpolator's cell cache.
func (bi *BiLinear[V]) Cache() *CellCache { return bi.cache }

//////////////////////////////
// TriLinear Implementation //
//////////////////////////////

// TriLinear is a tri-linear interpolator over vector samples.
type TriLinear[V Vector] struct {
	xs, ys, zs *Axis
	vals       []V
	index      *Indexer
	cache      *CellCache
}

// NewTriLinear creates a tri-linear interpolator for samples laid out with
// xs outermost and zs innermost: vals[(ix*len(ys) + iy)*len(zs) + iz].
//
// vals must not be modified throughout the lifetime of the TriLinear.
func NewTriLinear[V Vector](xs, ys, zs *Axis, vals []V) (*TriLinear[V], error) {
	if xs == nil || ys == nil || zs == nil {
		return nil, fmt.Errorf("%w: TriLinear needs three axes", ErrConfiguration)
	}

	index, err := NewIndexer(xs.Len(), ys.Len(), zs.Len())
	if err != nil {
		return nil, err
	}

	if index.Len() != len(vals) {
		return nil, fmt.Errorf(
			"%w: len(vals) = %d, but len(%s) = %d, len(%s) = %d, and "+
				"len(%s) = %d",
			ErrInvariant, len(vals), xs.Name(), xs.Len(),
			ys.Name(), ys.Len(), zs.Name(), zs.Len(),
		)
	}

	return &TriLinear[V]{
		xs: xs, ys: ys, zs: zs, vals: vals, index: index, cache: NewCellCache(),
	}, nil
}

// Eval returns the interpolated value at (x, y, z), or ErrOutOfRange if the
// point is outside the grid.
func (tri *TriLinear[V]) Eval(x, y, z float64) (V, error) {
	var out V

	ix, tx, hx, ok := tri.cache.locate(0, tri.xs, x)
	if !ok {
		return out, ErrOutOfRange
	}
	iy, ty, hy, ok := tri.cache.locate(1, tri.ys, y)
	if !ok {
		return out, ErrOutOfRange
	}
	iz, tz, hz, ok := tri.cache.locate(2, tri.zs, z)
	if !ok {
		return out, ErrOutOfRange
	}
	tri.cache.record(hx && hy && hz)

	// Corners are named by their (x, y) offsets. The z neighbor of each
	// corner is the next sample.
	i00 := tri.index.Index3(ix, iy, iz)
	i01 := tri.index.Index3(ix, iy+1, iz)
	i10 := tri.index.Index3(ix+1, iy, iz)
	i11 := tri.index.Index3(ix+1, iy+1, iz)

	v00 := lerp(tri.vals[i00], tri.vals[i00+1], tz)
	v01 := lerp(tri.vals[i01], tri.vals[i01+1], tz)
	v10 := lerp(tri.vals[i10], tri.vals[i10+1], tz)
	v11 := lerp(tri.vals[i11], tri.vals[i11+1], tz)

	v0 := lerp(v00, v01, ty)
	v1 := lerp(v10, v11, ty)
	return lerp(v0, v1, tx), nil
}

// Nearest returns the sample at the node closest to (x, y, z) and its
// composite index.
func (tri *TriLinear[V]) Nearest(x, y, z float64) (V, int, error) {
	var out V
	ix, iy, iz := tri.xs.Nearest(x), tri.ys.Nearest(y), tri.zs.Nearest(z)
	if ix < 0 || iy < 0 || iz < 0 {
		return out, -1, ErrOutOfRange
	}
	n := tri.index.Index3(ix, iy, iz)
	return tri.vals[n], n, nil
}

// Ref creates a shallow copy of the interpolator with its own cache.
func (tri *TriLinear[V]) Ref() *TriLinear[V] {
	ref := *tri
	ref.cache = NewCellCache()
	ref.cache.SetEnabled(tri.cache.Enabled())
	return &ref
}

// Indexer returns the composite indexer of the sample slice.
func (tri *TriLinear[V]) Indexer() *Indexer { return tri.index }

// Cache returns the interpolator's cell cache.
func (tri *TriLinear[V]) Cache() *CellCache { return tri.cache }
