package interpolate

import (
	"fmt"
)

// Indexer maps a tuple of axis indices to a position in a flat sample slice
// and back. Encoding is row-major: the first dimension is outermost and the
// last varies fastest. The nesting order must match the order the samples
// were written in.
type Indexer struct {
	dims    []int
	strides []int
	length  int
}

// NewIndexer creates an Indexer for a grid with the given axis lengths,
// outermost first.
func NewIndexer(dims ...int) (*Indexer, error) {
	if len(dims) == 0 {
		return nil, fmt.Errorf("%w: indexer needs at least one dimension",
			ErrConfiguration)
	}

	ix := &Indexer{
		dims:    make([]int, len(dims)),
		strides: make([]int, len(dims)),
		length:  1,
	}
	copy(ix.dims, dims)

	for d := len(dims) - 1; d >= 0; d-- {
		if dims[d] <= 0 {
			return nil, fmt.Errorf(
				"%w: dimension %d has length %d", ErrInvariant, d, dims[d],
			)
		}
		ix.strides[d] = ix.length
		ix.length *= dims[d]
	}

	return ix, nil
}

// Len returns the number of samples the Indexer covers.
func (ix *Indexer) Len() int { return ix.length }

// Dims returns the number of dimensions.
func (ix *Indexer) Dims() int { return len(ix.dims) }

// Index returns the composite index of the given axis indices.
func (ix *Indexer) Index(idx ...int) (int, error) {
	if len(idx) != len(ix.dims) {
		return -1, fmt.Errorf(
			"%w: got %d indices for a %d-dimensional grid",
			ErrConfiguration, len(idx), len(ix.dims),
		)
	}

	n := 0
	for d, i := range idx {
		if i < 0 || i >= ix.dims[d] {
			return -1, ErrOutOfRange
		}
		n += i * ix.strides[d]
	}
	return n, nil
}

// Index2 is an unchecked Index for two-dimensional grids.
func (ix *Indexer) Index2(i, j int) int {
	return i*ix.strides[0] + j
}

// Index3 is an unchecked Index for three-dimensional grids.
func (ix *Indexer) Index3(i, j, k int) int {
	return i*ix.strides[0] + j*ix.strides[1] + k
}

// Decode inverts Index, writing the axis indices of the composite index n
// into out, which must have length Dims().
func (ix *Indexer) Decode(n int, out []int) error {
	if n < 0 || n >= ix.length {
		return ErrOutOfRange
	} else if len(out) != len(ix.dims) {
		return fmt.Errorf(
			"%w: output has %d slots for a %d-dimensional grid",
			ErrConfiguration, len(out), len(ix.dims),
		)
	}

	for d := range ix.dims {
		out[d] = n / ix.strides[d]
		n %= ix.strides[d]
	}
	return nil
}
