package interpolate

import "errors"

var (
	// ErrOutOfRange is returned when a point or index lies outside the
	// envelope covered by a grid. Query paths return it unwrapped.
	ErrOutOfRange = errors.New("out of range")
	// ErrConfiguration is returned when a grid or a query is missing a
	// required piece, such as an axis or every field source.
	ErrConfiguration = errors.New("configuration error")
	// ErrInvariant is returned when grid data is internally inconsistent,
	// e.g. the sample count does not match the product of the axis lengths.
	ErrInvariant = errors.New("invariant violation")
)
