package gomag

import (
	"github.com/phil-mansfield/gomag/math/interpolate"
)

// Errors returned by field lookups. Test for them with errors.Is.
var (
	ErrOutOfRange    = interpolate.ErrOutOfRange
	ErrConfiguration = interpolate.ErrConfiguration
	ErrInvariant     = interpolate.ErrInvariant
)
