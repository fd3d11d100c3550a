package render

import (
	"math"
)

// CoilThickness is the half-width, in cm, of the band around each torus coil
// plane which is masked out of fixed z images.
const CoilThickness = 12.0

var root3Over2 = math.Sqrt(3) / 2

// InCoils returns true if the point (x, y) is (approximately) inside one of
// the torus coils, which lie in the planes x = 0 and x/2 = ±(√3/2)y. Map
// values there are unreliable.
func InCoils(x, y float64) bool {
	return math.Abs(x) < CoilThickness ||
		math.Abs(x/2-root3Over2*y) < CoilThickness ||
		math.Abs(x/2+root3Over2*y) < CoilThickness
}
