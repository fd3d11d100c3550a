/*package interpolate implements multilinear interpolation of vector samples
on non-uniform grids, along with the axis search and cell caching it is
built on.

Interpolators cache the most recently used cell, so they are not thread
safe. Each goroutine using the same grid must make its own copy with Ref
first.
*/
package interpolate

// Vector is the sample type interpolators operate on: three components which
// are blended independently.
type Vector interface {
	~[3]float64
}

// lerp blends a and b component by component. The result is exactly a at
// t = 0 and exactly b at t = 1.
func lerp[V Vector](a, b V, t float64) V {
	s := 1 - t
	return V{
		a[0]*s + b[0]*t,
		a[1]*s + b[1]*t,
		a[2]*s + b[2]*t,
	}
}
