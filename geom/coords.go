/*package geom contains the angle and coordinate system conversions shared by
field lookups and rendering. Angles are in degrees unless a function name
says otherwise.
*/
package geom

import (
	"math"
)

// Tiny is the relative tolerance used by SameNumber.
const Tiny = 1e-8

// ToRadians converts an angle in degrees to radians.
func ToRadians(deg float64) float64 { return deg * math.Pi / 180 }

// ToDegrees converts an angle in radians to degrees.
func ToDegrees(rad float64) float64 { return rad * 180 / math.Pi }

// NormalizeAngle maps an angle in degrees into [0, 360).
func NormalizeAngle(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	// -tiny + 360 can round up to 360.
	if deg >= 360 {
		deg -= 360
	}
	return deg
}

// CartesianToCylindrical returns the azimuth, in degrees within [0, 360),
// and the radius of the point (x, y). z is unchanged by the transformation.
func CartesianToCylindrical(x, y float64) (phi, rho float64) {
	phi = NormalizeAngle(ToDegrees(math.Atan2(y, x)))
	rho = math.Hypot(x, y)
	return phi, rho
}

// CylindricalToCartesian is the inverse of CartesianToCylindrical.
func CylindricalToCartesian(phi, rho float64) (x, y float64) {
	sin, cos := math.Sincos(ToRadians(phi))
	return rho * cos, rho * sin
}

// Rotate rotates (x, y) counterclockwise by the angle whose cosine and sine
// are given.
func Rotate(x, y, cos, sin float64) (rx, ry float64) {
	return x*cos - y*sin, x*sin + y*cos
}

// CylindricalComponents converts the Cartesian components (bx, by) of a
// vector located at azimuth phi into (bphi, brho).
func CylindricalComponents(bx, by, phi float64) (bphi, brho float64) {
	sin, cos := math.Sincos(ToRadians(phi))
	return -bx*sin + by*cos, bx*cos + by*sin
}

// CartesianComponents converts the cylindrical components (bphi, brho) of a
// vector located at azimuth phi into (bx, by).
func CartesianComponents(bphi, brho, phi float64) (bx, by float64) {
	sin, cos := math.Sincos(ToRadians(phi))
	return brho*cos - bphi*sin, brho*sin + bphi*cos
}

// SameNumber returns true if v1 and v2 agree to within a relative
// tolerance of Tiny.
func SameNumber(v1, v2 float64) bool {
	if v1 == v2 {
		return true
	}
	del := math.Abs(v2 - v1)
	return del/math.Max(math.Abs(v1), math.Abs(v2)) < Tiny
}
