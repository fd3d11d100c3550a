package gomag

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// FieldVector is a magnetic field value. The components are (Bx, By, Bz) in a
// Cartesian field coordinate system and (Bphi, Brho, Bz) in a cylindrical one.
type FieldVector [3]float64

// B1 returns the first component.
func (v FieldVector) B1() float64 { return v[0] }

// B2 returns the second component.
func (v FieldVector) B2() float64 { return v[1] }

// B3 returns the third component.
func (v FieldVector) B3() float64 { return v[2] }

// Magnitude returns the Euclidean norm of v.
func (v FieldVector) Magnitude() float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// Add returns v + u.
func (v FieldVector) Add(u FieldVector) FieldVector {
	return FieldVector{v[0] + u[0], v[1] + u[1], v[2] + u[2]}
}

// Sub returns v - u.
func (v FieldVector) Sub(u FieldVector) FieldVector {
	return FieldVector{v[0] - u[0], v[1] - u[1], v[2] - u[2]}
}

// Scale returns s * v.
func (v FieldVector) Scale(s float64) FieldVector {
	return FieldVector{s * v[0], s * v[1], s * v[2]}
}

// Format returns the components and the magnitude of v, which is in kG,
// converted to the given unit.
func (v FieldVector) Format(unit FieldUnit) string {
	f := unit.FromKiloGauss()
	return fmt.Sprintf("(%-12.5e, %-12.5e, %-12.5e) [%s], magnitude: %12.5f",
		v[0]*f, v[1]*f, v[2]*f, unit, v.Magnitude()*f)
}

func (v FieldVector) String() string {
	return fmt.Sprintf("(%-9.5f, %-9.5f, %-9.5f) kG, magnitude: %12.5f kG",
		v[0], v[1], v[2], v.Magnitude())
}

// Geometry is the kind of field source a grid describes.
type Geometry int

const (
	// Torus grids are three dimensional: phi, rho, z.
	Torus Geometry = iota
	// Solenoid grids are azimuthally symmetric and two dimensional: rho, z.
	Solenoid
)

func (g Geometry) String() string {
	switch g {
	case Torus:
		return "TORUS"
	case Solenoid:
		return "SOLENOID"
	}
	return fmt.Sprintf("Geometry(%d)", int(g))
}

// CoordSystem identifies a coordinate system. The values match the map file
// format.
type CoordSystem int

const (
	Cylindrical CoordSystem = iota
	Cartesian
)

func (cs CoordSystem) String() string {
	switch cs {
	case Cylindrical:
		return "cylindrical"
	case Cartesian:
		return "Cartesian"
	}
	return fmt.Sprintf("CoordSystem(%d)", int(cs))
}

// Valid returns true if cs is a known coordinate system.
func (cs CoordSystem) Valid() bool { return cs == Cylindrical || cs == Cartesian }

// LengthUnit is the unit of grid lengths.
type LengthUnit int

const (
	Centimeters LengthUnit = iota
	Meters
)

func (u LengthUnit) String() string {
	switch u {
	case Centimeters:
		return "cm"
	case Meters:
		return "m"
	}
	return fmt.Sprintf("LengthUnit(%d)", int(u))
}

// Valid returns true if u is a known length unit.
func (u LengthUnit) Valid() bool { return u == Centimeters || u == Meters }

// ToCentimeters returns the factor converting lengths in u to cm.
func (u LengthUnit) ToCentimeters() float64 {
	if u == Meters {
		return 100
	}
	return 1
}

// AngleUnit is the unit of grid angles.
type AngleUnit int

const (
	Degrees AngleUnit = iota
	Radians
)

func (u AngleUnit) String() string {
	switch u {
	case Degrees:
		return "degrees"
	case Radians:
		return "radians"
	}
	return fmt.Sprintf("AngleUnit(%d)", int(u))
}

// Valid returns true if u is a known angle unit.
func (u AngleUnit) Valid() bool { return u == Degrees || u == Radians }

// ToDegrees returns the factor converting angles in u to degrees.
func (u AngleUnit) ToDegrees() float64 {
	if u == Radians {
		return 180 / math.Pi
	}
	return 1
}

// FieldUnit is the unit of field values.
type FieldUnit int

const (
	KiloGauss FieldUnit = iota
	Gauss
	Tesla
)

func (u FieldUnit) String() string {
	switch u {
	case KiloGauss:
		return "kG"
	case Gauss:
		return "G"
	case Tesla:
		return "T"
	}
	return fmt.Sprintf("FieldUnit(%d)", int(u))
}

// Valid returns true if u is a known field unit.
func (u FieldUnit) Valid() bool { return u >= KiloGauss && u <= Tesla }

// ToKiloGauss returns the factor converting field values in u to kG.
func (u FieldUnit) ToKiloGauss() float64 {
	switch u {
	case Gauss:
		return 1e-3
	case Tesla:
		return 10
	}
	return 1
}

// FromKiloGauss returns the factor converting field values in kG to u.
func (u FieldUnit) FromKiloGauss() float64 {
	switch u {
	case Gauss:
		return 1000
	case Tesla:
		return 0.1
	}
	return 1
}

// ParseFieldUnit reads "kG", "G" or "T", ignoring case except that "g" and
// "G" both mean Gauss.
func ParseFieldUnit(s string) (FieldUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "kg":
		return KiloGauss, nil
	case "g":
		return Gauss, nil
	case "t":
		return Tesla, nil
	}
	return KiloGauss, fmt.Errorf(
		"%w: field unit '%s' is not one of [ kG | G | T ]", ErrConfiguration, s,
	)
}

// Header describes how a map's values are to be interpreted.
type Header struct {
	GridCS, FieldCS CoordSystem
	LengthUnits     LengthUnit
	AngleUnits      AngleUnit
	FieldUnits      FieldUnit
	Created         time.Time
}

// Layout is the nesting order of a torus grid's samples, outermost first.
type Layout int

const (
	// PhiMajor stores samples as (phi, rho, z). This is the map file order.
	PhiMajor Layout = iota
	// ZMajor stores samples as (z, rho, phi).
	ZMajor
)

func (l Layout) String() string {
	switch l {
	case PhiMajor:
		return "phi-major"
	case ZMajor:
		return "z-major"
	}
	return fmt.Sprintf("Layout(%d)", int(l))
}
