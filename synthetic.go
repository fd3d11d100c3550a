package gomag

import (
	"math"

	"github.com/phil-mansfield/gomag/geom"
	"github.com/phil-mansfield/gomag/math/interpolate"
)

// Extents of the synthetic maps, in cm and degrees.
const (
	synthPhiStep = 2.0
	synthRhoMin  = 20.0
	synthRhoMax  = 360.0
	synthRhoStep = 20.0
	synthZMin    = -100.0
	synthZMax    = 500.0
	synthZStep   = 20.0

	synthSolRhoMax  = 300.0
	synthSolRhoStep = 5.0
	synthSolZMax    = 300.0
	synthSolZStep   = 10.0
)

// SyntheticTorusField is the analytic field of the synthetic torus at the
// cylindrical point (phi, rho, z), in Cartesian components and kG. It is a
// toroidal 1/rho field with a sixfold modulation which respects the sector
// symmetry of a real torus.
func SyntheticTorusField(phi, rho, z float64) FieldVector {
	f := 20 * (100 / rho) * math.Exp(-sqr((z-200)/150))
	sin6, cos6 := math.Sincos(6 * geom.ToRadians(phi))

	bphi := f * (1 + 0.1*cos6)
	brho := 0.5 * f * sin6
	bz := 0.3 * f * sin6

	bx, by := geom.CartesianComponents(bphi, brho, phi)
	return FieldVector{bx, by, bz}
}

// SyntheticSolenoidField is the analytic field of the synthetic solenoid in
// the phi = 0 half-plane, in cylindrical components and kG.
func SyntheticSolenoidField(rho, z float64) FieldVector {
	core := 1 / (1 + sqr(sqr(z/150)))
	radial := math.Exp(-sqr(rho / 120))
	bz := 50 * core * radial
	brho := 0.2 * bz * (rho / 100) * (z / 100)
	return FieldVector{0, brho, bz}
}

// SyntheticTorus returns a torus map sampled from SyntheticTorusField with
// Cartesian field components. A symmetric map stores only the [0, 30]
// degree wedge.
func SyntheticTorus(symmetric bool) (*Grid, error) {
	phiMax := 360.0
	if symmetric {
		phiMax = WedgeWidth
	}

	phi, err := uniformAxis("phi", 0, phiMax, synthPhiStep)
	if err != nil {
		return nil, err
	}
	rho, err := uniformAxis("rho", synthRhoMin, synthRhoMax, synthRhoStep)
	if err != nil {
		return nil, err
	}
	z, err := uniformAxis("z", synthZMin, synthZMax, synthZStep)
	if err != nil {
		return nil, err
	}

	vals := make([]FieldVector, 0, phi.Len()*rho.Len()*z.Len())
	for ip := 0; ip < phi.Len(); ip++ {
		for ir := 0; ir < rho.Len(); ir++ {
			for iz := 0; iz < z.Len(); iz++ {
				vals = append(vals, SyntheticTorusField(
					phi.Value(ip), rho.Value(ir), z.Value(iz),
				))
			}
		}
	}

	return NewTorus(phi, rho, z, vals, Options{
		Symmetric: symmetric,
		Layout:    PhiMajor,
		Header:    Header{GridCS: Cylindrical, FieldCS: Cartesian},
		Path:      "synthetic-torus",
	})
}

// SyntheticSolenoid returns a solenoid map sampled from
// SyntheticSolenoidField with cylindrical field components.
func SyntheticSolenoid() (*Grid, error) {
	rho, err := uniformAxis("rho", 0, synthSolRhoMax, synthSolRhoStep)
	if err != nil {
		return nil, err
	}
	z, err := uniformAxis("z", -synthSolZMax, synthSolZMax, synthSolZStep)
	if err != nil {
		return nil, err
	}

	vals := make([]FieldVector, 0, rho.Len()*z.Len())
	for ir := 0; ir < rho.Len(); ir++ {
		for iz := 0; iz < z.Len(); iz++ {
			vals = append(vals, SyntheticSolenoidField(rho.Value(ir), z.Value(iz)))
		}
	}

	return NewSolenoid(rho, z, vals, Options{
		Layout: PhiMajor,
		Header: Header{GridCS: Cylindrical, FieldCS: Cylindrical},
		Path:   "synthetic-solenoid",
	})
}

func uniformAxis(name string, min, max, step float64) (*interpolate.Axis, error) {
	n := int(math.Round((max-min)/step)) + 1
	return interpolate.NewUniformAxis(name, min, max, n)
}

func sqr(x float64) float64 { return x * x }
