package geom

import (
	"math"
	"math/rand"
	"testing"
)

func TestNormalizeAngle(t *testing.T) {
	table := []struct {
		in, out float64
	}{
		{0, 0}, {359.5, 359.5}, {360, 0}, {-30, 330}, {725, 5}, {-720, 0},
		{-1e-15, 0},
	}

	for i, test := range table {
		got := NormalizeAngle(test.in)
		if math.Abs(got-test.out) > 1e-9 || got < 0 || got >= 360 {
			t.Errorf("%d) NormalizeAngle(%g) = %g instead of %g",
				i+1, test.in, got, test.out)
		}
	}
}

func TestConversionsInvert(t *testing.T) {
	gen := rand.New(rand.NewSource(3))

	for i := 0; i < 10000; i++ {
		x := -100 + 700*gen.Float64()
		y := -100 + 700*gen.Float64()

		phi, rho := CartesianToCylindrical(x, y)
		if phi < 0 || phi >= 360 {
			t.Fatalf("%d) azimuth %g of (%g, %g) not in [0, 360)", i, phi, x, y)
		}
		tx, ty := CylindricalToCartesian(phi, rho)

		if !SameNumber(x, tx) || !SameNumber(y, ty) {
			t.Fatalf("%d) conversions did not invert: x: %g -> %g, y: %g -> %g",
				i, x, tx, y, ty)
		}
	}
}

func TestComponents(t *testing.T) {
	table := []struct {
		phi, bx, by, bphi, brho float64
	}{
		{0, 1, 0, 0, 1},
		{0, 0, 1, 1, 0},
		{90, 0, 1, 0, 1},
		{90, -1, 0, 1, 0},
		{180, 1, 0, 0, -1},
	}

	eps := 1e-12
	for i, test := range table {
		bphi, brho := CylindricalComponents(test.bx, test.by, test.phi)
		if math.Abs(bphi-test.bphi) > eps || math.Abs(brho-test.brho) > eps {
			t.Errorf("%d) CylindricalComponents(%g, %g, %g) = (%g, %g) "+
				"instead of (%g, %g)", i+1, test.bx, test.by, test.phi,
				bphi, brho, test.bphi, test.brho)
		}

		bx, by := CartesianComponents(bphi, brho, test.phi)
		if math.Abs(bx-test.bx) > eps || math.Abs(by-test.by) > eps {
			t.Errorf("%d) CartesianComponents did not invert: (%g, %g) "+
				"instead of (%g, %g)", i+1, bx, by, test.bx, test.by)
		}
	}
}

func TestRotate(t *testing.T) {
	sin, cos := math.Sincos(ToRadians(60))
	x, y := Rotate(1, 0, cos, sin)
	if math.Abs(x-0.5) > 1e-12 || math.Abs(y-math.Sqrt(3)/2) > 1e-12 {
		t.Errorf("Rotate(1, 0) by 60 degrees = (%g, %g)", x, y)
	}
}
