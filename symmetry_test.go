package gomag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSector(t *testing.T) {
	table := []struct {
		phi float64
		s   int
		rel float64
	}{
		{0, 1, 0},
		{15, 1, 15},
		{30, 1, 30},
		{30.5, 2, -29.5},
		{60, 2, 0},
		{89, 2, 29},
		{90, 2, 30},
		{95, 3, -25},
		{120, 3, 0},
		{150, 3, 30},
		{151, 4, -29},
		{210, 4, 30},
		{240, 5, 0},
		{270, 5, 30},
		{300, 6, 0},
		{330, 6, 30},
		{331, 1, -29},
		{359, 1, -1},
		{360, 1, 0},
		{-10, 1, -10},
		{-95, 5, 25},
		{455, 3, -25},
	}

	for i := range table {
		f := FoldAzimuth(table[i].phi)
		if s := Sector(table[i].phi); s != table[i].s {
			t.Errorf("%d) Sector(%g) = %d, expected %d",
				i, table[i].phi, s, table[i].s)
		}
		if f.Sector != table[i].s {
			t.Errorf("%d) FoldAzimuth(%g).Sector = %d, expected %d",
				i, table[i].phi, f.Sector, table[i].s)
		}
		if rel := RelativePhi(table[i].phi); rel != table[i].rel {
			t.Errorf("%d) RelativePhi(%g) = %g, expected %g",
				i, table[i].phi, rel, table[i].rel)
		}
	}
}

func TestFold(t *testing.T) {
	f := FoldAzimuth(95)
	assert.True(t, f.Mirrored())
	assert.Equal(t, 25.0, f.Wedge())

	f = FoldAzimuth(130)
	assert.False(t, f.Mirrored())
	assert.Equal(t, 10.0, f.Wedge())
	assert.Equal(t, 3, f.Sector)
}

func TestUnfold(t *testing.T) {
	b := FieldVector{1, 2, 3}

	// Identity inside the stored wedge.
	assert.Equal(t, b, FoldAzimuth(20).Unfold(b))

	// Mirror only.
	assert.Equal(t, FieldVector{-1, 2, -3}, FoldAzimuth(-20).Unfold(b))

	// The 180 degree rotation is exact.
	assert.Equal(t, FieldVector{-1, -2, 3}, FoldAzimuth(190).Unfold(b))

	// Unfolding preserves the magnitude.
	for phi := 0.0; phi < 360; phi += 7.25 {
		got := FoldAzimuth(phi).Unfold(b)
		assert.InDelta(t, b.Magnitude(), got.Magnitude(), 1e-12, "phi = %g", phi)
	}
}

func TestUnfoldRoundTrip(t *testing.T) {
	// The synthetic field obeys the sector symmetry, so unfolding its value
	// in the wedge must reproduce its value anywhere.
	for phi := -180.0; phi <= 540; phi += 3.25 {
		for _, rz := range [][2]float64{{50, 0}, {120, 250}, {333, 410}} {
			f := FoldAzimuth(phi)
			want := SyntheticTorusField(phi, rz[0], rz[1])
			got := f.Unfold(SyntheticTorusField(f.Wedge(), rz[0], rz[1]))
			for k := range want {
				assert.InDelta(t, want[k], got[k], 1e-9,
					"phi = %g, rho = %g, z = %g, component %d",
					phi, rz[0], rz[1], k)
			}
		}
	}
}
