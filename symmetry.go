package gomag

import (
	"math"

	"github.com/phil-mansfield/gomag/geom"
)

const (
	// Sectors is the number of azimuthal sectors of the detector.
	Sectors = 6
	// SectorWidth is the azimuthal width of one sector in degrees.
	SectorWidth = 360.0 / Sectors
	// WedgeWidth is the half-sector width stored by a symmetric map.
	WedgeWidth = SectorWidth / 2
)

// Rotations of sector s are stored at index s - 1. Exact values keep the
// identity rotation and the 180 degree rotation exact.
var (
	sectorCos = [Sectors]float64{1, 0.5, -0.5, -1, -0.5, 0.5}
	sectorSin = [Sectors]float64{
		0, math.Sqrt(3) / 2, math.Sqrt(3) / 2, 0, -math.Sqrt(3) / 2, -math.Sqrt(3) / 2,
	}
)

// Sector returns the sector, [1, 6], containing the azimuth phi (degrees).
// Sector s covers (60s - 90, 60s - 30], with sector 1 wrapping through 0.
func Sector(phi float64) int {
	phi = geom.NormalizeAngle(phi)
	for s := 2; s <= Sectors; s++ {
		hi := SectorWidth*float64(s) - WedgeWidth
		if phi > hi-SectorWidth && phi <= hi {
			return s
		}
	}
	return 1
}

// RelativePhi returns the azimuth of phi relative to the midplane of its
// sector, in [-30, 30].
func RelativePhi(phi float64) float64 {
	return FoldAzimuth(phi).Relative
}

// Fold describes how an azimuth maps onto the wedge stored by a symmetric
// map.
type Fold struct {
	// Sector containing the azimuth, [1, 6].
	Sector int
	// Relative is the azimuth relative to the sector midplane, [-30, 30].
	Relative float64
}

// FoldAzimuth folds the azimuth phi (degrees, any value) into its sector.
func FoldAzimuth(phi float64) Fold {
	phi = geom.NormalizeAngle(phi)
	s := Sector(phi)
	rel := phi - SectorWidth*float64(s-1)
	if rel > WedgeWidth {
		// Sector 1 wraps: (330, 360) is (-30, 0).
		rel -= 360
	}
	return Fold{Sector: s, Relative: rel}
}

// Mirrored returns true if the stored wedge must be reflected through the
// sector midplane to reach the azimuth.
func (f Fold) Mirrored() bool { return f.Relative < 0 }

// Wedge returns the azimuth inside the stored wedge, [0, 30].
func (f Fold) Wedge() float64 { return math.Abs(f.Relative) }

// Unfold takes a field vector in Cartesian components looked up at Wedge()
// in sector 1 and returns the field at the folded azimuth. A mirrored
// lookup is reflected through the y = 0 plane, which for an axial vector
// negates Bx and Bz. The result is then rotated into the sector.
func (f Fold) Unfold(b FieldVector) FieldVector {
	if f.Mirrored() {
		b[0], b[2] = -b[0], -b[2]
	}
	if f.Sector > 1 {
		b[0], b[1] = geom.Rotate(
			b[0], b[1], sectorCos[f.Sector-1], sectorSin[f.Sector-1],
		)
	}
	return b
}
