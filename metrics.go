package gomag

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Metrics are summary statistics of a grid's samples, in kG. They are
// computed once, when the grid is created.
type Metrics struct {
	// MaxIndex is the composite index of the largest sample.
	MaxIndex     int
	MaxMagnitude float64
	AvgMagnitude float64
}

func computeMetrics(vals []FieldVector) Metrics {
	if len(vals) == 0 {
		return Metrics{MaxIndex: -1}
	}

	mags := make([]float64, len(vals))
	for i := range vals {
		mags[i] = vals[i].Magnitude()
	}

	i := floats.MaxIdx(mags)
	return Metrics{
		MaxIndex:     i,
		MaxMagnitude: mags[i],
		AvgMagnitude: stat.Mean(mags, nil),
	}
}
