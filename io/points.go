package io

import (
	"fmt"

	"github.com/phil-mansfield/table"
	"go.uber.org/zap"
)

// ReadPoints reads probe points from a text table whose first three columns
// are x, y and z in cm.
func ReadPoints(fname string) ([][3]float64, error) {
	cols, err := table.ReadTable(fname, []int{0, 1, 2}, nil)
	if err != nil {
		return nil, fmt.Errorf("reading points from %s: %w", fname, err)
	}

	xs, ys, zs := cols[0], cols[1], cols[2]
	if len(xs) != len(ys) || len(xs) != len(zs) {
		return nil, fmt.Errorf(
			"%w: columns of %s have lengths %d, %d, and %d",
			ErrFormat, fname, len(xs), len(ys), len(zs),
		)
	}

	pts := make([][3]float64, len(xs))
	for i := range pts {
		pts[i] = [3]float64{xs[i], ys[i], zs[i]}
	}

	logger.Debug("read probe points",
		zap.String("file", fname), zap.Int("points", len(pts)))
	return pts, nil
}
