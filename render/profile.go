package render

import (
	"errors"
	"fmt"
	"io"
	"math"

	plt "github.com/phil-mansfield/pyplot"
	"go.uber.org/zap"

	"github.com/phil-mansfield/gomag"
)

// Profile is |B| sampled along z at a fixed (x, y). Bs is NaN where no map
// covers the point.
type Profile struct {
	X, Y   float64
	Zs, Bs []float64
}

// NewProfile samples the combined field from zMin to zMax in steps of step.
func NewProfile(
	c *gomag.Combiner, x, y, zMin, zMax, step float64,
) (*Profile, error) {
	if step <= 0 || zMax < zMin {
		return nil, fmt.Errorf(
			"%w: profile range [%g, %g] with step %g",
			gomag.ErrConfiguration, zMin, zMax, step,
		)
	}

	n := int(math.Floor((zMax-zMin)/step+1e-9)) + 1
	p := &Profile{X: x, Y: y, Zs: make([]float64, n), Bs: make([]float64, n)}
	ref := c.Ref()
	for i := range p.Zs {
		z := zMin + float64(i)*step
		b, err := ref.Magnitude(x, y, z)
		switch {
		case errors.Is(err, gomag.ErrOutOfRange):
			b = math.NaN()
		case err != nil:
			return nil, err
		}
		p.Zs[i], p.Bs[i] = z, b
	}
	return p, nil
}

// Segments splits the profile into contiguous covered pieces.
func (p *Profile) Segments() (zs, bs [][]float64) {
	start := -1
	for i := 0; i <= len(p.Bs); i++ {
		covered := i < len(p.Bs) && !math.IsNaN(p.Bs[i])
		switch {
		case covered && start < 0:
			start = i
		case !covered && start >= 0:
			zs = append(zs, p.Zs[start:i])
			bs = append(bs, p.Bs[start:i])
			start = -1
		}
	}
	return zs, bs
}

// WriteTable writes the profile to w as "z |B|" lines.
func (p *Profile) WriteTable(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "# x = %.2f cm, y = %.2f cm\n# z (cm) |B| (kG)\n",
		p.X, p.Y); err != nil {
		return err
	}
	for i := range p.Zs {
		if _, err := fmt.Fprintf(w, "%10.3f %12.6f\n", p.Zs[i], p.Bs[i]); err != nil {
			return err
		}
	}
	return nil
}

// PlotProfile adds a matplotlib figure of the profile, saved to fname, to
// the pyplot script. The script runs when plt.Execute is called.
func PlotProfile(p *Profile, fname string) {
	plt.Figure()
	zs, bs := p.Segments()
	for i := range zs {
		plt.Plot(zs[i], bs[i], "k", plt.LW(2))
	}

	plt.Title(fmt.Sprintf("|B| at (x, y) = (%.1f, %.1f) cm", p.X, p.Y))
	plt.XLabel(`$z$ [cm]`, plt.FontSize(16))
	plt.YLabel(`$|B|$ [kG]`, plt.FontSize(16))
	if len(p.Zs) > 1 {
		plt.XLim(p.Zs[0], p.Zs[len(p.Zs)-1])
	}
	plt.Grid(plt.Axis("y"))
	plt.SaveFig(fname)

	logger.Debug("queued profile plot",
		zap.String("file", fname), zap.Int("segments", len(zs)))
}
