/*package render draws field maps: heat map images of the field magnitude
in a plane and line profiles along z.

Images are computed by several goroutines, each with its own copies of the
grids so that cell caches are not shared.
*/
package render

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"math"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/phil-mansfield/gomag"
)

var logger = zap.NewNop()

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		logger = zap.NewNop()
		return
	}
	logger = l
}

var (
	// Coil is the pixel value of points inside the coils.
	Coil = math.Inf(-1)

	backgroundColor = color.RGBA{0xf0, 0xf0, 0xf0, 0xff}
	coilColor       = color.RGBA{0x55, 0x55, 0x55, 0xff}
)

// Image is a rendered plane of field magnitudes in kG. Pixels which no map
// covers are NaN and pixels inside the coils are Coil. Image implements
// plotter.GridXYZ.
type Image struct {
	Title, XLabel, YLabel string

	Cols, Rows int
	// Step is the pixel width and X0, Y0 the center of pixel (0, 0).
	Step, X0, Y0 float64
	Data         []float64

	lo, hi float64
}

func newImage(title, xLabel, yLabel string, xMin, xMax, yMin, yMax, step float64) *Image {
	cols := int(math.Round((xMax - xMin) / step))
	rows := int(math.Round((yMax - yMin) / step))
	return &Image{
		Title: title, XLabel: xLabel, YLabel: yLabel,
		Cols: cols, Rows: rows,
		Step: step, X0: xMin + step/2, Y0: yMin + step/2,
		Data: make([]float64, cols*rows),
	}
}

func (im *Image) Dims() (c, r int) { return im.Cols, im.Rows }
func (im *Image) Z(c, r int) float64 { return im.Data[r*im.Cols+c] }
func (im *Image) X(c int) float64 { return im.X0 + float64(c)*im.Step }
func (im *Image) Y(r int) float64 { return im.Y0 + float64(r)*im.Step }
func (im *Image) Min() float64 { return im.lo }
func (im *Image) Max() float64 { return im.hi }
func (im *Image) set(c, r int, v float64) { im.Data[r*im.Cols+c] = v }

// MaxValue returns the largest finite pixel, or 0 if there are none.
func (im *Image) MaxValue() float64 {
	max := 0.0
	for _, v := range im.Data {
		if !math.IsNaN(v) && !math.IsInf(v, 0) && v > max {
			max = v
		}
	}
	return max
}

// setRange sets the color range to [0, hi]. An empty range is widened.
func (im *Image) setRange(hi float64) {
	if hi <= 0 {
		hi = 1
	}
	im.lo, im.hi = 0, hi
}

// Renderer computes and saves images.
type Renderer struct {
	// Step is the pixel width in cm.
	Step float64
	// Colors is the size of the palette.
	Colors int
	// Workers is the number of goroutines computing each image.
	Workers int
}

// sampler returns the value of one pixel.
type sampler func(u, v float64) (float64, error)

// fill computes every pixel of im. newSampler is called once per worker.
func (r *Renderer) fill(
	ctx context.Context, im *Image, newSampler func() sampler,
) error {
	start := time.Now()
	workers := r.Workers
	if workers < 1 {
		workers = 1
	}

	eg, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		sample := newSampler()
		eg.Go(func() error {
			for row := w; row < im.Rows; row += workers {
				if err := ctx.Err(); err != nil {
					return err
				}
				v := im.Y(row)
				for col := 0; col < im.Cols; col++ {
					val, err := sample(im.X(col), v)
					if err != nil {
						return err
					}
					im.set(col, row, val)
				}
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return fmt.Errorf("rendering '%s': %w", im.Title, err)
	}

	logger.Debug("rendered image",
		zap.String("title", im.Title),
		zap.Int("cols", im.Cols), zap.Int("rows", im.Rows),
		zap.Int("workers", workers),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// planeZ maps image coordinates to a point in the plane of fixed z.
func planeZ(z float64) func(u, v float64) (x, y, zz float64) {
	return func(u, v float64) (float64, float64, float64) { return u, v, z }
}

// planePhi maps image coordinates (z, rho) to a point in the half-plane of
// fixed phi.
func planePhi(phi float64) func(u, v float64) (x, y, z float64) {
	sin, cos := math.Sincos(phi * math.Pi / 180)
	return func(u, v float64) (float64, float64, float64) {
		return v * cos, v * sin, u
	}
}

func magnitudeSampler(
	c *gomag.Combiner, point func(u, v float64) (x, y, z float64), mask bool,
) func() sampler {
	return func() sampler {
		ref := c.Ref()
		return func(u, v float64) (float64, error) {
			x, y, z := point(u, v)
			if mask && InCoils(x, y) {
				return Coil, nil
			}
			m, err := ref.Magnitude(x, y, z)
			if errors.Is(err, gomag.ErrOutOfRange) {
				return math.NaN(), nil
			}
			return m, err
		}
	}
}

func diffSampler(
	g1, g2 *gomag.Grid, point func(u, v float64) (x, y, z float64), mask bool,
) func() sampler {
	return func() sampler {
		ref1, ref2 := g1.Ref(), g2.Ref()
		return func(u, v float64) (float64, error) {
			x, y, z := point(u, v)
			if mask && InCoils(x, y) {
				return Coil, nil
			}
			b1, err := ref1.Value(x, y, z)
			if errors.Is(err, gomag.ErrOutOfRange) {
				return math.NaN(), nil
			} else if err != nil {
				return 0, err
			}
			b2, err := ref2.Value(x, y, z)
			if errors.Is(err, gomag.ErrOutOfRange) {
				return math.NaN(), nil
			} else if err != nil {
				return 0, err
			}
			return b2.Sub(b1).Magnitude(), nil
		}
	}
}

// fixedZExtent is the half-width of fixed z images: the torus is wider
// downstream.
func fixedZExtent(z float64, diff bool) float64 {
	switch {
	case z <= 99:
		return 240
	case diff:
		return 300
	}
	return 360
}

// FixedZ renders |B| of the combined field in the plane of fixed z.
func (r *Renderer) FixedZ(
	ctx context.Context, c *gomag.Combiner, z float64,
) (*Image, error) {
	ext := fixedZExtent(z, false)
	im := newImage(fmt.Sprintf("|B| at z = %.1f cm", z), "x (cm)", "y (cm)",
		-ext, ext, -ext, ext, r.Step)
	if err := r.fill(ctx, im, magnitudeSampler(c, planeZ(z), true)); err != nil {
		return nil, err
	}
	im.setRange(im.MaxValue())
	return im, nil
}

// FixedPhi renders |B| of the combined field in the half-plane of fixed phi
// (degrees), with z horizontal and rho vertical.
func (r *Renderer) FixedPhi(
	ctx context.Context, c *gomag.Combiner, phi float64,
) (*Image, error) {
	im := newImage(fmt.Sprintf("|B| at phi = %.1f deg", phi), "z (cm)", "rho (cm)",
		-100, 500, 0, 360, r.Step)
	if err := r.fill(ctx, im, magnitudeSampler(c, planePhi(phi), false)); err != nil {
		return nil, err
	}
	im.setRange(im.MaxValue())
	return im, nil
}

// FixedZDiff renders |B2 - B1| in the plane of fixed z. It is mostly used to
// compare symmetric and full torus maps.
func (r *Renderer) FixedZDiff(
	ctx context.Context, g1, g2 *gomag.Grid, z float64,
) (*Image, error) {
	ext := fixedZExtent(z, true)
	im := newImage(fmt.Sprintf("|B2 - B1| at z = %.1f cm", z), "x (cm)", "y (cm)",
		-ext, ext, -ext, ext, r.Step)
	if err := r.fill(ctx, im, diffSampler(g1, g2, planeZ(z), true)); err != nil {
		return nil, err
	}
	im.setRange(1.01 * im.MaxValue())
	return im, nil
}

// FixedPhiDiff renders |B2 - B1| in the half-plane of fixed phi over the z
// range of g1.
func (r *Renderer) FixedPhiDiff(
	ctx context.Context, g1, g2 *gomag.Grid, phi float64,
) (*Image, error) {
	im := newImage(fmt.Sprintf("|B2 - B1| at phi = %.1f deg", phi),
		"z (cm)", "rho (cm)", g1.Z().Min(), g1.Z().Max(), 0, 360, r.Step)
	if err := r.fill(ctx, im, diffSampler(g1, g2, planePhi(phi), false)); err != nil {
		return nil, err
	}
	im.setRange(1.01 * im.MaxValue())
	return im, nil
}

// Save writes im to fname as a heat map. The format follows the file
// extension, e.g. ".svg" or ".png".
func (r *Renderer) Save(im *Image, fname string) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s, [%.2f, %.2f] kG", im.Title, im.Min(), im.Max())
	p.X.Label.Text = im.XLabel
	p.Y.Label.Text = im.YLabel

	colors := r.Colors
	if colors < 2 {
		colors = 2
	}
	pal := palette.Heat(colors, 1)
	hm := plotter.NewHeatMap(im, pal)
	hm.Min, hm.Max = im.Min(), im.Max()
	hm.NaN = backgroundColor
	hm.Underflow = coilColor
	hm.Overflow = pal.Colors()[colors-1]
	hm.Rasterized = true
	p.Add(hm)

	width := 6 * vg.Inch
	height := width * vg.Length(im.Rows) / vg.Length(im.Cols)
	if err := p.Save(width+vg.Inch, height+vg.Inch, fname); err != nil {
		return fmt.Errorf("saving '%s' to %s: %w", im.Title, fname, err)
	}

	logger.Info("saved image", zap.String("title", im.Title), zap.String("file", fname))
	return nil
}
