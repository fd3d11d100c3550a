package io

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/phil-mansfield/gomag"
	"github.com/phil-mansfield/gomag/math/interpolate"
)

/*
The binary format used for field maps is a sequence of 32-bit words:

    |-- 1 --||-- 2 --||-- 3 --||-- 4 --||-- 5 --||-- ... 6 ... --|

    1 - (int32) MagicNumber. Files may be written with either byte order; a
        magic number which only matches when read little endian means the
        whole file is little endian.
    2 - (int32 x 5) Grid coordinate system, field coordinate system, length
        unit, angle unit and field unit, as gomag.CoordSystem, etc.
    3 - ((float32, float32, int32) x 3) Min, max and node count of the
        phi, rho and z axes. A map with one phi node is a solenoid.
    4 - (int32 x 2) Creation time in ms since the Unix epoch, high word
        first.
    5 - (int32 x 3) Reserved.
    6 - ([][3]float32) Field samples, phi outermost and z innermost.
*/
type fileHeader struct {
	Magic int32

	GridCS, FieldCS         int32
	LengthUnits, AngleUnits int32
	FieldUnits              int32

	PhiMin, PhiMax float32
	NPhi           int32
	RhoMin, RhoMax float32
	NRho           int32
	ZMin, ZMax     float32
	NZ             int32

	CreatedHigh, CreatedLow int32
	Reserved                [3]int32
}

const (
	// MagicNumber starts every field map.
	MagicNumber int32 = 0xced

	headerSize = 80
	// maxValues bounds the sample count so a corrupt header cannot cause
	// an enormous allocation.
	maxValues = 1 << 28
)

// ErrFormat is returned when a file is not a valid field map.
var ErrFormat = errors.New("malformed field map")

var logger = zap.NewNop()

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		logger = zap.NewNop()
		return
	}
	logger = l
}

// ReadMap reads the field map at path, storing its samples in the given
// layout.
func ReadMap(path string, layout gomag.Layout) (*gomag.Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	start := time.Now()
	g, err := Read(bufio.NewReader(f), path, layout)
	if err != nil {
		return nil, fmt.Errorf("reading field map %s: %w", path, err)
	}

	logger.Info("loaded field map",
		zap.String("path", path),
		zap.Stringer("kind", g.Kind),
		zap.Bool("symmetric", g.Symmetric),
		zap.Int("values", g.Len()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return g, nil
}

// Read reads a field map from r. path is only recorded in the Grid.
func Read(r io.Reader, path string, layout gomag.Layout) (*gomag.Grid, error) {
	buf := make([]byte, headerSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("%w: reading header: %v", ErrFormat, err)
	}

	order, err := byteOrder(buf)
	if err != nil {
		return nil, err
	}
	logger.Debug("field map byte order",
		zap.String("path", path), zap.Stringer("order", order))

	hd := &fileHeader{}
	if err := binary.Read(bytes.NewReader(buf), order, hd); err != nil {
		return nil, err
	}
	h, err := hd.header()
	if err != nil {
		return nil, err
	}

	phi, rho, z, err := hd.axes(h)
	if err != nil {
		return nil, err
	}

	n := int(hd.NPhi) * int(hd.NRho) * int(hd.NZ)
	raw := make([]float32, 3*n)
	if err := binary.Read(r, order, raw); err != nil {
		return nil, fmt.Errorf("%w: reading %d field values: %v", ErrFormat, n, err)
	}

	vals := make([]gomag.FieldVector, n)
	scale := h.FieldUnits.ToKiloGauss()
	idx := reorder(layout, int(hd.NPhi), int(hd.NRho), int(hd.NZ))
	for i := range vals {
		vals[idx(i)] = gomag.FieldVector{
			float64(raw[3*i]) * scale,
			float64(raw[3*i+1]) * scale,
			float64(raw[3*i+2]) * scale,
		}
	}

	opt := gomag.Options{Layout: layout, Header: h, Path: path}
	if phi == nil {
		return gomag.NewSolenoid(rho, z, vals, opt)
	}
	opt.Symmetric = phi.Max()-phi.Min() <= gomag.WedgeWidth+1e-3
	return gomag.NewTorus(phi, rho, z, vals, opt)
}

func byteOrder(buf []byte) (binary.ByteOrder, error) {
	switch {
	case int32(binary.BigEndian.Uint32(buf)) == MagicNumber:
		return binary.BigEndian, nil
	case int32(binary.LittleEndian.Uint32(buf)) == MagicNumber:
		return binary.LittleEndian, nil
	}
	return nil, fmt.Errorf(
		"%w: magic number 0x%x is not 0x%x",
		ErrFormat, binary.BigEndian.Uint32(buf), MagicNumber,
	)
}

func (hd *fileHeader) header() (gomag.Header, error) {
	h := gomag.Header{
		GridCS:      gomag.CoordSystem(hd.GridCS),
		FieldCS:     gomag.CoordSystem(hd.FieldCS),
		LengthUnits: gomag.LengthUnit(hd.LengthUnits),
		AngleUnits:  gomag.AngleUnit(hd.AngleUnits),
		FieldUnits:  gomag.FieldUnit(hd.FieldUnits),
	}

	switch {
	case !h.GridCS.Valid():
		return h, fmt.Errorf("%w: unknown grid coordinate system %d", ErrFormat, hd.GridCS)
	case !h.FieldCS.Valid():
		return h, fmt.Errorf("%w: unknown field coordinate system %d", ErrFormat, hd.FieldCS)
	case !h.LengthUnits.Valid():
		return h, fmt.Errorf("%w: unknown length unit %d", ErrFormat, hd.LengthUnits)
	case !h.AngleUnits.Valid():
		return h, fmt.Errorf("%w: unknown angle unit %d", ErrFormat, hd.AngleUnits)
	case !h.FieldUnits.Valid():
		return h, fmt.Errorf("%w: unknown field unit %d", ErrFormat, hd.FieldUnits)
	case h.GridCS != gomag.Cylindrical:
		return h, fmt.Errorf("%w: only cylindrical grids are supported", ErrFormat)
	}

	ms := int64(hd.CreatedHigh)<<32 | int64(uint32(hd.CreatedLow))
	if ms != 0 {
		h.Created = time.UnixMilli(ms).UTC()
	}
	return h, nil
}

// axes returns the grid axes in canonical units. phi is nil for a solenoid.
func (hd *fileHeader) axes(
	h gomag.Header,
) (phi, rho, z *interpolate.Axis, err error) {
	switch {
	case hd.NPhi < 1 || hd.NRho < 2 || hd.NZ < 2:
		return nil, nil, nil, fmt.Errorf(
			"%w: node counts (phi, rho, z) = (%d, %d, %d)",
			ErrFormat, hd.NPhi, hd.NRho, hd.NZ,
		)
	case int64(hd.NPhi)*int64(hd.NRho)*int64(hd.NZ) > maxValues:
		return nil, nil, nil, fmt.Errorf(
			"%w: %d x %d x %d field values is too many",
			ErrFormat, hd.NPhi, hd.NRho, hd.NZ,
		)
	}

	deg, cm := h.AngleUnits.ToDegrees(), h.LengthUnits.ToCentimeters()
	if hd.NPhi > 1 {
		phi, err = interpolate.NewUniformAxis("phi",
			float64(hd.PhiMin)*deg, float64(hd.PhiMax)*deg, int(hd.NPhi))
		if err != nil {
			return nil, nil, nil, err
		}
	}
	rho, err = interpolate.NewUniformAxis("rho",
		float64(hd.RhoMin)*cm, float64(hd.RhoMax)*cm, int(hd.NRho))
	if err != nil {
		return nil, nil, nil, err
	}
	z, err = interpolate.NewUniformAxis("z",
		float64(hd.ZMin)*cm, float64(hd.ZMax)*cm, int(hd.NZ))
	if err != nil {
		return nil, nil, nil, err
	}
	return phi, rho, z, nil
}

// reorder returns a function mapping the position of a sample in a file to
// its position in the given layout.
func reorder(layout gomag.Layout, nPhi, nRho, nZ int) func(int) int {
	if layout != gomag.ZMajor {
		return func(i int) int { return i }
	}
	if nPhi == 1 {
		return func(i int) int {
			iRho, iZ := i/nZ, i%nZ
			return iZ*nRho + iRho
		}
	}
	return func(i int) int {
		iPhi, rem := i/(nRho*nZ), i%(nRho*nZ)
		iRho, iZ := rem/nZ, rem%nZ
		return (iZ*nRho+iRho)*nPhi + iPhi
	}
}

// WriteMap writes g to w in the field map format, converting it back to the
// units named in its header. The map's axes must be uniform.
func WriteMap(w io.Writer, g *gomag.Grid, order binary.ByteOrder) error {
	h := g.Header
	deg, cm := h.AngleUnits.ToDegrees(), h.LengthUnits.ToCentimeters()

	hd := &fileHeader{
		Magic:       MagicNumber,
		GridCS:      int32(h.GridCS),
		FieldCS:     int32(h.FieldCS),
		LengthUnits: int32(h.LengthUnits),
		AngleUnits:  int32(h.AngleUnits),
		FieldUnits:  int32(h.FieldUnits),
		NPhi:        1,
	}
	if !h.Created.IsZero() {
		ms := h.Created.UnixMilli()
		hd.CreatedHigh, hd.CreatedLow = int32(ms>>32), int32(uint32(ms))
	}

	if phi := g.Phi(); phi != nil {
		if err := checkUniform(phi); err != nil {
			return err
		}
		hd.PhiMin, hd.PhiMax, hd.NPhi = axisRange(phi, deg)
	}
	for _, ax := range []*interpolate.Axis{g.Rho(), g.Z()} {
		if err := checkUniform(ax); err != nil {
			return err
		}
	}
	hd.RhoMin, hd.RhoMax, hd.NRho = axisRange(g.Rho(), cm)
	hd.ZMin, hd.ZMax, hd.NZ = axisRange(g.Z(), cm)

	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, order, hd); err != nil {
		return err
	}

	scale := h.FieldUnits.FromKiloGauss()
	raw := make([]float32, 3*int(hd.NZ))
	for iPhi := 0; iPhi < int(hd.NPhi); iPhi++ {
		for iRho := 0; iRho < int(hd.NRho); iRho++ {
			for iZ := 0; iZ < int(hd.NZ); iZ++ {
				b, err := g.Sample(iPhi, iRho, iZ)
				if err != nil {
					return err
				}
				for k := 0; k < 3; k++ {
					raw[3*iZ+k] = float32(b[k] * scale)
				}
			}
			if err := binary.Write(bw, order, raw); err != nil {
				return err
			}
		}
	}

	if err := bw.Flush(); err != nil {
		return err
	}
	logger.Debug("wrote field map",
		zap.String("path", g.Path), zap.Int("values", g.Len()))
	return nil
}

// WriteMapFile writes g to the file at path with big endian byte order.
func WriteMapFile(path string, g *gomag.Grid) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteMap(f, g, binary.BigEndian); err != nil {
		f.Close()
		return fmt.Errorf("writing field map %s: %w", path, err)
	}
	return f.Close()
}

func axisRange(ax *interpolate.Axis, unit float64) (lo, hi float32, n int32) {
	return float32(ax.Value(0) / unit),
		float32(ax.Value(ax.Len()-1) / unit), int32(ax.Len())
}

func checkUniform(ax *interpolate.Axis) error {
	n := ax.Len()
	first, last := ax.Value(0), ax.Value(n-1)
	dx := (last - first) / float64(n-1)
	for i := 1; i < n-1; i++ {
		if math.Abs(ax.Value(i)-(first+float64(i)*dx)) > 1e-6*math.Abs(dx) {
			return fmt.Errorf(
				"%w: axis '%s' is not uniform, which the map format requires",
				gomag.ErrConfiguration, ax.Name(),
			)
		}
	}
	return nil
}
