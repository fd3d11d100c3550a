package io

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/gomag"
)

// assertSameSamples compares every sample of two grids over the same axes.
func assertSameSamples(t *testing.T, want, got *gomag.Grid, delta float64) {
	t.Helper()
	nPhi := 1
	if want.Phi() != nil {
		require.NotNil(t, got.Phi())
		nPhi = want.Phi().Len()
		assert.Equal(t, want.Phi().Values(), got.Phi().Values())
	}
	assert.Equal(t, want.Rho().Values(), got.Rho().Values())
	assert.Equal(t, want.Z().Values(), got.Z().Values())

	for i := 0; i < nPhi; i++ {
		for j := 0; j < want.Rho().Len(); j++ {
			for k := 0; k < want.Z().Len(); k++ {
				b1, err := want.Sample(i, j, k)
				require.NoError(t, err)
				b2, err := got.Sample(i, j, k)
				require.NoError(t, err)
				for c := range b1 {
					assert.InDelta(t, b1[c], b2[c], delta*(1+math.Abs(b1[c])))
				}
			}
		}
	}
}

func TestMapRoundTrip(t *testing.T) {
	torus, err := gomag.SyntheticTorus(true)
	require.NoError(t, err)
	solenoid, err := gomag.SyntheticSolenoid()
	require.NoError(t, err)

	created := time.UnixMilli(1591000000123).UTC()
	torus.Header.Created = created

	for _, order := range []binary.ByteOrder{binary.BigEndian, binary.LittleEndian} {
		for _, layout := range []gomag.Layout{gomag.PhiMajor, gomag.ZMajor} {
			buf := &bytes.Buffer{}
			require.NoError(t, WriteMap(buf, torus, order))
			g, err := Read(buf, "torus.dat", layout)
			require.NoError(t, err)

			assert.Equal(t, gomag.Torus, g.Kind)
			assert.True(t, g.Symmetric)
			assert.Equal(t, layout, g.Layout())
			assert.Equal(t, "torus.dat", g.Path)
			assert.Equal(t, created, g.Header.Created)
			assertSameSamples(t, torus, g, 1e-6)

			buf.Reset()
			require.NoError(t, WriteMap(buf, solenoid, order))
			g, err = Read(buf, "solenoid.dat", layout)
			require.NoError(t, err)

			assert.Equal(t, gomag.Solenoid, g.Kind)
			assert.Nil(t, g.Phi())
			assert.True(t, g.Header.Created.IsZero())
			assert.Equal(t, gomag.Cylindrical, g.Header.FieldCS)
			assertSameSamples(t, solenoid, g, 1e-6)
		}
	}

	full, err := gomag.SyntheticTorus(false)
	require.NoError(t, err)
	buf := &bytes.Buffer{}
	require.NoError(t, WriteMap(buf, full, binary.BigEndian))
	g, err := Read(buf, "", gomag.PhiMajor)
	require.NoError(t, err)
	assert.False(t, g.Symmetric)
}

func TestMapFile(t *testing.T) {
	solenoid, err := gomag.SyntheticSolenoid()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "solenoid.dat")
	require.NoError(t, WriteMapFile(path, solenoid))

	g, err := ReadMap(path, gomag.PhiMajor)
	require.NoError(t, err)
	assert.Equal(t, path, g.Path)
	assertSameSamples(t, solenoid, g, 1e-6)

	_, err = ReadMap(filepath.Join(t.TempDir(), "missing.dat"), gomag.PhiMajor)
	assert.Error(t, err)
}

func writeRaw(t *testing.T, hd *fileHeader, vals []float32) *bytes.Buffer {
	buf := &bytes.Buffer{}
	require.NoError(t, binary.Write(buf, binary.LittleEndian, hd))
	require.NoError(t, binary.Write(buf, binary.LittleEndian, vals))
	return buf
}

func TestMapUnits(t *testing.T) {
	hd := &fileHeader{
		Magic:       MagicNumber,
		GridCS:      int32(gomag.Cylindrical),
		FieldCS:     int32(gomag.Cartesian),
		LengthUnits: int32(gomag.Meters),
		AngleUnits:  int32(gomag.Radians),
		FieldUnits:  int32(gomag.Tesla),
		PhiMin:      0, PhiMax: float32(math.Pi / 6), NPhi: 2,
		RhoMin: 0, RhoMax: 1, NRho: 2,
		ZMin: -1, ZMax: 1, NZ: 3,
	}
	vals := make([]float32, 3*12)
	for i := 0; i < 12; i++ {
		vals[3*i], vals[3*i+1], vals[3*i+2] = 0.1, 0.2, 0.3
	}

	g, err := Read(writeRaw(t, hd, vals), "", gomag.PhiMajor)
	require.NoError(t, err)

	assert.True(t, g.Symmetric)
	assert.InDelta(t, 30, g.Phi().Max(), 1e-4)
	assert.Equal(t, []float64{0, 100}, g.Rho().Values())
	assert.Equal(t, []float64{-100, 0, 100}, g.Z().Values())

	b, err := g.At(7)
	require.NoError(t, err)
	assert.InDelta(t, 1, b[0], 1e-6)
	assert.InDelta(t, 2, b[1], 1e-6)
	assert.InDelta(t, 3, b[2], 1e-6)

	// The header keeps the file's units.
	assert.Equal(t, gomag.Meters, g.Header.LengthUnits)
	assert.Equal(t, gomag.Radians, g.Header.AngleUnits)
	assert.Equal(t, gomag.Tesla, g.Header.FieldUnits)

	// Writing converts back.
	buf := &bytes.Buffer{}
	require.NoError(t, WriteMap(buf, g, binary.LittleEndian))
	out := &fileHeader{}
	require.NoError(t, binary.Read(buf, binary.LittleEndian, out))
	assert.Equal(t, float32(1), out.RhoMax)
	assert.InDelta(t, math.Pi/6, float64(out.PhiMax), 1e-6)
}

func TestMapErrors(t *testing.T) {
	valid := func() *fileHeader {
		return &fileHeader{
			Magic: MagicNumber, NPhi: 1, RhoMax: 10, NRho: 2, ZMax: 10, NZ: 2,
		}
	}
	vals := make([]float32, 3*4)

	hd := valid()
	hd.Magic = 7
	_, err := Read(writeRaw(t, hd, vals), "", gomag.PhiMajor)
	assert.True(t, errors.Is(err, ErrFormat))

	hd = valid()
	hd.NRho = 1
	_, err = Read(writeRaw(t, hd, vals), "", gomag.PhiMajor)
	assert.True(t, errors.Is(err, ErrFormat))

	hd = valid()
	hd.FieldUnits = 9
	_, err = Read(writeRaw(t, hd, vals), "", gomag.PhiMajor)
	assert.True(t, errors.Is(err, ErrFormat))

	hd = valid()
	hd.GridCS = int32(gomag.Cartesian)
	_, err = Read(writeRaw(t, hd, vals), "", gomag.PhiMajor)
	assert.True(t, errors.Is(err, ErrFormat))

	// Truncated samples.
	_, err = Read(writeRaw(t, valid(), vals[:10]), "", gomag.PhiMajor)
	assert.True(t, errors.Is(err, ErrFormat))

	// Truncated header.
	_, err = Read(bytes.NewReader([]byte{0, 0, 0x0c, 0xed}), "", gomag.PhiMajor)
	assert.True(t, errors.Is(err, ErrFormat))

	// Equal min and max.
	hd = valid()
	hd.ZMax = 0
	_, err = Read(writeRaw(t, hd, vals), "", gomag.PhiMajor)
	assert.True(t, errors.Is(err, gomag.ErrInvariant))

	g, err := Read(writeRaw(t, valid(), vals), "", gomag.PhiMajor)
	require.NoError(t, err)
	assert.Equal(t, gomag.Solenoid, g.Kind)
}
