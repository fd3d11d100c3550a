package io

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/gomag"
)

func TestDefaultConfig(t *testing.T) {
	con := DefaultConfigWrapper()
	require.NoError(t, con.CheckInit())
	assert.Equal(t, gomag.PhiMajor, con.Layout())
	assert.Equal(t, gomag.KiloGauss, con.Units())

	fromEmpty, err := ReadConfig("")
	require.NoError(t, err)
	if diff := cmp.Diff(con, fromEmpty); diff != "" {
		t.Errorf("ReadConfig(\"\") differs from the defaults (-want +got):\n%s", diff)
	}
}

func TestExampleConfig(t *testing.T) {
	con, err := ReadConfigString(ExampleConfigFile)
	require.NoError(t, err)

	want := DefaultConfigWrapper()
	want.Torus.Path = "path/to/torus/map.dat"
	want.Solenoid.Path = "path/to/solenoid/map.dat"
	want.Render.Output = "path/to/output/dir"
	if diff := cmp.Diff(want, con); diff != "" {
		t.Errorf("example config (-want +got):\n%s", diff)
	}
}

func TestConfigErrors(t *testing.T) {
	table := []string{
		"[Maps]\nLayout = sideways",
		"[Maps]\nUnits = furlongs",
		"[Torus]\nScale = 0",
		"[Render]\nStep = -2",
		"[Render]\nColors = 1",
		"[Render]\nWorkers = 0",
		"[Render]\nProfileZMin = 10\nProfileZMax = 5",
		"[Render]\nNotAField = 3",
		"[Wrong]\nPath = x",
	}

	for i := range table {
		_, err := ReadConfigString(table[i])
		if !errors.Is(err, gomag.ErrConfiguration) {
			t.Errorf("%d) expected a configuration error for %q, got %v",
				i, table[i], err)
		}
	}
}

func TestConfigValues(t *testing.T) {
	con, err := ReadConfigString(`[Maps]
Layout = z-major
Units = T
Cache = false

[Render]
Step = 0.5
Workers = 2`)
	require.NoError(t, err)

	assert.Equal(t, gomag.ZMajor, con.Layout())
	assert.Equal(t, gomag.Tesla, con.Units())
	assert.False(t, con.Maps.Cache)
	assert.Equal(t, 0.5, con.Render.Step)
	assert.Equal(t, 2, con.Render.Workers)
	assert.Equal(t, 256, con.Render.Colors)
}

func TestLoadMaps(t *testing.T) {
	dir := t.TempDir()
	torusPath := filepath.Join(dir, "torus.dat")
	solenoidPath := filepath.Join(dir, "solenoid.dat")

	torus, err := gomag.SyntheticTorus(true)
	require.NoError(t, err)
	solenoid, err := gomag.SyntheticSolenoid()
	require.NoError(t, err)
	require.NoError(t, WriteMapFile(torusPath, torus))
	require.NoError(t, WriteMapFile(solenoidPath, solenoid))

	con, err := ReadConfigString(fmt.Sprintf(`[Maps]
Layout = z-major
Cache = false

[Torus]
Path = "%s"
Scale = -1

[Solenoid]
Path = "%s"
ShiftZ = -3`, torusPath, solenoidPath))
	require.NoError(t, err)

	tg, sg, err := con.LoadMaps()
	require.NoError(t, err)
	require.NotNil(t, tg)
	require.NotNil(t, sg)

	assert.Equal(t, gomag.Torus, tg.Kind)
	assert.Equal(t, -1.0, tg.Scale)
	assert.Equal(t, gomag.ZMajor, tg.Layout())
	assert.False(t, tg.Cache().Enabled())
	assert.Equal(t, gomag.Solenoid, sg.Kind)
	assert.Equal(t, -3.0, sg.ShiftZ)
	assert.Equal(t, 1.0, sg.Scale)

	// Unconfigured maps are skipped.
	con.Solenoid.Path = ""
	tg, sg, err = con.LoadMaps()
	require.NoError(t, err)
	assert.NotNil(t, tg)
	assert.Nil(t, sg)

	// A solenoid file can't be used as a torus.
	con.Torus.Path = solenoidPath
	_, _, err = con.LoadMaps()
	assert.True(t, errors.Is(err, gomag.ErrConfiguration))
}
