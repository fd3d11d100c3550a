package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/phil-mansfield/gomag"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// setupMaps writes synthetic maps and a config file using them into a
// temporary directory and returns the directory and the config path.
func setupMaps(t *testing.T) (dir, config string) {
	dir = t.TempDir()
	_, err := run(t, "synth", dir)
	require.NoError(t, err)

	config = filepath.Join(dir, "gomag.cfg")
	require.NoError(t, os.WriteFile(config, []byte(fmt.Sprintf(`[Torus]
Path = "%s"

[Solenoid]
Path = "%s"

[Render]
Output = "%s"
Step = 40
Workers = 2
ProfileZMin = -50
ProfileZMax = 50
ProfileStep = 10`,
		filepath.Join(dir, "symmetric_torus.dat"),
		filepath.Join(dir, "solenoid.dat"),
		filepath.Join(dir, "images"),
	)), 0644))
	return dir, config
}

func TestSynth(t *testing.T) {
	dir, _ := setupMaps(t)
	for _, name := range []string{
		"symmetric_torus.dat", "full_torus.dat", "solenoid.dat",
	} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
}

func TestSummary(t *testing.T) {
	_, config := setupMaps(t)

	out, err := run(t, "summary", "--config", config)
	require.NoError(t, err)
	assert.Contains(t, out, "TORUS: [")
	assert.Contains(t, out, "SOLENOID: [")

	out, err = run(t, "summary", "--config", config, "--format", "yaml")
	require.NoError(t, err)
	var summaries []gomag.Summary
	require.NoError(t, yaml.Unmarshal([]byte(out), &summaries))
	require.Len(t, summaries, 2)
	assert.Equal(t, "TORUS", summaries[0].Kind)
	assert.True(t, summaries[0].Symmetric)
	assert.Equal(t, "SOLENOID", summaries[1].Kind)

	_, err = run(t, "summary", "--config", config, "--format", "xml")
	assert.True(t, errors.Is(err, gomag.ErrConfiguration))
}

func TestNoMaps(t *testing.T) {
	_, err := run(t, "summary")
	assert.True(t, errors.Is(err, gomag.ErrConfiguration))
	_, err = run(t, "probe", "0", "0", "0")
	assert.True(t, errors.Is(err, gomag.ErrConfiguration))
}

func TestProbe(t *testing.T) {
	_, config := setupMaps(t)

	out, err := run(t, "probe", "--config", config, "0", "0", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "[kG], magnitude:     50.00000")

	out, err = run(t, "probe", "--config", config, "--units", "T", "0", "0", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "[T], magnitude:      5.00000")

	out, err = run(t, "probe", "--config", config, "10000", "0", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "out of range")

	_, err = run(t, "probe", "--config", config, "0", "0")
	assert.Error(t, err)
	_, err = run(t, "probe", "--config", config, "--units", "furlongs", "0", "0", "0")
	assert.True(t, errors.Is(err, gomag.ErrConfiguration))

	points := filepath.Join(t.TempDir(), "points.txt")
	require.NoError(t, os.WriteFile(points, []byte("0 0 0\n100 0 100\n"), 0644))
	out, err = run(t, "probe", "--config", config, "--points", points)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "magnitude:"))
}

func TestSpecial(t *testing.T) {
	_, config := setupMaps(t)
	out, err := run(t, "special", "--config", config)
	require.NoError(t, err)
	assert.Equal(t, len(specialPoints), strings.Count(out, "\n"))
}

func TestCheck(t *testing.T) {
	_, config := setupMaps(t)
	out, err := run(t, "check", "--config", config, "-n", "100")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, ": ok"))
}

func TestRender(t *testing.T) {
	dir, config := setupMaps(t)
	_, err := run(t, "render", "--config", config,
		"--compare", filepath.Join(dir, "full_torus.dat"))
	require.NoError(t, err)

	for _, name := range []string{
		"fixed_z.svg", "fixed_phi.svg", "fixed_z_diff.svg", "fixed_phi_diff.svg",
	} {
		_, err := os.Stat(filepath.Join(dir, "images", name))
		assert.NoError(t, err, name)
	}
}

func TestProfile(t *testing.T) {
	_, config := setupMaps(t)
	out, err := run(t, "profile", "--config", config)
	require.NoError(t, err)
	assert.Equal(t, 13, strings.Count(out, "\n"))
}

func TestExampleConfig(t *testing.T) {
	out, err := run(t, "example-config")
	require.NoError(t, err)
	assert.Contains(t, out, "[Maps]")
	assert.Contains(t, out, "[Render]")
}
