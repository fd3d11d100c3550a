package io

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/gcfg.v1"

	"github.com/phil-mansfield/gomag"
)

const ExampleConfigFile = `[Maps]

#######################
# Optional Parameters #
#######################

# Nesting order of the samples in memory. Must be one of
# [ phi-major | z-major ]. phi-major matches the map files and loads fastest.
# Layout = phi-major

# Units that probed fields are printed in. Must be one of [ kG | G | T ].
# Units = kG

# The cell cache can be turned off for debugging. Results do not depend on it.
# Cache = true

[Torus]

# Leave Path unset to run without a torus.
Path = path/to/torus/map.dat

# Scale multiplies the field, e.g. -1 for reversed polarity.
# Scale = 1

# Shifts, in cm, are subtracted from every query point.
# ShiftX = 0
# ShiftY = 0
# ShiftZ = 0

[Solenoid]

# Leave Path unset to run without a solenoid.
Path = path/to/solenoid/map.dat

# Scale = 1
# ShiftX = 0
# ShiftY = 0
# ShiftZ = -3

[Render]

# Directory which images will be written to.
Output = path/to/output/dir

#######################
# Optional Parameters #
#######################

# Pixel size in cm.
# Step = 2

# z of the fixed z images and phi of the fixed phi images.
# Z = 375
# Phi = 0

# Number of colors in the palette.
# Colors = 256

# Number of goroutines used to render an image.
# Workers = 4

# Line profiles are taken along z at fixed (ProfileX, ProfileY).
# ProfileX = 0
# ProfileY = 0
# ProfileZMin = -100
# ProfileZMax = 500
# ProfileStep = 1`

type MapsConfig struct {
	// Optional
	Layout string
	Units  string
	Cache  bool
}

func (con *MapsConfig) ValidLayout() bool {
	_, err := parseLayout(con.Layout)
	return err == nil
}
func (con *MapsConfig) ValidUnits() bool {
	_, err := gomag.ParseFieldUnit(con.Units)
	return err == nil
}

// SourceConfig configures one field map.
type SourceConfig struct {
	// Required
	Path string

	// Optional
	Scale                  float64
	ShiftX, ShiftY, ShiftZ float64
}

func (con *SourceConfig) ValidPath() bool {
	return con.Path != ""
}
func (con *SourceConfig) ValidScale() bool {
	return con.Scale != 0
}

type RenderConfig struct {
	// Required
	Output string

	// Optional
	Step, Z, Phi float64
	Colors       int
	Workers      int

	ProfileX, ProfileY       float64
	ProfileZMin, ProfileZMax float64
	ProfileStep              float64
}

func (con *RenderConfig) ValidOutput() bool {
	return con.Output != ""
}
func (con *RenderConfig) ValidStep() bool {
	return con.Step > 0
}
func (con *RenderConfig) ValidColors() bool {
	return con.Colors > 1
}
func (con *RenderConfig) ValidWorkers() bool {
	return con.Workers > 0
}
func (con *RenderConfig) ValidProfile() bool {
	return con.ProfileStep > 0 && con.ProfileZMax > con.ProfileZMin
}

type ConfigWrapper struct {
	Maps     MapsConfig
	Torus    SourceConfig
	Solenoid SourceConfig
	Render   RenderConfig
}

func DefaultConfigWrapper() *ConfigWrapper {
	con := &ConfigWrapper{}
	con.Maps.Layout = "phi-major"
	con.Maps.Units = "kG"
	con.Maps.Cache = true

	con.Torus.Scale = 1
	con.Solenoid.Scale = 1

	con.Render.Output = "."
	con.Render.Step = 2
	con.Render.Z = 375
	con.Render.Colors = 256
	con.Render.Workers = 4
	con.Render.ProfileZMin = -100
	con.Render.ProfileZMax = 500
	con.Render.ProfileStep = 1
	return con
}

// CheckInit validates the configuration.
func (con *ConfigWrapper) CheckInit() error {
	switch {
	case !con.Maps.ValidLayout():
		return fmt.Errorf(
			"%w: Layout '%s' must be one of [ phi-major | z-major ]",
			gomag.ErrConfiguration, con.Maps.Layout,
		)
	case !con.Maps.ValidUnits():
		return fmt.Errorf(
			"%w: Units '%s' must be one of [ kG | G | T ]",
			gomag.ErrConfiguration, con.Maps.Units,
		)
	case !con.Torus.ValidScale():
		return fmt.Errorf("%w: Torus Scale must be non-zero", gomag.ErrConfiguration)
	case !con.Solenoid.ValidScale():
		return fmt.Errorf("%w: Solenoid Scale must be non-zero", gomag.ErrConfiguration)
	case !con.Render.ValidOutput():
		return fmt.Errorf("%w: Render Output must be set", gomag.ErrConfiguration)
	case !con.Render.ValidStep():
		return fmt.Errorf(
			"%w: Render Step must be positive, but is %g",
			gomag.ErrConfiguration, con.Render.Step,
		)
	case !con.Render.ValidColors():
		return fmt.Errorf(
			"%w: Render Colors must be at least 2, but is %d",
			gomag.ErrConfiguration, con.Render.Colors,
		)
	case !con.Render.ValidWorkers():
		return fmt.Errorf(
			"%w: Render Workers must be positive, but is %d",
			gomag.ErrConfiguration, con.Render.Workers,
		)
	case !con.Render.ValidProfile():
		return fmt.Errorf(
			"%w: Render profile range [%g, %g] with step %g is empty",
			gomag.ErrConfiguration, con.Render.ProfileZMin,
			con.Render.ProfileZMax, con.Render.ProfileStep,
		)
	}
	return nil
}

// Layout returns the configured sample layout.
func (con *ConfigWrapper) Layout() gomag.Layout {
	layout, _ := parseLayout(con.Maps.Layout)
	return layout
}

// Units returns the configured output field unit.
func (con *ConfigWrapper) Units() gomag.FieldUnit {
	u, _ := gomag.ParseFieldUnit(con.Maps.Units)
	return u
}

// ReadConfig reads and validates the config file fname. An empty fname
// gives the defaults.
func ReadConfig(fname string) (*ConfigWrapper, error) {
	con := DefaultConfigWrapper()
	if fname != "" {
		if err := gcfg.ReadFileInto(con, fname); err != nil {
			return nil, fmt.Errorf("%w: %v", gomag.ErrConfiguration, err)
		}
	}
	if err := con.CheckInit(); err != nil {
		return nil, err
	}
	return con, nil
}

// ReadConfigString is ReadConfig for a config held in memory.
func ReadConfigString(str string) (*ConfigWrapper, error) {
	con := DefaultConfigWrapper()
	if err := gcfg.ReadStringInto(con, str); err != nil {
		return nil, fmt.Errorf("%w: %v", gomag.ErrConfiguration, err)
	}
	if err := con.CheckInit(); err != nil {
		return nil, err
	}
	return con, nil
}

// LoadMaps reads the configured maps and applies their scales and shifts.
// A map without a Path is returned as nil.
func (con *ConfigWrapper) LoadMaps() (torus, solenoid *gomag.Grid, err error) {
	torus, err = con.loadMap("torus", &con.Torus, gomag.Torus)
	if err != nil {
		return nil, nil, err
	}
	solenoid, err = con.loadMap("solenoid", &con.Solenoid, gomag.Solenoid)
	if err != nil {
		return nil, nil, err
	}
	return torus, solenoid, nil
}

func (con *ConfigWrapper) loadMap(
	name string, src *SourceConfig, kind gomag.Geometry,
) (*gomag.Grid, error) {
	if !src.ValidPath() {
		logger.Debug("no map configured", zap.String("map", name))
		return nil, nil
	}

	g, err := ReadMap(src.Path, con.Layout())
	if err != nil {
		return nil, err
	}
	if g.Kind != kind {
		return nil, fmt.Errorf(
			"%w: %s map %s is a %s", gomag.ErrConfiguration, name, src.Path, g.Kind,
		)
	}

	g.Scale = src.Scale
	g.ShiftX, g.ShiftY, g.ShiftZ = src.ShiftX, src.ShiftY, src.ShiftZ
	g.SetCaching(con.Maps.Cache)
	return g, nil
}

func parseLayout(s string) (gomag.Layout, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "phi-major", "":
		return gomag.PhiMajor, nil
	case "z-major":
		return gomag.ZMajor, nil
	}
	return gomag.PhiMajor, fmt.Errorf("%w: unknown layout '%s'", gomag.ErrConfiguration, s)
}
