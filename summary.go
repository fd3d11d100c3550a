package gomag

import (
	"fmt"
	"io"
	"time"
)

// AxisSummary describes one grid axis.
type AxisSummary struct {
	Name  string  `yaml:"name"`
	Min   float64 `yaml:"min"`
	Max   float64 `yaml:"max"`
	Nodes int     `yaml:"nodes"`
}

// Summary is a description of a grid suitable for printing or marshaling.
type Summary struct {
	Kind        string        `yaml:"kind"`
	Path        string        `yaml:"path"`
	Created     string        `yaml:"created"`
	Symmetric   bool          `yaml:"symmetric"`
	Scale       float64       `yaml:"scale"`
	Shift       [3]float64    `yaml:"shift,flow"`
	Axes        []AxisSummary `yaml:"axes"`
	Values      int           `yaml:"values"`
	GridCS      string        `yaml:"grid_cs"`
	FieldCS     string        `yaml:"field_cs"`
	LengthUnit  string        `yaml:"length_unit"`
	AngleUnit   string        `yaml:"angle_unit"`
	FieldUnit   string        `yaml:"field_unit"`
	MaxIndex    int           `yaml:"max_index"`
	MaxField    float64       `yaml:"max_field_kg"`
	MaxVector   [3]float64    `yaml:"max_vector_kg,flow"`
	MaxLocation [3]float64    `yaml:"max_location,flow"`
	AvgField    float64       `yaml:"avg_field_kg"`
}

// Summary returns a description of the grid.
func (g *Grid) Summary() Summary {
	s := Summary{
		Kind:       g.Kind.String(),
		Path:       g.Path,
		Symmetric:  g.Symmetric,
		Scale:      g.Scale,
		Shift:      [3]float64{g.ShiftX, g.ShiftY, g.ShiftZ},
		Values:     len(g.vals),
		GridCS:     g.Header.GridCS.String(),
		FieldCS:    g.Header.FieldCS.String(),
		LengthUnit: g.Header.LengthUnits.String(),
		AngleUnit:  g.Header.AngleUnits.String(),
		FieldUnit:  g.Header.FieldUnits.String(),
		MaxIndex:   g.metrics.MaxIndex,
		MaxField:   g.metrics.MaxMagnitude,
		AvgField:   g.metrics.AvgMagnitude,
	}
	if !g.Header.Created.IsZero() {
		s.Created = g.Header.Created.UTC().Format(time.RFC3339)
	}

	if g.phi != nil {
		s.Axes = append(s.Axes, axisSummary(g.phi.Name(), g.phi.Min(),
			g.phi.Max(), g.phi.Len()))
	}
	s.Axes = append(s.Axes,
		axisSummary(g.rho.Name(), g.rho.Min(), g.rho.Max(), g.rho.Len()),
		axisSummary(g.z.Name(), g.z.Min(), g.z.Max(), g.z.Len()),
	)

	if b, err := g.At(g.metrics.MaxIndex); err == nil {
		s.MaxVector = b
	}
	if phi, rho, z, err := g.Location(g.metrics.MaxIndex); err == nil {
		s.MaxLocation = [3]float64{phi, rho, z}
	}
	return s
}

func axisSummary(name string, min, max float64, n int) AxisSummary {
	return AxisSummary{Name: name, Min: min, Max: max, Nodes: n}
}

// WriteSummary writes a human readable description of the grid to w.
func (g *Grid) WriteSummary(w io.Writer) error {
	s := g.Summary()
	created := s.Created
	if created == "" {
		created = "unknown"
	}

	lines := []string{
		"========================================",
		fmt.Sprintf("%s: [%s]", s.Kind, s.Path),
		fmt.Sprintf("Created: %s", created),
		fmt.Sprintf("Symmetric: %t", s.Symmetric),
		fmt.Sprintf("scale factor: %-6.2f", s.Scale),
		fmt.Sprintf("shift (x, y, z): (%.2f, %.2f, %.2f) cm",
			s.Shift[0], s.Shift[1], s.Shift[2]),
	}
	if g.phi != nil {
		lines = append(lines, g.phi.String())
	}
	lines = append(lines,
		g.rho.String(),
		g.z.String(),
		fmt.Sprintf("number of field values: %d", s.Values),
		fmt.Sprintf("grid cs: %s", s.GridCS),
		fmt.Sprintf("field cs: %s", s.FieldCS),
		fmt.Sprintf("length unit: %s", s.LengthUnit),
		fmt.Sprintf("angular unit: %s", s.AngleUnit),
		fmt.Sprintf("field unit: %s", s.FieldUnit),
		fmt.Sprintf("max field at index: %d", s.MaxIndex),
		fmt.Sprintf("max field magnitude: %-10.6f kG", s.MaxField),
		fmt.Sprintf("max field vector: %s", FieldVector(s.MaxVector)),
		fmt.Sprintf("max field location (phi, rho, z) = (%-6.2f, %-6.2f, %-6.2f)",
			s.MaxLocation[0], s.MaxLocation[1], s.MaxLocation[2]),
		fmt.Sprintf("avg field magnitude: %-10.6f kG", s.AvgField),
	)

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
