package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/pprof"
	"strconv"

	plt "github.com/phil-mansfield/pyplot"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/phil-mansfield/gomag"
	gio "github.com/phil-mansfield/gomag/io"
	"github.com/phil-mansfield/gomag/render"
)

// specialPoints are probe points at z = 380 cm which straddle the coils.
var specialPoints = [][3]float64{
	{-30, 0, 380},
	{-46.5, 0, 380},
	{32.8, 32.8, 380},
	{-32.8, -32.8, 380},
	{23.2, 40.2, 380},
}

type app struct {
	configFile, profileFile string
	verbose                 bool

	logger *zap.Logger
	prof   *os.File
	con    *gio.ConfigWrapper
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "gomag",
		Short: "gomag evaluates torus and solenoid magnetic field maps",
		Long: `gomag reads binary torus and solenoid field maps and evaluates,
combines, renders, and checks them. Maps are configured with a gcfg file;
run "gomag example-config" for a template.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) { a.teardown() },
	}

	root.PersistentFlags().StringVarP(&a.configFile, "config", "c", "",
		"configuration file (see example-config)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false,
		"enable debug logging")
	root.PersistentFlags().StringVar(&a.profileFile, "cpuprofile", "",
		"write a CPU profile to this file")

	root.AddCommand(
		a.summaryCmd(), a.probeCmd(), a.specialCmd(), a.renderCmd(),
		a.profileCmd(), a.checkCmd(), a.synthCmd(), exampleConfigCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	config := zap.NewProductionConfig()
	if a.verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger
	gio.SetLogger(logger)
	render.SetLogger(logger)

	if a.con, err = gio.ReadConfig(a.configFile); err != nil {
		return err
	}

	if a.profileFile != "" {
		if a.prof, err = os.Create(a.profileFile); err != nil {
			return err
		}
		if err = pprof.StartCPUProfile(a.prof); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) teardown() {
	if a.prof != nil {
		pprof.StopCPUProfile()
		if err := a.prof.Close(); err != nil {
			a.logger.Error("closing CPU profile", zap.Error(err))
		}
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// maps loads the configured maps. It fails if neither is configured.
func (a *app) maps() (torus, solenoid *gomag.Grid, err error) {
	torus, solenoid, err = a.con.LoadMaps()
	if err != nil {
		return nil, nil, err
	}
	if torus == nil && solenoid == nil {
		return nil, nil, fmt.Errorf(
			"%w: no torus or solenoid map is configured", gomag.ErrConfiguration,
		)
	}
	return torus, solenoid, nil
}

func (a *app) combiner() (*gomag.Combiner, error) {
	torus, solenoid, err := a.maps()
	if err != nil {
		return nil, err
	}
	return gomag.NewCombiner(torus, solenoid), nil
}

func (a *app) summaryCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print a description of each configured map",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			torus, solenoid, err := a.maps()
			if err != nil {
				return err
			}
			grids := nonNil(torus, solenoid)

			out := cmd.OutOrStdout()
			switch format {
			case "text":
				for _, g := range grids {
					if err := g.WriteSummary(out); err != nil {
						return err
					}
				}
				return nil
			case "yaml":
				summaries := make([]gomag.Summary, len(grids))
				for i, g := range grids {
					summaries[i] = g.Summary()
				}
				enc := yaml.NewEncoder(out)
				if err := enc.Encode(summaries); err != nil {
					return err
				}
				return enc.Close()
			}
			return fmt.Errorf(
				"%w: format '%s' is not one of [ text | yaml ]",
				gomag.ErrConfiguration, format,
			)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "text or yaml")
	return cmd
}

func (a *app) probeCmd() *cobra.Command {
	var points, units string
	cmd := &cobra.Command{
		Use:   "probe [X Y Z]",
		Short: "Print the combined field at points given in cm",
		Args: func(cmd *cobra.Command, args []string) error {
			if points == "" {
				return cobra.ExactArgs(3)(cmd, args)
			}
			return cobra.NoArgs(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var pts [][3]float64
			if points != "" {
				var err error
				if pts, err = gio.ReadPoints(points); err != nil {
					return err
				}
			} else {
				var p [3]float64
				for i := range p {
					v, err := strconv.ParseFloat(args[i], 64)
					if err != nil {
						return fmt.Errorf("coordinate %d: %w", i, err)
					}
					p[i] = v
				}
				pts = [][3]float64{p}
			}
			return a.probe(cmd.OutOrStdout(), pts, units)
		},
	}
	cmd.Flags().StringVarP(&points, "points", "p", "",
		"file of points, one \"x y z\" per line")
	cmd.Flags().StringVarP(&units, "units", "u", "",
		"output field unit: kG, G or T (default from config)")
	return cmd
}

func (a *app) specialCmd() *cobra.Command {
	var units string
	cmd := &cobra.Command{
		Use:   "special",
		Short: "Print the combined field at standard test points",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.probe(cmd.OutOrStdout(), specialPoints, units)
		},
	}
	cmd.Flags().StringVarP(&units, "units", "u", "",
		"output field unit: kG, G or T (default from config)")
	return cmd
}

func (a *app) probe(w io.Writer, pts [][3]float64, units string) error {
	unit := a.con.Units()
	if units != "" {
		var err error
		if unit, err = gomag.ParseFieldUnit(units); err != nil {
			return err
		}
	}

	c, err := a.combiner()
	if err != nil {
		return err
	}

	for _, p := range pts {
		b, err := c.Value(p[0], p[1], p[2])
		switch {
		case errors.Is(err, gomag.ErrOutOfRange):
			fmt.Fprintf(w, "(%8.3f, %8.3f, %8.3f) cm: out of range\n",
				p[0], p[1], p[2])
		case err != nil:
			return err
		default:
			fmt.Fprintf(w, "(%8.3f, %8.3f, %8.3f) cm: %s\n",
				p[0], p[1], p[2], b.Format(unit))
		}
	}
	return nil
}

func (a *app) renderCmd() *cobra.Command {
	var compare string
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render fixed z and fixed phi images of |B|",
		Long: `Render writes fixed z and fixed phi SVG images of the combined field
to the configured Output directory. If --compare names a second torus map,
images of the difference between it and the configured torus are written
too.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.combiner()
			if err != nil {
				return err
			}
			rc := a.con.Render
			r := &render.Renderer{Step: rc.Step, Colors: rc.Colors, Workers: rc.Workers}
			ctx := cmd.Context()

			if err := os.MkdirAll(rc.Output, 0755); err != nil {
				return err
			}
			out := func(name string) string { return filepath.Join(rc.Output, name) }

			im, err := r.FixedZ(ctx, c, rc.Z)
			if err != nil {
				return err
			}
			if err := r.Save(im, out("fixed_z.svg")); err != nil {
				return err
			}

			im, err = r.FixedPhi(ctx, c, rc.Phi)
			if err != nil {
				return err
			}
			if err := r.Save(im, out("fixed_phi.svg")); err != nil {
				return err
			}

			if compare == "" {
				return nil
			}
			torus, _ := c.Sources()
			if torus == nil {
				return fmt.Errorf(
					"%w: --compare needs a configured torus", gomag.ErrConfiguration,
				)
			}
			other, err := gio.ReadMap(compare, a.con.Layout())
			if err != nil {
				return err
			}

			im, err = r.FixedZDiff(ctx, torus, other, rc.Z)
			if err != nil {
				return err
			}
			if err := r.Save(im, out("fixed_z_diff.svg")); err != nil {
				return err
			}

			im, err = r.FixedPhiDiff(ctx, torus, other, rc.Phi)
			if err != nil {
				return err
			}
			return r.Save(im, out("fixed_phi_diff.svg"))
		},
	}
	cmd.Flags().StringVar(&compare, "compare", "",
		"second torus map to difference against the configured one")
	return cmd
}

func (a *app) profileCmd() *cobra.Command {
	var plot string
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Print |B| along z at the configured (x, y)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.combiner()
			if err != nil {
				return err
			}
			rc := a.con.Render
			p, err := render.NewProfile(c, rc.ProfileX, rc.ProfileY,
				rc.ProfileZMin, rc.ProfileZMax, rc.ProfileStep)
			if err != nil {
				return err
			}
			if err := p.WriteTable(cmd.OutOrStdout()); err != nil {
				return err
			}

			if plot != "" {
				render.PlotProfile(p, plot)
				plt.Execute()
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&plot, "plot", "",
		"also plot the profile to this file with matplotlib")
	return cmd
}

func (a *app) checkCmd() *cobra.Command {
	var n int
	var seed int64
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run self-consistency checks on each configured map",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			torus, solenoid, err := a.maps()
			if err != nil {
				return err
			}
			for _, g := range nonNil(torus, solenoid) {
				if err := gomag.Check(g, n, newRand(seed)); err != nil {
					return fmt.Errorf("%s map %s: %w", g.Kind, g.Path, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s [%s]: ok\n", g.Kind, g.Path)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&n, "n", "n", 10000, "number of random points per test")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
	return cmd
}

func (a *app) synthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "synth DIR",
		Short: "Write synthetic torus and solenoid maps into DIR",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			if err := os.MkdirAll(dir, 0755); err != nil {
				return err
			}

			sym, err := gomag.SyntheticTorus(true)
			if err != nil {
				return err
			}
			full, err := gomag.SyntheticTorus(false)
			if err != nil {
				return err
			}
			sol, err := gomag.SyntheticSolenoid()
			if err != nil {
				return err
			}

			for name, g := range map[string]*gomag.Grid{
				"symmetric_torus.dat": sym,
				"full_torus.dat":      full,
				"solenoid.dat":        sol,
			} {
				path := filepath.Join(dir, name)
				if err := gio.WriteMapFile(path, g); err != nil {
					return err
				}
				a.logger.Info("wrote synthetic map", zap.String("path", path))
			}
			return nil
		},
	}
}

func exampleConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "example-config",
		Short: "Print an example configuration file",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), gio.ExampleConfigFile)
		},
	}
}

func nonNil(grids ...*gomag.Grid) []*gomag.Grid {
	out := []*gomag.Grid{}
	for _, g := range grids {
		if g != nil {
			out = append(out, g)
		}
	}
	return out
}

func newRand(seed int64) *rand.Rand { return rand.New(rand.NewSource(seed)) }
