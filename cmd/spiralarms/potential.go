package main

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/spiralarms/internal/check"
	"github.com/san-kum/spiralarms/internal/config"
	"github.com/san-kum/spiralarms/internal/export"
	"github.com/san-kum/spiralarms/internal/grid"
	"github.com/san-kum/spiralarms/internal/potential"
)

func newEvalCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "eval [accessor] R z [phi [t]]",
		Short: "evaluate the spiral potential or a derivative at one point",
		Long: "Accessors: " + strings.Join(accessorNames(), ", ") + ".\n" +
			"With --all the accessor is omitted and every quantity is printed.",
		Args: cobra.RangeArgs(2, 5),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			sp, _, err := cfg.Build()
			if err != nil {
				return err
			}

			if all {
				return evalAll(cmd.OutOrStdout(), sp, args)
			}
			if len(args) < 3 {
				return fmt.Errorf("want an accessor and at least R and z")
			}
			v, err := sp.Call(potential.Accessor(args[0]), coordArgs(args[1:])...)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%.17g\n", v)
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "print every accessor")
	return cmd
}

// coordArgs converts numeric arguments and passes anything else through so
// Call reports it.
func coordArgs(args []string) []any {
	out := make([]any, len(args))
	for i, a := range args {
		if v, err := strconv.ParseFloat(a, 64); err == nil {
			out[i] = v
		} else {
			out[i] = a
		}
	}
	return out
}

func accessorNames() []string {
	var names []string
	for _, a := range potential.Accessors() {
		names = append(names, string(a))
	}
	return names
}

func evalAll(out io.Writer, sp *potential.SpiralArms, args []string) error {
	if len(args) > 4 {
		return fmt.Errorf("want R z [phi [t]], got %d arguments", len(args))
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ACCESSOR\tVALUE")
	for _, acc := range potential.Accessors() {
		v, err := sp.Call(acc, coordArgs(args)...)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t% .10e\n", acc, v)
	}
	return w.Flush()
}

func newProfileCmd() *cobra.Command {
	var (
		quantity   string
		rMin, rMax float64
		z, phi, t  float64
		points     int
		pngPath    string
	)
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "plot a quantity along R",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			sp, _, err := cfg.Build()
			if err != nil {
				return err
			}
			fn, err := grid.Quantity(sp, potential.Accessor(quantity))
			if err != nil {
				return err
			}
			if points < 2 || !(rMax > rMin) || rMin <= 0 {
				return fmt.Errorf("need points >= 2 and 0 < rmin < rmax")
			}

			rs := make([]float64, points)
			vals := make([]float64, points)
			for i := range rs {
				rs[i] = rMin + (rMax-rMin)*float64(i)/float64(points-1)
				vals[i] = fn(rs[i], z, phi, t)
			}

			caption := fmt.Sprintf("%s, R in [%g, %g], z=%g phi=%g t=%g", quantity, rMin, rMax, z, phi, t)
			fmt.Fprintln(cmd.OutOrStdout(), asciigraph.Plot(vals,
				asciigraph.Height(12),
				asciigraph.Width(80),
				asciigraph.Caption(caption),
			))

			if pngPath != "" {
				err := export.SaveFile(pngPath, func(w io.Writer) error {
					return export.LinePNG(w, rs, vals, export.Labels{Title: quantity, X: "R", Y: quantity}, export.Size{Width: 7, Height: 4, DPI: 150})
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", pngPath)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&quantity, "quantity", string(potential.AccPotential), "accessor to plot")
	f.Float64Var(&rMin, "rmin", 0.1, "inner radius")
	f.Float64Var(&rMax, "rmax", 3, "outer radius")
	f.Float64Var(&z, "z", 0, "height")
	f.Float64Var(&phi, "phi", 0, "azimuth")
	f.Float64Var(&t, "t", 0, "time")
	f.IntVar(&points, "points", 80, "number of radii")
	f.StringVar(&pngPath, "png", "", "also write a PNG plot")
	return cmd
}

func newMapCmd() *cobra.Command {
	var (
		quantity string
		out      string
		t        float64
		animate  bool
		size     int
	)
	cmd := &cobra.Command{
		Use:   "map",
		Short: "render a quantity on the x-y plane as a PNG heatmap or GIF animation",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if size > 0 {
				cfg.Grid.Size = size
			}
			sp, pot, err := cfg.Build()
			if err != nil {
				return err
			}

			// Potential and forces cover the full model, the remaining
			// quantities exist only for the spiral.
			var src potential.Potential = sp
			if slices.Contains(grid.Quantities(pot), potential.Accessor(quantity)) {
				src = pot
			}
			fn, err := grid.Quantity(src, potential.Accessor(quantity))
			if err != nil {
				return err
			}

			if out == "" {
				out = "map.png"
				if animate {
					out = "map.gif"
				}
			}

			var st grid.Stats
			if animate {
				frames, err := grid.Frames(fn, cfg.Grid.Spec(), cfg.Grid.Times())
				if err != nil {
					return err
				}
				st = frames[0].Stats()
				err = export.SaveFile(out, func(w io.Writer) error {
					return export.AnimationGIF(w, frames, max(1, 400/cfg.Grid.Size), 5)
				})
				if err != nil {
					return err
				}
			} else {
				f, err := grid.Sample(fn, cfg.Grid.Spec(), t)
				if err != nil {
					return err
				}
				st = f.Stats()
				title := fmt.Sprintf("%s at t=%g", quantity, t)
				err = export.SaveFile(out, func(w io.Writer) error {
					return export.HeatmapPNG(w, f, export.Labels{Title: title, X: "x", Y: "y"}, export.DefaultSize())
				})
				if err != nil {
					return err
				}
			}

			info, err := os.Stat(out)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s), %s range [% .4e, % .4e]\n",
				out, humanize.Bytes(uint64(info.Size())), quantity, st.Min, st.Max)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&quantity, "quantity", string(potential.AccDens), "accessor to map")
	f.StringVarP(&out, "out", "o", "", "output file (default map.png, or map.gif with --animate)")
	f.Float64Var(&t, "t", 0, "time")
	f.BoolVar(&animate, "animate", false, "render grid.frames frames over [0, grid.t_end]")
	f.IntVar(&size, "size", 0, "grid points per side (default from config)")
	return cmd
}

func newCheckCmd() *cobra.Command {
	var (
		rtol, poissonRtol float64
		failuresOnly      bool
	)
	cmd := &cobra.Command{
		Use:   "check",
		Short: "compare analytic derivatives and density against numerical ones",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			sp, _, err := cfg.Build()
			if err != nil {
				return err
			}
			opts := check.DefaultOptions()
			opts.Rtol = rtol
			opts.PoissonRtol = poissonRtol

			report, err := check.Run(sp, check.DefaultPoints(), opts)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "R\tZ\tPHI\tT\tQUANTITY\tREFERENCE\tANALYTIC\tREL.ERR\tOK")
			for _, r := range report.Results {
				if failuresOnly && r.OK {
					continue
				}
				mark := "ok"
				if !r.OK {
					mark = "FAIL"
				}
				fmt.Fprintf(w, "%g\t%g\t%g\t%g\t%s\t%s\t% .6e\t%.1e\t%s\n",
					r.Point.R, r.Point.Z, r.Point.Phi, r.Point.T, r.Quantity, r.Method, r.Analytic, r.RelErr(), mark)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if failed := len(report.Failures()); failed > 0 {
				return fmt.Errorf("%d of %d checks failed", failed, len(report.Results))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nall %d checks passed\n", len(report.Results))
			return nil
		},
	}
	def := check.DefaultOptions()
	cmd.Flags().Float64Var(&rtol, "rtol", def.Rtol, "finite-difference tolerance")
	cmd.Flags().Float64Var(&poissonRtol, "poisson-rtol", def.PoissonRtol, "closed-form vs Laplacian density tolerance")
	cmd.Flags().BoolVar(&failuresOnly, "failures", false, "only print failing rows")
	return cmd
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list preset configurations",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tARMS\tPITCH\tOMEGA\tHARMONICS\tCOMPONENTS\tORBITS\tINTEG")
			for _, name := range config.ListPresets() {
				c := config.GetPreset(name)
				parts := []string{"spiral"}
				if c.Halo != nil {
					parts = append(parts, "halo")
				}
				if c.Disk != nil {
					parts = append(parts, "disk")
				}
				fmt.Fprintf(w, "%s\t%d\t%.1f°\t%g\t%d\t%s\t%d\t%s\n",
					name, c.Spiral.N, c.Spiral.Alpha.Deg(), c.Spiral.Omega, len(c.Spiral.Cs),
					strings.Join(parts, "+"), len(c.Orbit.InitialStates()), c.Orbit.Integrator)
			}
			return w.Flush()
		},
	}
}

func newDumpConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump-config [file]",
		Short: "write the resolved configuration as yaml",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if _, _, err := cfg.Build(); err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[0])
			return nil
		},
	}
	addOrbitFlags(cmd)
	return cmd
}
