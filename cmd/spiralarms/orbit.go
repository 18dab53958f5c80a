package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/spiralarms/internal/analysis"
	"github.com/san-kum/spiralarms/internal/config"
	"github.com/san-kum/spiralarms/internal/dynamo"
	"github.com/san-kum/spiralarms/internal/export"
	"github.com/san-kum/spiralarms/internal/integrators"
	"github.com/san-kum/spiralarms/internal/metrics"
	"github.com/san-kum/spiralarms/internal/orbit"
	"github.com/san-kum/spiralarms/internal/storage"
	"github.com/san-kum/spiralarms/internal/viz"
)

const defaultBound = 50

// integrate runs every initial condition of cfg. A single orbit goes through
// the simulator directly, several through an ensemble.
func integrate(ctx context.Context, cfg *config.Config, bound float64, limit int) (*orbit.Orbit, []*dynamo.Result, error) {
	_, pot, err := cfg.Build()
	if err != nil {
		return nil, nil, err
	}
	if _, err := integrators.New(cfg.Orbit.Integrator); err != nil {
		return nil, nil, err
	}
	sys := orbit.New(pot)
	rc := cfg.RunConfig()

	var x0s []dynamo.State
	for _, ic := range cfg.Orbit.InitialStates() {
		x0s = append(x0s, orbit.FromCylindrical(ic))
	}

	if len(x0s) == 1 {
		integ, _ := integrators.New(cfg.Orbit.Integrator)
		sim := orbit.NewSimulator(sys, integ).WithLogger(slog.Default())
		for _, m := range metrics.Standard(sys, bound) {
			sim.AddMetric(m)
		}
		res, err := sim.Run(ctx, x0s[0], rc)
		if err != nil {
			return sys, nil, err
		}
		return sys, []*dynamo.Result{res}, nil
	}

	ens := orbit.NewEnsemble(sys,
		func() dynamo.Integrator {
			integ, _ := integrators.New(cfg.Orbit.Integrator)
			return integ
		},
		func() []dynamo.Metric { return metrics.Standard(sys, bound) },
	)
	ens.SetLimit(limit)
	res, err := ens.Run(ctx, x0s, rc)
	return sys, res, err
}

func newOrbitCmd() *cobra.Command {
	var (
		name   string
		bound  float64
		limit  int
		noSave bool
	)
	cmd := &cobra.Command{
		Use:   "orbit",
		Short: "integrate the configured orbits and store the run",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			out := cmd.OutOrStdout()
			n := len(cfg.Orbit.InitialStates())
			fmt.Fprintf(out, "integrating %d orbit(s) with %s...\n", n, cfg.Orbit.Integrator)

			start := time.Now()
			sys, results, err := integrate(ctx, cfg, bound, limit)
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			steps := 0
			for _, r := range results {
				steps += r.StepsTaken
			}
			fmt.Fprintf(out, "completed in %v, %s steps\n", elapsed.Round(time.Millisecond), humanize.Comma(int64(steps)))
			if w := sys.FrameOmega(); w != 0 {
				fmt.Fprintf(out, "jacobi integral taken in the frame turning at %g\n", w)
			}

			if !noSave {
				st, err := storage.Open(cfg.Store)
				if err != nil {
					return err
				}
				defer st.Close()
				id, err := st.Save(storage.RunInfo{
					Name:       name,
					Integrator: cfg.Orbit.Integrator,
					Dt:         cfg.Orbit.Dt,
					Duration:   cfg.Orbit.Duration,
					Config:     cfg,
				}, results)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "run id: %s\n", id)
			}

			for i, r := range results {
				fmt.Fprintf(out, "\norbit %d: %d samples, drift %.2e\n", i, len(r.States), r.Drift)
				printMetrics(out, r.Metrics)
			}
			return nil
		},
	}
	addOrbitFlags(cmd)
	f := cmd.Flags()
	f.StringVar(&name, "name", "", "label stored with the run")
	f.Float64Var(&bound, "bound", defaultBound, "radius counted as escaped")
	f.IntVar(&limit, "parallel", 0, "orbits integrated at once (default GOMAXPROCS)")
	f.BoolVar(&noSave, "no-save", false, "do not store the run")
	return cmd
}

func printMetrics(out io.Writer, m map[string]float64) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(out, "  %s: %.6g\n", k, m[k])
	}
}

func newCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "integrate the first orbit with every integrator and compare drift",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "comparing integrators (dt=%g, duration=%g, adaptive=%v)\n\n",
				cfg.Orbit.Dt, cfg.Orbit.Duration, cfg.Orbit.Adaptive)

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "INTEGRATOR\tSTEPS\tFINAL R\tJACOBI DRIFT\tTIME")
			for _, name := range integrators.Names() {
				c := cfg.Clone()
				c.Orbit.Integrator = name
				c.Orbit.Ensemble = nil

				start := time.Now()
				_, results, err := integrate(ctx, c, defaultBound, 1)
				if err != nil {
					if errors.Is(err, context.Canceled) {
						return err
					}
					fmt.Fprintf(w, "%s\terror: %v\t\t\t\n", name, err)
					continue
				}
				r := results[0]
				final := orbit.ToCylindrical(r.Final())
				fmt.Fprintf(w, "%s\t%d\t%.6f\t%.2e\t%v\n",
					name, r.StepsTaken, final[0], r.Drift, time.Since(start).Round(time.Microsecond))
			}
			return w.Flush()
		},
	}
	addOrbitFlags(cmd)
	return cmd
}

func openStore(cmd *cobra.Command) (*storage.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return storage.Open(cfg.Store)
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			runs, err := st.List()
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no runs found")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCREATED\tINTEG\tDT\tDURATION\tORBITS\tSTEPS\tDRIFT")
			for _, r := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%g\t%g\t%d\t%s\t%.2e\n",
					r.ID, r.Name, humanize.Time(r.Created()), r.Integrator, r.Dt, r.Duration,
					r.Orbits, humanize.Comma(int64(r.Steps)), r.Drift)
			}
			return w.Flush()
		},
	}
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [run-id]",
		Short: "delete a stored run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()
			if err := st.Delete(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}

// storedRun is a run read back with its configuration and one orbit.
type storedRun struct {
	meta *storage.Run
	cfg  *config.Config
	traj storage.Trajectory
}

func loadRun(cmd *cobra.Command, id string, index int) (*storedRun, error) {
	st, err := openStore(cmd)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	meta, err := st.Load(id)
	if err != nil {
		return nil, err
	}
	trajs, err := st.LoadStates(id)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(trajs) {
		return nil, fmt.Errorf("run %s has %d orbit(s), no orbit %d", id, len(trajs), index)
	}
	if len(trajs[index].States) == 0 {
		return nil, fmt.Errorf("run %s orbit %d has no states", id, index)
	}

	cfg := config.DefaultConfig()
	if err := yaml.Unmarshal([]byte(meta.ConfigYAML), cfg); err != nil {
		return nil, fmt.Errorf("run %s config: %w", id, err)
	}
	return &storedRun{meta: meta, cfg: cfg, traj: trajs[index]}, nil
}

// cylindrical returns R, z and vR of every stored state.
func (r *storedRun) cylindrical() (R, z, vR []float64) {
	for _, x := range r.traj.States {
		c := orbit.ToCylindrical(x)
		R = append(R, c[0])
		vR = append(vR, c[1])
		z = append(z, c[3])
	}
	return R, z, vR
}

func newPlotCmd() *cobra.Command {
	var (
		index   int
		frame   string
		pngPath string
		svgPath string
	)
	cmd := &cobra.Command{
		Use:   "plot [run-id]",
		Short: "plot a stored orbit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			run, err := loadRun(cmd, args[0], index)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "run: %s\norbit: %d\nsamples: %d\n\n", run.meta.ID, index, len(run.traj.States))

			R, z, _ := run.cylindrical()
			for _, s := range []struct {
				data    []float64
				caption string
			}{{R, "R(t)"}, {z, "z(t)"}} {
				fmt.Fprintln(out, asciigraph.Plot(s.data,
					asciigraph.Height(10),
					asciigraph.Width(80),
					asciigraph.Caption(s.caption),
				))
				fmt.Fprintln(out)
			}

			if pngPath == "" && svgPath == "" {
				return nil
			}
			path, err := run.path(frame)
			if err != nil {
				return err
			}
			title := fmt.Sprintf("orbit %d, %s frame", index, frame)
			if pngPath != "" {
				err := export.SaveFile(pngPath, func(w io.Writer) error {
					return export.PathPNG(w, path, export.Labels{Title: title, X: "x", Y: "y"}, export.DefaultSize())
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "wrote %s\n", pngPath)
			}
			if svgPath != "" {
				svg := export.TrajectoryToSVG(path, 600, 600, "#4a9eff")
				if err := export.SaveFile(svgPath, func(w io.Writer) error {
					_, err := io.WriteString(w, svg)
					return err
				}); err != nil {
					return err
				}
				fmt.Fprintf(out, "wrote %s\n", svgPath)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.IntVar(&index, "orbit", 0, "orbit index within the run")
	f.StringVar(&frame, "frame", "inertial", "x-y frame: inertial or pattern")
	f.StringVar(&pngPath, "png", "", "write the x-y path as PNG")
	f.StringVar(&svgPath, "svg", "", "write the x-y path as SVG")
	return cmd
}

// path projects the orbit onto the x-y plane of the inertial frame or of
// the frame turning with the spiral pattern.
func (r *storedRun) path(frame string) ([]analysis.Point, error) {
	pts := make([]analysis.Point, len(r.traj.States))
	switch frame {
	case "inertial":
		for i, x := range r.traj.States {
			pts[i] = analysis.Point{X: x[0], Y: x[1]}
		}
	case "pattern":
		_, pot, err := r.cfg.Build()
		if err != nil {
			return nil, err
		}
		sys := orbit.New(pot)
		for i, x := range r.traj.States {
			px, py := sys.Corotating(x, r.traj.Times[i])
			pts[i] = analysis.Point{X: px, Y: py}
		}
	default:
		return nil, fmt.Errorf("unknown frame %q (want inertial or pattern)", frame)
	}
	return pts, nil
}

func newAnalyzeCmd() *cobra.Command {
	var (
		index    int
		lyapunov bool
		d0       float64
	)
	cmd := &cobra.Command{
		Use:   "analyze [run-id]",
		Short: "radial frequency, surface of section and Lyapunov exponent of a stored orbit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			run, err := loadRun(cmd, args[0], index)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "frequency analysis: %s orbit %d\n\n", run.meta.ID, index)

			R, _, _ := run.cylindrical()
			step := run.cfg.Orbit.Dt * float64(max(1, run.cfg.Orbit.SampleEvery))
			uniform, err := analysis.Resample(run.traj.Times, R, step)
			if err != nil {
				return err
			}
			spec, err := analysis.PowerSpectrum(uniform, step)
			if err != nil {
				return err
			}
			shown := spec.Power[:max(2, len(spec.Power)/4)]
			fmt.Fprintln(out, asciigraph.Plot(shown,
				asciigraph.Height(15),
				asciigraph.Width(80),
				asciigraph.Caption("power spectrum of R(t)"),
			))
			fmt.Fprintln(out)

			freq := spec.Peak()
			fmt.Fprintf(out, "radial frequency: %.5g\n", freq)
			if freq > 0 {
				fmt.Fprintf(out, "radial period: %.5g\n", 1/freq)
			}

			section := analysis.SurfaceOfSection(
				&dynamo.Result{States: run.traj.States, Times: run.traj.Times},
				2, 0,
				func(x dynamo.State) analysis.Point {
					c := orbit.ToCylindrical(x)
					return analysis.Point{X: c[0], Y: c[1]}
				},
			)
			fmt.Fprintf(out, "\nsurface of section (R, vR) at upward z crossings: %d points\n", len(section))
			if len(section) > 0 {
				fmt.Fprintln(out, analysis.ScatterASCII(section, 60, 20))
			}

			if lyapunov {
				_, pot, err := run.cfg.Build()
				if err != nil {
					return err
				}
				integ, err := integrators.New(run.cfg.Orbit.Integrator)
				if err != nil {
					return err
				}
				x0 := orbit.FromCylindrical(run.cfg.Orbit.InitialStates()[index])
				lambda := analysis.LyapunovExponent(orbit.New(pot), integ, x0, run.cfg.Orbit.Dt, run.cfg.Orbit.Duration, d0)
				fmt.Fprintf(out, "\nlargest lyapunov exponent: %.4g", lambda)
				if lambda > 0 {
					fmt.Fprintf(out, " (e-folding time %.4g)", 1/lambda)
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.IntVar(&index, "orbit", 0, "orbit index within the run")
	f.BoolVar(&lyapunov, "lyapunov", false, "re-integrate with a companion orbit to estimate the Lyapunov exponent")
	f.Float64Var(&d0, "d0", 1e-8, "initial separation for the Lyapunov estimate")
	return cmd
}

func newLiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "live",
		Short: "interactive terminal view of the spiral and an orbit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := cfg.RunConfig().Validate(); err != nil {
				return err
			}
			return viz.Run(cfg)
		},
	}
	addOrbitFlags(cmd)
	return cmd
}

func newExportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export [run-id]",
		Short: "export a stored run as json",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			meta, err := st.Load(args[0])
			if err != nil {
				return err
			}
			trajs, err := st.LoadStates(args[0])
			if err != nil {
				return err
			}
			data, err := export.NewRunData(meta, trajs)
			if err != nil {
				return err
			}
			if out == "" {
				return export.WriteJSON(cmd.OutOrStdout(), data)
			}
			if err := export.SaveFile(out, func(w io.Writer) error { return export.WriteJSON(w, data) }); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}
