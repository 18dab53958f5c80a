package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/san-kum/spiralarms/internal/config"
	"github.com/san-kum/spiralarms/internal/integrators"
)

var (
	configFile string
	preset     string
	dataDir    string
	verbose    bool

	// overrides applied on top of the preset or config file
	dt         float64
	duration   float64
	integrator string
	adaptive   bool
	tolerance  float64
	every      int
	amp        float64
	arms       int
	alpha      string
	omega      float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "spiralarms",
		Short:        "Cox & Gomez spiral arm potential: evaluation, maps and orbits",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(verbose)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.StringVar(&dataDir, "data", "", "run store directory (default from config)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	pf.Float64Var(&amp, "amp", 1, "spiral amplitude")
	pf.IntVar(&arms, "arms", 2, "number of arms")
	pf.StringVar(&alpha, "alpha", "0.2", "pitch angle, radians or with a unit (10deg)")
	pf.Float64Var(&omega, "omega", 0, "pattern speed")

	rootCmd.AddCommand(
		newEvalCmd(),
		newProfileCmd(),
		newMapCmd(),
		newCheckCmd(),
		newPresetsCmd(),
		newDumpConfigCmd(),
		newOrbitCmd(),
		newCompareCmd(),
		newListCmd(),
		newPlotCmd(),
		newAnalyzeCmd(),
		newExportCmd(),
		newDeleteCmd(),
		newLiveCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "err", err)
		os.Exit(1)
	}
}

func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func addOrbitFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64Var(&dt, "dt", config.DefaultDt, "timestep (maximum step when adaptive)")
	f.Float64Var(&duration, "time", config.DefaultDuration, "duration")
	f.StringVar(&integrator, "integrator", "dopr54", fmt.Sprintf("integrator %v", integrators.Names()))
	f.BoolVar(&adaptive, "adaptive", true, "adaptive step size control")
	f.Float64Var(&tolerance, "tol", 1e-10, "adaptive tolerance")
	f.IntVar(&every, "every", 1, "record every n-th step")
}

// loadConfig resolves the config file or preset, then applies any flags the
// user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case configFile != "":
		c, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
	case preset != "":
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	default:
		cfg = config.DefaultConfig()
	}

	flags := cmd.Flags()
	if flags.Changed("amp") {
		cfg.Spiral.Amp = amp
	}
	if flags.Changed("arms") {
		cfg.Spiral.N = arms
	}
	if flags.Changed("alpha") {
		a, err := config.ParseAngle(alpha)
		if err != nil {
			return nil, err
		}
		cfg.Spiral.Alpha = config.Angle(a)
	}
	if flags.Changed("omega") {
		cfg.Spiral.Omega = omega
	}
	if flags.Lookup("dt") != nil {
		if flags.Changed("dt") {
			cfg.Orbit.Dt = dt
		}
		if flags.Changed("time") {
			cfg.Orbit.Duration = duration
		}
		if flags.Changed("integrator") {
			cfg.Orbit.Integrator = integrator
		}
		if flags.Changed("adaptive") {
			cfg.Orbit.Adaptive = adaptive
		}
		if flags.Changed("tol") {
			cfg.Orbit.Tolerance = tolerance
		}
		if flags.Changed("every") {
			cfg.Orbit.SampleEvery = every
		}
	}
	if dataDir != "" {
		cfg.Store = dataDir
	}

	slog.Debug("config resolved",
		"preset", preset, "file", configFile,
		"arms", cfg.Spiral.N, "alpha_deg", cfg.Spiral.Alpha.Deg(), "omega", cfg.Spiral.Omega)
	return cfg, nil
}
