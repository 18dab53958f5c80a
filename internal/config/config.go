package config

import (
	"fmt"
	"os"

	"github.com/soniakeys/unit"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/spiralarms/internal/dynamo"
	"github.com/san-kum/spiralarms/internal/grid"
	"github.com/san-kum/spiralarms/internal/potential"
)

const (
	DefaultDt       = 0.1
	DefaultDuration = 100.0
	DefaultGridSize = 50
	DefaultExtent   = 2.0
)

// Config describes a galaxy model and what to do with it.
type Config struct {
	Spiral SpiralConfig `yaml:"spiral"`
	Halo   *HaloConfig  `yaml:"halo,omitempty"`
	Disk   *DiskConfig  `yaml:"disk,omitempty"`
	Orbit  OrbitConfig  `yaml:"orbit"`
	Grid   GridConfig   `yaml:"grid"`
	Store  string       `yaml:"store"`
}

type SpiralConfig struct {
	Amp    float64   `yaml:"amp"`
	N      int       `yaml:"n"`
	Alpha  Angle     `yaml:"alpha"`
	RRef   float64   `yaml:"r_ref"`
	PhiRef float64   `yaml:"phi_ref"`
	Rs     float64   `yaml:"rs"`
	H      float64   `yaml:"h"`
	Cs     []float64 `yaml:"cs,flow"`
	Omega  float64   `yaml:"omega"`
}

type HaloConfig struct {
	V0   float64 `yaml:"v0"`
	Core float64 `yaml:"core"`
	Q    float64 `yaml:"q"`
}

type DiskConfig struct {
	Amp float64 `yaml:"amp"`
	A   float64 `yaml:"a"`
	B   float64 `yaml:"b"`
}

type OrbitConfig struct {
	Integrator  string  `yaml:"integrator"`
	Dt          float64 `yaml:"dt"`
	Duration    float64 `yaml:"duration"`
	Adaptive    bool    `yaml:"adaptive"`
	Tolerance   float64 `yaml:"tolerance"`
	SampleEvery int     `yaml:"sample_every"`
	// Initial is [R, vR, vT, z, vz, phi].
	Initial [6]float64 `yaml:"initial,flow"`
	// Ensemble holds further initial conditions integrated alongside Initial.
	Ensemble [][6]float64 `yaml:"ensemble,omitempty"`
}

type GridConfig struct {
	Size   int     `yaml:"size"`
	Extent float64 `yaml:"extent"`
	Z      float64 `yaml:"z"`
	Frames int     `yaml:"frames"`
	TEnd   float64 `yaml:"t_end"`
}

func DefaultConfig() *Config {
	def := potential.DefaultParams()
	return &Config{
		Spiral: SpiralConfig{
			Amp:    def.Amp,
			N:      def.N,
			Alpha:  Angle(def.Alpha),
			RRef:   def.RRef,
			PhiRef: def.PhiRef,
			Rs:     def.Rs,
			H:      def.H,
			Cs:     append([]float64(nil), def.Cs...),
			Omega:  def.Omega,
		},
		Halo: &HaloConfig{V0: 1, Core: 0.05, Q: 1},
		Orbit: OrbitConfig{
			Integrator:  "dopr54",
			Dt:          DefaultDt,
			Duration:    DefaultDuration,
			Adaptive:    true,
			Tolerance:   1e-10,
			SampleEvery: 1,
			Initial:     [6]float64{1, 0.1, 1.1, 0, 0.1, 0},
		},
		Grid: GridConfig{
			Size:   DefaultGridSize,
			Extent: DefaultExtent,
			Frames: 60,
			TEnd:   1,
		},
		Store: ".spiralarms",
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Spiral.Cs = append([]float64(nil), c.Spiral.Cs...)
	if c.Halo != nil {
		h := *c.Halo
		out.Halo = &h
	}
	if c.Disk != nil {
		d := *c.Disk
		out.Disk = &d
	}
	out.Orbit.Ensemble = append([][6]float64(nil), c.Orbit.Ensemble...)
	return &out
}

// SpiralParams converts the spiral section for potential.New.
func (c *Config) SpiralParams() potential.Params {
	s := c.Spiral
	return potential.Params{
		Amp:    s.Amp,
		N:      s.N,
		Alpha:  unit.Angle(s.Alpha),
		RRef:   s.RRef,
		PhiRef: s.PhiRef,
		Rs:     s.Rs,
		H:      s.H,
		Cs:     append([]float64(nil), s.Cs...),
		Omega:  s.Omega,
	}
}

// Build constructs the spiral and the full potential (spiral plus any halo
// and disk).
func (c *Config) Build() (*potential.SpiralArms, potential.List, error) {
	sp, err := potential.New(c.SpiralParams())
	if err != nil {
		return nil, nil, fmt.Errorf("spiral: %w", err)
	}
	pot := potential.List{sp}
	if c.Halo != nil {
		halo, err := potential.NewLogarithmicHalo(c.Halo.V0, c.Halo.Core, c.Halo.Q)
		if err != nil {
			return nil, nil, fmt.Errorf("halo: %w", err)
		}
		pot = append(pot, halo)
	}
	if c.Disk != nil {
		disk, err := potential.NewMiyamotoNagai(c.Disk.Amp, c.Disk.A, c.Disk.B)
		if err != nil {
			return nil, nil, fmt.Errorf("disk: %w", err)
		}
		pot = append(pot, disk)
	}
	return sp, pot, nil
}

// RunConfig maps the orbit section onto integration controls.
func (c *Config) RunConfig() dynamo.Config {
	rc := dynamo.DefaultConfig()
	rc.Dt = c.Orbit.Dt
	rc.Duration = c.Orbit.Duration
	rc.Adaptive = c.Orbit.Adaptive
	if c.Orbit.Tolerance > 0 {
		rc.Tolerance = c.Orbit.Tolerance
	}
	rc.MaxDt = c.Orbit.Dt
	rc.SampleEvery = c.Orbit.SampleEvery
	return rc
}

func (g GridConfig) Spec() grid.Spec {
	return grid.Spec{Size: g.Size, Extent: g.Extent, Z: g.Z}
}

// InitialStates returns Initial followed by every Ensemble entry.
func (o OrbitConfig) InitialStates() [][6]float64 {
	return append([][6]float64{o.Initial}, o.Ensemble...)
}

// Times returns the frame times for grid animations, evenly spaced on
// [0, TEnd].
func (g GridConfig) Times() []float64 {
	if g.Frames <= 1 {
		return []float64{0}
	}
	ts := make([]float64, g.Frames)
	for i := range ts {
		ts[i] = g.TEnd * float64(i) / float64(g.Frames-1)
	}
	return ts
}
