package config

import (
	"math"
	"sort"
)

// Presets are named starting points selectable with --preset.
var Presets = map[string]*Config{
	"default": DefaultConfig(),

	// Three-term expansion of a sinusoidal arm density.
	"multiharmonic": func() *Config {
		c := DefaultConfig()
		c.Spiral.N = 2
		c.Spiral.Cs = []float64{8 / (3 * math.Pi), 0.5, 8 / (15 * math.Pi)}
		return c
	}(),

	// One pattern revolution per unit time, sampled as an animation.
	"rotating": func() *Config {
		c := DefaultConfig()
		c.Spiral.Omega = 2 * math.Pi
		c.Grid.Frames = 60
		c.Grid.TEnd = 1
		return c
	}(),

	// Four arms with a 12 degree pitch in a halo plus thin disk, scaled to
	// R0 = 1 and vc(R0) close to 1.
	"milkyway": func() *Config {
		c := DefaultConfig()
		c.Spiral = SpiralConfig{
			Amp: 0.5, N: 4, Alpha: Angle(12 * math.Pi / 180),
			RRef: 1, PhiRef: 0, Rs: 0.875, H: 0.0225,
			Cs: []float64{1}, Omega: -0.8,
		}
		c.Halo = &HaloConfig{V0: 0.75, Core: 0.1, Q: 0.9}
		c.Disk = &DiskConfig{Amp: 0.45, A: 0.375, B: 0.035}
		c.Orbit.Initial = [6]float64{1, 0.05, 1.0, 0, 0.02, 0}
		c.Orbit.Duration = 200
		c.Grid.Extent = 2.5
		return c
	}(),

	// A fan of orbits around the reference radius.
	"ensemble": func() *Config {
		c := DefaultConfig()
		c.Spiral.Omega = 0.6
		c.Orbit.Integrator = "symplec4"
		c.Orbit.Adaptive = false
		c.Orbit.Dt = 0.01
		c.Orbit.Duration = 50
		c.Orbit.SampleEvery = 10
		c.Orbit.Initial = [6]float64{0.8, 0, 1, 0, 0.05, 0}
		for i := 1; i <= 4; i++ {
			c.Orbit.Ensemble = append(c.Orbit.Ensemble, [6]float64{0.8 + 0.1*float64(i), 0, 1, 0, 0.05, 0})
		}
		return c
	}(),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

// ListPresets returns the preset names, sorted.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
