package dynamo

import (
	"fmt"
	"math"
)

// State is a phase-space vector. Systems integrated with the symplectic
// steppers lay out positions first and velocities second.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

// IsValid reports whether every component is finite.
func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// Sub returns s - other over the length of s.
func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

// System is a first-order ODE dx/dt = f(x, t).
type System interface {
	Derive(x State, t float64) State
	Dim() int
}

// Conserved is implemented by systems with an integral of motion, which the
// simulator tracks to report drift.
type Conserved interface {
	Conserved(x State, t float64) float64
}

type Integrator interface {
	Step(sys System, x State, t, dt float64) State
}

// AdaptiveIntegrator attempts a step of at most dt, shrinking it until the
// local error estimate meets tol. It returns the new state, the step actually
// taken and a proposal for the next step.
type AdaptiveIntegrator interface {
	Integrator
	StepAdaptive(sys System, x State, t, dt, tol float64) (next State, taken, proposed float64, err error)
}

type Metric interface {
	Name() string
	Observe(x State, t float64)
	Value() float64
	Reset()
}

type Config struct {
	Dt            float64
	Duration      float64
	Tolerance     float64
	MaxDt         float64
	MinDt         float64
	Adaptive      bool
	ValidateState bool
	// SampleEvery keeps one state in every SampleEvery steps; 0 or 1 keeps all.
	SampleEvery int
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.01,
		Duration:      10.0,
		Tolerance:     1e-8,
		MaxDt:         0.1,
		MinDt:         1e-8,
		Adaptive:      false,
		ValidateState: true,
		SampleEvery:   1,
	}
}

// Validate checks the step controls.
func (c Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalidConfig, c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %g", ErrInvalidConfig, c.Duration)
	}
	if c.Adaptive {
		if c.Tolerance <= 0 {
			return fmt.Errorf("%w: tolerance must be positive for adaptive stepping", ErrInvalidConfig)
		}
		if c.MinDt <= 0 || c.MaxDt < c.MinDt {
			return fmt.Errorf("%w: need 0 < min dt <= max dt, got %g and %g", ErrInvalidConfig, c.MinDt, c.MaxDt)
		}
	}
	if c.SampleEvery < 0 {
		return fmt.Errorf("%w: sample interval must not be negative", ErrInvalidConfig)
	}
	return nil
}

type Result struct {
	States     []State
	Times      []float64
	Metrics    map[string]float64
	Drift      float64 // max relative change of the conserved quantity
	StepsTaken int
}

// Final returns the last recorded state, or nil for an empty result.
func (r *Result) Final() State {
	if len(r.States) == 0 {
		return nil
	}
	return r.States[len(r.States)-1]
}
