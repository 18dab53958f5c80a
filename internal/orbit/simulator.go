package orbit

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/san-kum/spiralarms/internal/dynamo"
)

// Simulator drives an integrator over a system and collects metrics.
// A Simulator is not safe for concurrent use; see Ensemble.
type Simulator struct {
	sys        dynamo.System
	integrator dynamo.Integrator
	metrics    []dynamo.Metric
	logger     *slog.Logger
}

func NewSimulator(sys dynamo.System, integrator dynamo.Integrator) *Simulator {
	return &Simulator{
		sys:        sys,
		integrator: integrator,
		logger:     slog.Default(),
	}
}

func (s *Simulator) AddMetric(m dynamo.Metric) { s.metrics = append(s.metrics, m) }

// WithLogger replaces the default logger; nil restores slog.Default.
func (s *Simulator) WithLogger(l *slog.Logger) *Simulator {
	if l == nil {
		l = slog.Default()
	}
	s.logger = l
	return s
}

// Run integrates from x0 at t = 0 to cfg.Duration. On failure the partial
// result is returned alongside a *dynamo.SimulationError.
func (s *Simulator) Run(ctx context.Context, x0 dynamo.State, cfg dynamo.Config) (*dynamo.Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(x0) != s.sys.Dim() {
		return nil, fmt.Errorf("%w: state has %d components, system wants %d",
			dynamo.ErrDimensionMismatch, len(x0), s.sys.Dim())
	}

	every := cfg.SampleEvery
	if every < 1 {
		every = 1
	}

	result := &dynamo.Result{
		States:  make([]dynamo.State, 0, int(cfg.Duration/cfg.Dt)/every+2),
		Times:   make([]float64, 0, int(cfg.Duration/cfg.Dt)/every+2),
		Metrics: make(map[string]float64),
	}
	for _, m := range s.metrics {
		m.Reset()
	}

	x := x0.Clone()
	t := 0.0
	dt := cfg.Dt
	tracker := newDriftTracker(s.sys, x, t)

	record := func() {
		result.States = append(result.States, x.Clone())
		result.Times = append(result.Times, t)
		for _, m := range s.metrics {
			m.Observe(x, t)
		}
	}
	record()

	s.logger.Debug("orbit run started",
		"duration", cfg.Duration, "dt", cfg.Dt, "adaptive", cfg.Adaptive)

	fixedSteps := int(math.Round(cfg.Duration / cfg.Dt))
	for step := 0; ; step++ {
		if cfg.Adaptive {
			if cfg.Duration-t <= 1e-12*cfg.Duration {
				break
			}
		} else if step >= fixedSteps {
			break
		}

		select {
		case <-ctx.Done():
			s.finish(result, tracker)
			return result, &dynamo.SimulationError{
				Step: step, Time: t, State: x.Clone(),
				Wrapped: fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, ctx.Err()),
			}
		default:
		}

		var next dynamo.State
		var taken float64
		if cfg.Adaptive {
			var err error
			dt = math.Min(dt, math.Min(cfg.MaxDt, cfg.Duration-t))
			next, taken, dt, err = s.adaptiveStep(x, t, dt, cfg)
			if err != nil {
				s.finish(result, tracker)
				return result, &dynamo.SimulationError{Step: step, Time: t, State: x.Clone(), Wrapped: err}
			}
		} else {
			next = s.integrator.Step(s.sys, x, t, dt)
			taken = dt
		}

		if cfg.ValidateState && !next.IsValid() {
			s.finish(result, tracker)
			return result, &dynamo.SimulationError{Step: step, Time: t, State: x.Clone(), Wrapped: dynamo.ErrInvalidState}
		}

		x = next
		if cfg.Adaptive {
			t += taken
		} else {
			t = float64(step+1) * cfg.Dt
		}
		result.StepsTaken++
		tracker.observe(x, t)

		last := cfg.Adaptive && cfg.Duration-t <= 1e-12*cfg.Duration || !cfg.Adaptive && step+1 == fixedSteps
		if result.StepsTaken%every == 0 || last {
			record()
		}
	}

	s.finish(result, tracker)
	s.logger.Debug("orbit run finished",
		"steps", result.StepsTaken, "t", t, "drift", result.Drift)
	return result, nil
}

func (s *Simulator) finish(result *dynamo.Result, tracker *driftTracker) {
	result.Drift = tracker.max
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

// adaptiveStep defers to the integrator's own error control when it has one
// and falls back to step doubling otherwise.
func (s *Simulator) adaptiveStep(x dynamo.State, t, dt float64, cfg dynamo.Config) (dynamo.State, float64, float64, error) {
	if adaptive, ok := s.integrator.(dynamo.AdaptiveIntegrator); ok {
		next, taken, proposed, err := adaptive.StepAdaptive(s.sys, x, t, dt, cfg.Tolerance)
		if err != nil {
			return nil, 0, 0, err
		}
		return next, taken, math.Max(cfg.MinDt, math.Min(proposed, cfg.MaxDt)), nil
	}

	for {
		x1 := s.integrator.Step(s.sys, x, t, dt)
		xHalf := s.integrator.Step(s.sys, x, t, dt/2)
		x2 := s.integrator.Step(s.sys, xHalf, t+dt/2, dt/2)

		errNorm := x1.Sub(x2).Norm()
		if errNorm > cfg.Tolerance {
			if dt/2 < cfg.MinDt {
				return nil, 0, 0, fmt.Errorf("%w: %g", dynamo.ErrStepTooSmall, dt/2)
			}
			dt /= 2
			continue
		}

		next := dt
		if errNorm < cfg.Tolerance/10 {
			next = math.Min(dt*2, cfg.MaxDt)
		}
		return x2, dt, next, nil
	}
}

// driftTracker follows the largest relative change of a conserved quantity.
type driftTracker struct {
	c       dynamo.Conserved
	initial float64
	max     float64
}

func newDriftTracker(sys dynamo.System, x dynamo.State, t float64) *driftTracker {
	c, ok := sys.(dynamo.Conserved)
	if !ok {
		return &driftTracker{}
	}
	return &driftTracker{c: c, initial: c.Conserved(x, t)}
}

func (d *driftTracker) observe(x dynamo.State, t float64) {
	if d.c == nil {
		return
	}
	delta := math.Abs(d.c.Conserved(x, t) - d.initial)
	if d.initial != 0 {
		delta /= math.Abs(d.initial)
	}
	d.max = math.Max(d.max, delta)
}
