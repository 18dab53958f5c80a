package orbit

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/spiralarms/internal/dynamo"
)

// Ensemble integrates many initial conditions concurrently. Integrators and
// metrics hold per-run state, so each run gets fresh ones from the factories.
type Ensemble struct {
	sys           dynamo.System
	newIntegrator func() dynamo.Integrator
	newMetrics    func() []dynamo.Metric
	limit         int
}

func NewEnsemble(sys dynamo.System, newIntegrator func() dynamo.Integrator, newMetrics func() []dynamo.Metric) *Ensemble {
	return &Ensemble{
		sys:           sys,
		newIntegrator: newIntegrator,
		newMetrics:    newMetrics,
		limit:         runtime.GOMAXPROCS(0),
	}
}

// SetLimit caps the number of orbits integrated at once.
func (e *Ensemble) SetLimit(n int) {
	if n > 0 {
		e.limit = n
	}
}

// Run returns one result per initial condition, in order. The first failing
// orbit cancels the rest.
func (e *Ensemble) Run(ctx context.Context, x0s []dynamo.State, cfg dynamo.Config) ([]*dynamo.Result, error) {
	results := make([]*dynamo.Result, len(x0s))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.limit)

	for i, x0 := range x0s {
		i, x0 := i, x0
		g.Go(func() error {
			sim := NewSimulator(e.sys, e.newIntegrator())
			if e.newMetrics != nil {
				for _, m := range e.newMetrics() {
					sim.AddMetric(m)
				}
			}
			res, err := sim.Run(ctx, x0, cfg)
			results[i] = res
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
