// Package dynamo provides the integration primitives shared by the orbit
// integrator and the samplers:
//
//   - [State]: phase-space vector
//   - [System]: ODE right-hand side dx/dt = f(x, t)
//   - [Integrator] and [AdaptiveIntegrator]: single-step schemes
//   - [Metric]: per-step observers folded into a [Result]
//   - [ParallelFor]: chunked fan-out over an index range
//
// # Example
//
//	sys := orbit.New(pot)
//	sim := orbit.NewSimulator(sys, integrators.NewLeapfrog())
//	result, _ := sim.Run(ctx, x0, dynamo.DefaultConfig())
//
// Integrators keep scratch buffers and are not safe for concurrent use;
// give each goroutine its own.
package dynamo
