// Package check cross-checks the analytic derivatives of a potential against
// central finite differences and its closed-form density against the
// Laplacian of the potential.
package check

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/diff/fd"

	"github.com/san-kum/spiralarms/internal/dynamo"
	"github.com/san-kum/spiralarms/internal/potential"
)

// Subject exposes every accessor by name. *potential.SpiralArms satisfies it.
type Subject interface {
	Fields() map[potential.Accessor]potential.Field
}

type Options struct {
	// Rtol bounds finite-difference comparisons.
	Rtol float64
	// PoissonRtol bounds closed-form versus Laplacian density.
	PoissonRtol float64
	// Step is the relative finite-difference step, scaled by max(|x|, 1e-2).
	Step float64
}

func DefaultOptions() Options {
	return Options{Rtol: 1e-4, PoissonRtol: 1e-10, Step: 1e-6}
}

type variable int

const (
	byR variable = iota
	byZ
	byPhi
)

func (v variable) String() string {
	return [...]string{"R", "z", "phi"}[v]
}

// relation states that quantity equals minus the derivative of source with
// respect to wrt.
type relation struct {
	quantity, source potential.Accessor
	wrt              variable
}

var relations = []relation{
	{potential.AccRForce, potential.AccPotential, byR},
	{potential.AccZForce, potential.AccPotential, byZ},
	{potential.AccPhiForce, potential.AccPotential, byPhi},
	{potential.AccR2Deriv, potential.AccRForce, byR},
	{potential.AccZ2Deriv, potential.AccZForce, byZ},
	{potential.AccPhi2Deriv, potential.AccPhiForce, byPhi},
	{potential.AccRZDeriv, potential.AccRForce, byZ},
	{potential.AccRPhiDeriv, potential.AccRForce, byPhi},
	{potential.AccPhiZDeriv, potential.AccPhiForce, byZ},
}

// Result compares one quantity at one point. Reference is the finite
// difference, or the Poisson density for the density row.
type Result struct {
	Point     potential.Coords
	Quantity  potential.Accessor
	Method    string
	Analytic  float64
	Reference float64
	Tol       float64
	OK        bool
}

func (r Result) AbsErr() float64 { return math.Abs(r.Analytic - r.Reference) }

func (r Result) RelErr() float64 {
	if r.Reference == 0 {
		return r.AbsErr()
	}
	return r.AbsErr() / math.Abs(r.Reference)
}

type Report struct {
	Results []Result
}

func (r *Report) Passed() bool {
	return len(r.Failures()) == 0
}

func (r *Report) Failures() []Result {
	var out []Result
	for _, res := range r.Results {
		if !res.OK {
			out = append(out, res)
		}
	}
	return out
}

// DefaultPoints spans inner and outer radii, both sides of the midplane and
// a few phases and times.
func DefaultPoints() []potential.Coords {
	return []potential.Coords{
		{R: 0.5, Z: 0, Phi: 0, T: 0},
		{R: 1, Z: 0, Phi: 0, T: 0},
		{R: 1, Z: 0.1, Phi: 0.3, T: 0},
		{R: 0.3, Z: -0.2, Phi: 4, T: 2},
		{R: 2, Z: 0.5, Phi: -1, T: 0.7},
		{R: 3, Z: -1, Phi: 2.5, T: -3},
		{R: 7, Z: 0.05, Phi: 7, T: 7},
	}
}

// Run evaluates every relation and the density comparison at each point.
// Points are processed concurrently; results keep the order of points.
func Run(s Subject, points []potential.Coords, opts Options) (*Report, error) {
	fields := s.Fields()
	for _, rel := range relations {
		for _, acc := range []potential.Accessor{rel.quantity, rel.source} {
			if fields[acc] == nil {
				return nil, fmt.Errorf("%w: %q", potential.ErrUnknownAccessor, acc)
			}
		}
	}
	if fields[potential.AccDens] == nil || fields[potential.AccDensPoisson] == nil {
		return nil, fmt.Errorf("%w: density accessors", potential.ErrUnknownAccessor)
	}

	perPoint := make([][]Result, len(points))
	dynamo.ParallelFor(len(points), 1, func(start, end int) {
		for i := start; i < end; i++ {
			perPoint[i] = checkPoint(fields, points[i], opts)
		}
	})

	report := &Report{}
	for _, rs := range perPoint {
		report.Results = append(report.Results, rs...)
	}
	return report, nil
}

func checkPoint(fields map[potential.Accessor]potential.Field, p potential.Coords, opts Options) []Result {
	out := make([]Result, 0, len(relations)+1)
	for _, rel := range relations {
		src := fields[rel.source]
		got := fields[rel.quantity](p.R, p.Z, p.Phi, p.T)
		ref := -slope(along(src, p, rel.wrt), coord(p, rel.wrt), opts.Step)
		// the floor covers round-off when the quantity is near zero
		tol := opts.Rtol*math.Abs(got) + 1e-8*math.Abs(src(p.R, p.Z, p.Phi, p.T)) + 1e-300
		out = append(out, Result{
			Point:     p,
			Quantity:  rel.quantity,
			Method:    fmt.Sprintf("-d %s/d%s", rel.source, rel.wrt),
			Analytic:  got,
			Reference: ref,
			Tol:       tol,
			OK:        math.Abs(got-ref) <= tol,
		})
	}

	closed := fields[potential.AccDens](p.R, p.Z, p.Phi, p.T)
	poisson := fields[potential.AccDensPoisson](p.R, p.Z, p.Phi, p.T)
	tol := opts.PoissonRtol*math.Abs(poisson) + 1e-300
	out = append(out, Result{
		Point:     p,
		Quantity:  potential.AccDens,
		Method:    "laplacian",
		Analytic:  closed,
		Reference: poisson,
		Tol:       tol,
		OK:        math.Abs(closed-poisson) <= tol,
	})
	return out
}

func coord(p potential.Coords, v variable) float64 {
	switch v {
	case byZ:
		return p.Z
	case byPhi:
		return p.Phi
	}
	return p.R
}

func along(f potential.Field, p potential.Coords, v variable) func(float64) float64 {
	switch v {
	case byZ:
		return func(x float64) float64 { return f(p.R, x, p.Phi, p.T) }
	case byPhi:
		return func(x float64) float64 { return f(p.R, p.Z, x, p.T) }
	}
	return func(x float64) float64 { return f(x, p.Z, p.Phi, p.T) }
}

func slope(f func(float64) float64, x, rel float64) float64 {
	h := rel * math.Max(math.Abs(x), 1e-2)
	return fd.Derivative(f, x, &fd.Settings{Formula: fd.Central, Step: h})
}
