package potential_test

import (
	"math"

	"github.com/onsi/gomega"
	"github.com/onsi/gomega/types"
	"github.com/soniakeys/unit"
	"gonum.org/v1/gonum/diff/fd"

	"github.com/san-kum/spiralarms/internal/potential"
)

// poissonRtol bounds the disagreement between the closed-form and Poisson
// densities. Both are exact, so only rounding separates them.
const poissonRtol = 1e-10

// laplacianRtol bounds the closed-form density against a finite-difference
// Laplacian of the potential.
const laplacianRtol = 5e-3

type namedParams struct {
	name   string
	params potential.Params
}

func configs() []namedParams {
	def := potential.DefaultParams()

	fiveArms := potential.DefaultParams()
	fiveArms.N = 5
	fiveArms.Alpha = unit.Angle(0.3)
	fiveArms.RRef = 0.7
	fiveArms.Omega = 5

	threeHarmonics := potential.DefaultParams()
	threeHarmonics.N = 3
	threeHarmonics.Alpha = unit.Angle(0.24)
	threeHarmonics.PhiRef = math.Pi
	threeHarmonics.Cs = []float64{8 / (3 * math.Pi), 0.5, 8 / (15 * math.Pi)}
	threeHarmonics.Omega = -3

	open := potential.Params{
		Amp: 1, N: 4, Alpha: unit.Angle(math.Pi / 2), RRef: 1, PhiRef: 1,
		Rs: 7, H: 77, Cs: []float64{3, 1, 1}, Omega: -1.3,
	}

	singleArm := potential.Params{
		Amp: 1, N: 1, Alpha: unit.Angle(2), RRef: 0.1, PhiRef: 0.5,
		Rs: 0.2, H: 0.7, Cs: []float64{1, 2}, Omega: -123,
	}

	leading := potential.DefaultParams()
	leading.Amp = 7
	leading.N = 7
	leading.PhiRef = 0.7
	leading.Alpha = unit.Angle(-0.7)

	return []namedParams{
		{"default", def},
		{"five arms", fiveArms},
		{"three harmonics", threeHarmonics},
		{"open arms", open},
		{"single arm", singleArm},
		{"leading", leading},
	}
}

type point struct{ R, z, phi, t float64 }

var samplePoints = []point{
	{1, 0, 0, 0},
	{0.3, 0, math.Pi / 2, 0},
	{1, -0.7, math.Pi, 0},
	{0.77, 0.3, math.Pi / 3, 1},
	{3.1, -0.3, math.Pi / 5, 2},
	{0.777, 0.747, 0.343, 2.5},
	{0.01, 0, 0, 0},
	{0.1, 0.1, 0.1, 0},
	{7, 7, 7, 7},
	{4, 7, 2, 10000},
}

// slope is the central difference of f at x with a step scaled to x.
func slope(f func(float64) float64, x float64) float64 {
	h := 1e-6 * math.Max(math.Abs(x), 1e-2)
	return fd.Derivative(f, x, &fd.Settings{Formula: fd.Central, Step: h})
}

// curvature is the central second difference of f at x.
func curvature(f func(float64) float64, x float64) float64 {
	h := 1e-4 * math.Max(math.Abs(x), 0.1)
	return fd.Derivative(f, x, &fd.Settings{Formula: fd.Central2nd, Step: h})
}

// numericalDens is the Laplacian of the potential by finite differences of
// Evaluate alone, over 4 pi G.
func numericalDens(sp *potential.SpiralArms, p point) float64 {
	lap := curvature(func(x float64) float64 { return sp.Evaluate(x, p.z, p.phi, p.t) }, p.R) +
		slope(func(x float64) float64 { return sp.Evaluate(x, p.z, p.phi, p.t) }, p.R)/p.R +
		curvature(func(x float64) float64 { return sp.Evaluate(p.R, p.z, x, p.t) }, p.phi)/(p.R*p.R) +
		curvature(func(x float64) float64 { return sp.Evaluate(p.R, x, p.phi, p.t) }, p.z)
	return lap / (4 * math.Pi * potential.G)
}

// closeTo matches want within rtol, plus an absolute floor proportional to
// the magnitude of the function that was differenced.
func closeTo(want, rtol, scale float64) types.GomegaMatcher {
	return gomega.BeNumerically("~", want, rtol*math.Abs(want)+1e-10*math.Abs(scale)+1e-300)
}
