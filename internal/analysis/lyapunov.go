package analysis

import (
	"math"

	"github.com/san-kum/spiralarms/internal/dynamo"
)

// LyapunovExponent estimates the largest Lyapunov exponent by following a
// companion trajectory offset by d0 along every coordinate. The separation is
// renormalised to d0 after each step and the logarithmic growth averaged
// over the run. Regular orbits give values near zero.
func LyapunovExponent(
	sys dynamo.System,
	integ dynamo.Integrator,
	x0 dynamo.State,
	dt, duration float64,
	d0 float64,
) float64 {
	if len(x0) == 0 || dt <= 0 || d0 <= 0 {
		return 0
	}

	x := x0.Clone()
	xp := x0.Clone()
	offset := d0 / math.Sqrt(float64(len(x0)))
	for i := range xp {
		xp[i] += offset
	}

	steps := int(math.Round(duration / dt))
	sumLog := 0.0
	t := 0.0
	for i := 0; i < steps; i++ {
		x = integ.Step(sys, x, t, dt)
		xp = integ.Step(sys, xp, t, dt)
		t += dt

		sep := xp.Sub(x).Norm()
		if sep == 0 || math.IsNaN(sep) || math.IsInf(sep, 0) {
			continue
		}
		sumLog += math.Log(sep / d0)

		scale := d0 / sep
		for j := range xp {
			xp[j] = x[j] + (xp[j]-x[j])*scale
		}
	}

	if steps == 0 {
		return 0
	}
	return sumLog / (float64(steps) * dt)
}
