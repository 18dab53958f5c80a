package integrators

import (
	"fmt"
	"math"

	"github.com/san-kum/spiralarms/internal/dynamo"
)

// Dormand-Prince 5(4) tableau.
var (
	a2 = 1.0 / 5.0
	a3 = 3.0 / 10.0
	a4 = 4.0 / 5.0
	a5 = 8.0 / 9.0

	b21 = 1.0 / 5.0
	b31 = 3.0 / 40.0
	b32 = 9.0 / 40.0
	b41 = 44.0 / 45.0
	b42 = -56.0 / 15.0
	b43 = 32.0 / 9.0
	b51 = 19372.0 / 6561.0
	b52 = -25360.0 / 2187.0
	b53 = 64448.0 / 6561.0
	b54 = -212.0 / 729.0
	b61 = 9017.0 / 3168.0
	b62 = -355.0 / 33.0
	b63 = 46732.0 / 5247.0
	b64 = 49.0 / 176.0
	b65 = -5103.0 / 18656.0

	c1 = 35.0 / 384.0
	c3 = 500.0 / 1113.0
	c4 = 125.0 / 192.0
	c5 = -2187.0 / 6784.0
	c6 = 11.0 / 84.0

	// fifth minus embedded fourth order weights
	e1 = c1 - 5179.0/57600.0
	e3 = c3 - 7571.0/16695.0
	e4 = c4 - 393.0/640.0
	e5 = c5 + 92097.0/339200.0
	e6 = c6 - 187.0/2100.0
	e7 = -1.0 / 40.0
)

// DOPR54 is the adaptive Dormand-Prince 5(4) scheme. Rejected steps are
// retried with a smaller dt inside StepAdaptive.
type DOPR54 struct {
	safety   float64
	minScale float64
	maxScale float64
	// MinStep bounds how far StepAdaptive may shrink a rejected step.
	MinStep float64

	k        [7]dynamo.State
	stage    dynamo.State
	maxTries int
}

func NewDOPR54() *DOPR54 {
	return &DOPR54{
		safety:   0.9,
		minScale: 0.2,
		maxScale: 10.0,
		MinStep:  1e-12,
		maxTries: 64,
	}
}

func (r *DOPR54) ensureScratch(n int) {
	if len(r.stage) != n {
		for i := range r.k {
			r.k[i] = make(dynamo.State, n)
		}
		r.stage = make(dynamo.State, n)
	}
}

// Step takes one fixed fifth-order step.
func (r *DOPR54) Step(sys dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	next, _ := r.attempt(sys, x, t, dt, 0)
	return next
}

func (r *DOPR54) StepAdaptive(sys dynamo.System, x dynamo.State, t, dt, tol float64) (dynamo.State, float64, float64, error) {
	for try := 0; try < r.maxTries; try++ {
		next, errNorm := r.attempt(sys, x, t, dt, tol)

		if errNorm <= 1 {
			scale := r.maxScale
			if errNorm > 0 {
				scale = math.Min(r.maxScale, r.safety*math.Pow(errNorm, -0.2))
			}
			return next, dt, dt * scale, nil
		}

		// NaN error norms shrink at the minimum rate too.
		scale := r.minScale
		if !math.IsNaN(errNorm) {
			scale = math.Max(r.minScale, r.safety*math.Pow(errNorm, -0.25))
		}
		dt *= scale
		if math.Abs(dt) < r.MinStep {
			return x, 0, dt, fmt.Errorf("%w: %g", dynamo.ErrStepTooSmall, dt)
		}
	}
	return x, 0, dt, fmt.Errorf("%w: no accepted step after %d attempts", dynamo.ErrStepTooSmall, r.maxTries)
}

// attempt advances x by dt and returns the RMS of the local error scaled by
// tol*(1 + |x|). With tol = 0 the error estimate is skipped.
func (r *DOPR54) attempt(sys dynamo.System, x dynamo.State, t, dt, tol float64) (dynamo.State, float64) {
	n := len(x)
	r.ensureScratch(n)
	k, s := r.k, r.stage

	copy(k[0], sys.Derive(x, t))

	for i := 0; i < n; i++ {
		s[i] = x[i] + dt*b21*k[0][i]
	}
	copy(k[1], sys.Derive(s, t+a2*dt))

	for i := 0; i < n; i++ {
		s[i] = x[i] + dt*(b31*k[0][i]+b32*k[1][i])
	}
	copy(k[2], sys.Derive(s, t+a3*dt))

	for i := 0; i < n; i++ {
		s[i] = x[i] + dt*(b41*k[0][i]+b42*k[1][i]+b43*k[2][i])
	}
	copy(k[3], sys.Derive(s, t+a4*dt))

	for i := 0; i < n; i++ {
		s[i] = x[i] + dt*(b51*k[0][i]+b52*k[1][i]+b53*k[2][i]+b54*k[3][i])
	}
	copy(k[4], sys.Derive(s, t+a5*dt))

	for i := 0; i < n; i++ {
		s[i] = x[i] + dt*(b61*k[0][i]+b62*k[1][i]+b63*k[2][i]+b64*k[3][i]+b65*k[4][i])
	}
	copy(k[5], sys.Derive(s, t+dt))

	next := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		next[i] = x[i] + dt*(c1*k[0][i]+c3*k[2][i]+c4*k[3][i]+c5*k[4][i]+c6*k[5][i])
	}
	if tol <= 0 {
		return next, 0
	}

	copy(k[6], sys.Derive(next, t+dt))

	sum := 0.0
	for i := 0; i < n; i++ {
		est := dt * (e1*k[0][i] + e3*k[2][i] + e4*k[3][i] + e5*k[4][i] + e6*k[5][i] + e7*k[6][i])
		sc := tol * (1 + math.Max(math.Abs(x[i]), math.Abs(next[i])))
		sum += (est / sc) * (est / sc)
	}
	return next, math.Sqrt(sum / float64(n))
}
