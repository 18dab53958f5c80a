package integrators

import (
	"math"

	"github.com/san-kum/spiralarms/internal/dynamo"
)

// The symplectic schemes expect states laid out as positions followed by
// velocities, with the second half of the derivative being the acceleration.

// Leapfrog is the second-order kick-drift-kick scheme.
type Leapfrog struct {
	scratch dynamo.State
}

func NewLeapfrog() *Leapfrog {
	return &Leapfrog{}
}

func (l *Leapfrog) Step(sys dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	n := len(x)
	half := n / 2

	if len(l.scratch) != n {
		l.scratch = make(dynamo.State, n)
	}

	result := make(dynamo.State, n)
	acc := sys.Derive(x, t)
	halfDt := dt * 0.5

	for i := 0; i < half; i++ {
		l.scratch[half+i] = x[half+i] + acc[half+i]*halfDt
	}
	for i := 0; i < half; i++ {
		result[i] = x[i] + l.scratch[half+i]*dt
		l.scratch[i] = result[i]
	}

	accNew := sys.Derive(l.scratch, t+dt)

	for i := 0; i < half; i++ {
		result[half+i] = l.scratch[half+i] + accNew[half+i]*halfDt
	}
	return result
}

// Yoshida weights for composing three leapfrog steps into a fourth-order one.
var (
	yoshidaW1 = 1 / (2 - math.Cbrt(2))
	yoshidaW0 = -math.Cbrt(2) * yoshidaW1
)

// Symplec4 is the fourth-order Yoshida composition of leapfrog steps.
type Symplec4 struct {
	lf Leapfrog
}

func NewSymplec4() *Symplec4 {
	return &Symplec4{}
}

func (s *Symplec4) Step(sys dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	h1 := yoshidaW1 * dt
	h0 := yoshidaW0 * dt
	x = s.lf.Step(sys, x, t, h1)
	x = s.lf.Step(sys, x, t+h1, h0)
	return s.lf.Step(sys, x, t+h1+h0, h1)
}
