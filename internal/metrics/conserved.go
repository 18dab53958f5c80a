package metrics

import (
	"math"

	"github.com/san-kum/spiralarms/internal/dynamo"
)

// ConservedDrift records the largest relative change of an integral of
// motion, such as the Jacobi integral of an orbit.
type ConservedDrift struct {
	name     string
	c        dynamo.Conserved
	initial  float64
	maxDrift float64
	samples  int
}

func NewConservedDrift(name string, c dynamo.Conserved) *ConservedDrift {
	return &ConservedDrift{name: name, c: c}
}

// NewJacobiDrift tracks the integral reported by sys, which for an orbit is
// the Jacobi integral.
func NewJacobiDrift(sys dynamo.Conserved) *ConservedDrift {
	return NewConservedDrift("jacobi_drift", sys)
}

func (d *ConservedDrift) Name() string { return d.name }

func (d *ConservedDrift) Observe(x dynamo.State, t float64) {
	v := d.c.Conserved(x, t)
	if d.samples == 0 {
		d.initial = v
	}
	d.samples++

	drift := math.Abs(v - d.initial)
	if d.initial != 0 {
		drift /= math.Abs(d.initial)
	}
	d.maxDrift = math.Max(d.maxDrift, drift)
}

func (d *ConservedDrift) Value() float64 { return d.maxDrift }

func (d *ConservedDrift) Reset() {
	d.initial = 0
	d.maxDrift = 0
	d.samples = 0
}
