package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/spiralarms/internal/dynamo"
)

type constantOf struct{ f func(x dynamo.State) float64 }

func (c constantOf) Conserved(x dynamo.State, t float64) float64 { return c.f(x) }

func TestConservedDrift(t *testing.T) {
	m := NewJacobiDrift(constantOf{func(x dynamo.State) float64 { return x[0] }})

	for _, v := range []float64{-2, -2.02, -1.99, -2.01} {
		m.Observe(dynamo.State{v, 0, 0, 0, 0, 0}, 0)
	}
	if got := m.Value(); math.Abs(got-0.01) > 1e-12 {
		t.Errorf("drift = %v, want 0.01", got)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero drift after reset")
	}

	// absolute drift when the initial value is zero
	m.Observe(dynamo.State{0, 0, 0, 0, 0, 0}, 0)
	m.Observe(dynamo.State{0.5, 0, 0, 0, 0, 0}, 0)
	if m.Value() != 0.5 {
		t.Errorf("drift from zero = %v, want 0.5", m.Value())
	}
}

func TestRadialExtent(t *testing.T) {
	peri, apo, ecc := NewPericenter(), NewApocenter(), NewEccentricity()
	states := []dynamo.State{
		{3, 4, 0, 0, 0, 0},
		{0, 1, 9, 0, 0, 0},
		{-2, 0, -1, 0, 0, 0},
	}
	for _, s := range states {
		for _, m := range []*RadialExtent{peri, apo, ecc} {
			m.Observe(s, 0)
		}
	}

	if peri.Value() != 1 || apo.Value() != 5 {
		t.Errorf("range = [%v, %v], want [1, 5]", peri.Value(), apo.Value())
	}
	if got := ecc.Value(); math.Abs(got-4.0/6.0) > 1e-15 {
		t.Errorf("eccentricity = %v", got)
	}
	if peri.Name() != "r_min" || apo.Name() != "r_max" || ecc.Name() != "eccentricity" {
		t.Error("unexpected metric names")
	}
}

func TestMaxHeightAndBound(t *testing.T) {
	h := NewMaxHeight()
	b := NewBound(2)
	for _, s := range []dynamo.State{
		{1, 0, 0.5, 0, 0, 0},
		{1, 0, -1.5, 0, 0, 0},
		{3, 0, 0, 0, 0, 0},
		{0, 1, 0, 0, 0, 0},
	} {
		h.Observe(s, 0)
		b.Observe(s, 0)
	}
	if h.Value() != 1.5 {
		t.Errorf("z_max = %v, want 1.5", h.Value())
	}
	if b.Value() != 0.75 {
		t.Errorf("bound fraction = %v, want 0.75", b.Value())
	}

	b.Reset()
	if b.Value() != 1 {
		t.Error("empty bound fraction should be 1")
	}
}

func TestStandardNamesUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, m := range Standard(constantOf{func(dynamo.State) float64 { return 0 }}, 10) {
		if seen[m.Name()] {
			t.Errorf("duplicate metric %q", m.Name())
		}
		seen[m.Name()] = true
	}
}
