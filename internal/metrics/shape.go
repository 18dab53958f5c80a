package metrics

import (
	"math"

	"github.com/san-kum/spiralarms/internal/dynamo"
)

// Orbit shape metrics read Cartesian states [x, y, z, vx, vy, vz].

type extentKind int

const (
	pericenter extentKind = iota
	apocenter
	eccentricity
)

// RadialExtent follows the cylindrical radius of an orbit.
type RadialExtent struct {
	kind       extentKind
	rMin, rMax float64
	samples    int
}

// NewPericenter reports the smallest cylindrical radius seen.
func NewPericenter() *RadialExtent { return &RadialExtent{kind: pericenter} }

// NewApocenter reports the largest cylindrical radius seen.
func NewApocenter() *RadialExtent { return &RadialExtent{kind: apocenter} }

// NewEccentricity reports (rmax - rmin)/(rmax + rmin).
func NewEccentricity() *RadialExtent { return &RadialExtent{kind: eccentricity} }

func (r *RadialExtent) Name() string {
	switch r.kind {
	case pericenter:
		return "r_min"
	case apocenter:
		return "r_max"
	default:
		return "eccentricity"
	}
}

func (r *RadialExtent) Observe(x dynamo.State, t float64) {
	R := math.Hypot(x[0], x[1])
	if r.samples == 0 {
		r.rMin, r.rMax = R, R
	}
	r.rMin = math.Min(r.rMin, R)
	r.rMax = math.Max(r.rMax, R)
	r.samples++
}

func (r *RadialExtent) Value() float64 {
	if r.samples == 0 {
		return 0
	}
	switch r.kind {
	case pericenter:
		return r.rMin
	case apocenter:
		return r.rMax
	default:
		if r.rMax+r.rMin == 0 {
			return 0
		}
		return (r.rMax - r.rMin) / (r.rMax + r.rMin)
	}
}

func (r *RadialExtent) Reset() {
	r.rMin, r.rMax = 0, 0
	r.samples = 0
}

// MaxHeight reports the largest |z| seen.
type MaxHeight struct {
	zMax float64
}

func NewMaxHeight() *MaxHeight { return &MaxHeight{} }

func (m *MaxHeight) Name() string { return "z_max" }

func (m *MaxHeight) Observe(x dynamo.State, t float64) {
	m.zMax = math.Max(m.zMax, math.Abs(x[2]))
}

func (m *MaxHeight) Value() float64 { return m.zMax }
func (m *MaxHeight) Reset()         { m.zMax = 0 }

// Bound is the fraction of samples inside a sphere of radius limit.
type Bound struct {
	limit      float64
	violations int
	samples    int
}

func NewBound(limit float64) *Bound {
	return &Bound{limit: limit}
}

func (b *Bound) Name() string { return "bound_fraction" }

func (b *Bound) Observe(x dynamo.State, t float64) {
	b.samples++
	if math.Sqrt(x[0]*x[0]+x[1]*x[1]+x[2]*x[2]) > b.limit {
		b.violations++
	}
}

func (b *Bound) Value() float64 {
	if b.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(b.violations)/float64(b.samples)
}

func (b *Bound) Reset() {
	b.violations = 0
	b.samples = 0
}

// Standard returns the metric set recorded for every stored orbit.
func Standard(sys dynamo.Conserved, boundRadius float64) []dynamo.Metric {
	return []dynamo.Metric{
		NewJacobiDrift(sys),
		NewPericenter(),
		NewApocenter(),
		NewEccentricity(),
		NewMaxHeight(),
		NewBound(boundRadius),
	}
}
