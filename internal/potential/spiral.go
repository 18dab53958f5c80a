package potential

import (
	"math"

	"github.com/soniakeys/unit"
)

// G is the gravitational constant in natural units.
const G = 1.0

// Params configures a SpiralArms potential. Values are given in the
// user-facing convention; New applies the handedness transform.
type Params struct {
	Amp    float64    // overall amplitude; <= 3 keeps the density non-negative
	N      int        // number of arms
	Alpha  unit.Angle // pitch angle
	RRef   float64    // fiducial radius where the phase is zero
	PhiRef float64    // reference azimuth
	Rs     float64    // radial scale length of the envelope
	H      float64    // scale height
	Cs     []float64  // amplitude of harmonic i+1 at index i
	Omega  float64    // pattern speed
}

// DefaultParams returns the two-armed single-harmonic reference model.
func DefaultParams() Params {
	return Params{
		Amp:    1,
		N:      2,
		Alpha:  unit.Angle(0.2),
		RRef:   1,
		PhiRef: 0,
		Rs:     0.5,
		H:      0.5,
		Cs:     []float64{1},
		Omega:  0,
	}
}

// SpiralArms is the Cox & Gómez (2002) multi-harmonic spiral arm potential.
//
// The arm count and pitch angle are stored negated so that a positive N and
// alpha describe a trailing spiral in a right-handed (R, phi, z) frame. All
// methods are pure; a SpiralArms is safe for concurrent use.
type SpiralArms struct {
	amp    float64
	rho0   float64
	n      float64 // -N
	alpha  float64 // -alpha, radians
	sinA   float64
	tanA   float64
	rRef   float64
	phiRef float64
	rs     float64
	h      float64
	omega  float64
	cs     []float64
	ns     []float64

	fields map[Accessor]Field
}

// New builds an immutable spiral arm potential from p.
func New(p Params) (*SpiralArms, error) {
	if len(p.Cs) == 0 {
		return nil, paramError("Cs", "must hold at least one harmonic amplitude")
	}
	if p.N == 0 {
		return nil, paramError("N", "must be non-zero")
	}
	alpha := p.Alpha.Rad()
	for name, v := range map[string]float64{
		"Amp": p.Amp, "Alpha": alpha, "RRef": p.RRef, "PhiRef": p.PhiRef,
		"Rs": p.Rs, "H": p.H, "Omega": p.Omega,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, paramError(name, "must be finite, got %v", v)
		}
	}
	for i, c := range p.Cs {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, paramError("Cs", "entry %d must be finite, got %v", i, c)
		}
	}
	if math.Sin(alpha) == 0 || math.Tan(alpha) == 0 {
		return nil, paramError("Alpha", "must not be a multiple of pi, got %v rad", alpha)
	}
	if p.Rs == 0 {
		return nil, paramError("Rs", "must be non-zero")
	}
	if p.RRef <= 0 {
		return nil, paramError("RRef", "must be positive, got %v", p.RRef)
	}
	if p.H < 0 {
		return nil, paramError("H", "must not be negative, got %v", p.H)
	}

	s := &SpiralArms{
		amp:    p.Amp,
		rho0:   p.Amp / (4 * math.Pi),
		n:      -float64(p.N),
		alpha:  -alpha,
		rRef:   p.RRef,
		phiRef: p.PhiRef,
		rs:     p.Rs,
		h:      p.H,
		omega:  p.Omega,
		cs:     append([]float64(nil), p.Cs...),
		ns:     make([]float64, len(p.Cs)),
	}
	s.sinA = math.Sin(s.alpha)
	s.tanA = math.Tan(s.alpha)
	for i := range s.ns {
		s.ns[i] = float64(i + 1)
	}
	s.fields = s.accessorFields()
	return s, nil
}

// MustNew is New for parameters known to be valid; it panics otherwise.
func MustNew(p Params) *SpiralArms {
	s, err := New(p)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *SpiralArms) Amp() float64    { return s.amp }
func (s *SpiralArms) Rho0() float64   { return s.rho0 }
func (s *SpiralArms) N() float64      { return s.n }
func (s *SpiralArms) Alpha() float64  { return s.alpha }
func (s *SpiralArms) RRef() float64   { return s.rRef }
func (s *SpiralArms) PhiRef() float64 { return s.phiRef }
func (s *SpiralArms) Rs() float64     { return s.rs }
func (s *SpiralArms) H() float64      { return s.h }
func (s *SpiralArms) Omega() float64  { return s.omega }

// Cs returns a copy of the harmonic amplitudes.
func (s *SpiralArms) Cs() []float64 { return append([]float64(nil), s.cs...) }

// Ns returns a copy of the harmonic indices 1..len(Cs).
func (s *SpiralArms) Ns() []float64 { return append([]float64(nil), s.ns...) }

// OmegaP returns the pattern speed.
func (s *SpiralArms) OmegaP() float64 { return s.omega }

// NonAxi reports that the spiral pattern is never axisymmetric.
func (s *SpiralArms) NonAxi() bool { return true }
