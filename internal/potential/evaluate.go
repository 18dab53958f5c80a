package potential

import "math"

// Each harmonic contributes Cs_n * P_n(R, z) * cos(gamma_n) to the sum, with
//
//	P_n = exp(-(R - r_ref)/Rs) / (K_n D_n) * sech(K_n z / D_n)^D_n.
//
// harmonic carries P_n together with the derivatives of ln P_n, from which
// every partial of the potential follows by the product rule.
type harmonic struct {
	c, n float64

	p   float64 // P_n
	lr  float64 // d ln P / dR
	lrr float64 // d2 ln P / dR2
	lz  float64 // d ln P / dz
	lzz float64 // d2 ln P / dz2
	lrz float64 // d2 ln P / dR dz

	cos, sin float64 // of gamma_n
	gr, grr  float64 // dgamma/dR, d2gamma/dR2
}

func (s *SpiralArms) harmonicAt(i int, R, z, phi, t, envelope float64) harmonic {
	n := s.ns[i]
	r := s.radialAt(n, R)
	k, d := r.k, r.d

	u := k * z / d
	uR := z * (r.dk/d - k*r.dd/(d*d))
	uRR := z * (r.d2k/d - 2*r.dk*r.dd/(d*d) - k*r.d2d/(d*d) + 2*k*r.dd*r.dd/(d*d*d))

	lc := logCosh(u)
	th := math.Tanh(u)
	sech := 1 / math.Cosh(u)
	sech2 := sech * sech

	// ln sech(u)^D = -D ln cosh(u)
	vr := -r.dd*lc - d*uR*th
	vrr := -r.d2d*lc - 2*r.dd*uR*th - d*uRR*th - d*uR*uR*sech2

	// ln 1/(K D)
	gk, gd := r.dk/k, r.dd/d
	wr := -(gk + gd)
	wrr := -(r.d2k/k - gk*gk + r.d2d/d - gd*gd)

	sin, cos := math.Sincos(s.Gamma(n, R, phi, t))

	return harmonic{
		c:   s.cs[i],
		n:   n,
		p:   envelope * math.Exp(-d*lc) / (k * d),
		lr:  -1/s.rs + wr + vr,
		lrr: wrr + vrr,
		lz:  -k * th,
		lzz: -k * k * sech2 / d,
		lrz: -r.dk*th - k*uR*sech2,
		cos: cos,
		sin: sin,
		gr:  s.DGammadR(n, R),
		grr: s.D2GammadR2(n, R),
	}
}

// logCosh is ln(cosh(u)) without overflow for large |u|.
func logCosh(u float64) float64 {
	a := math.Abs(u)
	return a + math.Log1p(math.Exp(-2*a)) - math.Ln2
}

func (s *SpiralArms) envelope(R float64) float64 {
	return math.Exp(-(R - s.rRef) / s.rs)
}

// prefactor is -4*pi*G*H*rho0.
func (s *SpiralArms) prefactor() float64 {
	return -4 * math.Pi * G * s.h * s.rho0
}

// sum evaluates prefactor * sum_n Cs_n * P_n * f(harmonic).
func (s *SpiralArms) sum(R, z, phi, t float64, f func(h *harmonic) float64) float64 {
	env := s.envelope(R)
	total := 0.0
	for i := range s.cs {
		h := s.harmonicAt(i, R, z, phi, t, env)
		total += h.c * h.p * f(&h)
	}
	return s.prefactor() * total
}

// Evaluate returns the potential at (R, z, phi, t).
func (s *SpiralArms) Evaluate(R, z, phi, t float64) float64 {
	return s.sum(R, z, phi, t, func(h *harmonic) float64 {
		return h.cos
	})
}

// RForce returns -dPhi/dR.
func (s *SpiralArms) RForce(R, z, phi, t float64) float64 {
	return -s.sum(R, z, phi, t, func(h *harmonic) float64 {
		return h.lr*h.cos - h.gr*h.sin
	})
}

// ZForce returns -dPhi/dz. It vanishes identically in the midplane.
func (s *SpiralArms) ZForce(R, z, phi, t float64) float64 {
	return -s.sum(R, z, phi, t, func(h *harmonic) float64 {
		return h.lz * h.cos
	})
}

// PhiForce returns -dPhi/dphi.
func (s *SpiralArms) PhiForce(R, z, phi, t float64) float64 {
	return -s.sum(R, z, phi, t, func(h *harmonic) float64 {
		return -h.n * h.sin
	})
}

// R2Deriv returns d2Phi/dR2.
func (s *SpiralArms) R2Deriv(R, z, phi, t float64) float64 {
	return s.sum(R, z, phi, t, func(h *harmonic) float64 {
		return (h.lr*h.lr+h.lrr-h.gr*h.gr)*h.cos - (2*h.lr*h.gr+h.grr)*h.sin
	})
}

// Z2Deriv returns d2Phi/dz2.
func (s *SpiralArms) Z2Deriv(R, z, phi, t float64) float64 {
	return s.sum(R, z, phi, t, func(h *harmonic) float64 {
		return (h.lz*h.lz + h.lzz) * h.cos
	})
}

// Phi2Deriv returns d2Phi/dphi2.
func (s *SpiralArms) Phi2Deriv(R, z, phi, t float64) float64 {
	return s.sum(R, z, phi, t, func(h *harmonic) float64 {
		return -h.n * h.n * h.cos
	})
}

// RZDeriv returns d2Phi/dR dz.
func (s *SpiralArms) RZDeriv(R, z, phi, t float64) float64 {
	return s.sum(R, z, phi, t, func(h *harmonic) float64 {
		return (h.lr*h.lz+h.lrz)*h.cos - h.lz*h.gr*h.sin
	})
}

// RPhiDeriv returns d2Phi/dR dphi.
func (s *SpiralArms) RPhiDeriv(R, z, phi, t float64) float64 {
	return s.sum(R, z, phi, t, func(h *harmonic) float64 {
		return -h.n * (h.lr*h.sin + h.gr*h.cos)
	})
}

// PhiZDeriv returns d2Phi/dphi dz.
func (s *SpiralArms) PhiZDeriv(R, z, phi, t float64) float64 {
	return s.sum(R, z, phi, t, func(h *harmonic) float64 {
		return -h.n * h.lz * h.sin
	})
}
