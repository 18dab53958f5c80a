package potential

import "math"

// Gamma is the phase of harmonic n:
// n*(phi - phi_ref - ln(R/r_ref)/tan(alpha) + Omega*t).
func (s *SpiralArms) Gamma(n, R, phi, t float64) float64 {
	return n * (phi - s.phiRef - math.Log(R/s.rRef)/s.tanA + s.omega*t)
}

func (s *SpiralArms) DGammadR(n, R float64) float64 {
	return -n / (R * s.tanA)
}

func (s *SpiralArms) D2GammadR2(n, R float64) float64 {
	return n / (R * R * s.tanA)
}
