package potential

// Radial profile of harmonic n. Every function takes the harmonic index n
// (1, 2, ...) and a radius R > 0; none of them is defined at R = 0.

// K is the radial wavenumber n*N/(R*sin(alpha)).
func (s *SpiralArms) K(n, R float64) float64 {
	return n * s.n / (R * s.sinA)
}

func (s *SpiralArms) DKdR(n, R float64) float64 {
	return -s.K(n, R) / R
}

func (s *SpiralArms) D2KdR2(n, R float64) float64 {
	return 2 * s.K(n, R) / (R * R)
}

// B is the vertical profile parameter K*H*(1 + 0.4*K*H).
func (s *SpiralArms) B(n, R float64) float64 {
	kh := s.K(n, R) * s.h
	return kh * (1 + 0.4*kh)
}

func (s *SpiralArms) DBdR(n, R float64) float64 {
	k := s.K(n, R)
	return s.h * (1 + 0.8*k*s.h) * s.DKdR(n, R)
}

func (s *SpiralArms) D2BdR2(n, R float64) float64 {
	k := s.K(n, R)
	dk := s.DKdR(n, R)
	return 0.8*s.h*s.h*dk*dk + s.h*(1+0.8*k*s.h)*s.D2KdR2(n, R)
}

// D is (1 + K*H + 0.3*(K*H)^2)/(1 + 0.3*K*H), the exponent of the sech
// vertical profile. It is positive whenever K*H > 0.
func (s *SpiralArms) D(n, R float64) float64 {
	kh := s.K(n, R) * s.h
	return (1 + kh + 0.3*kh*kh) / (1 + 0.3*kh)
}

func (s *SpiralArms) DDdR(n, R float64) float64 {
	return s.dDdK(s.K(n, R)) * s.DKdR(n, R)
}

func (s *SpiralArms) D2DdR2(n, R float64) float64 {
	k := s.K(n, R)
	dk := s.DKdR(n, R)
	return s.d2DdK2(k)*dk*dk + s.dDdK(k)*s.D2KdR2(n, R)
}

// DK2dR is d(K^2)/dR.
func (s *SpiralArms) DK2dR(n, R float64) float64 {
	return 2 * s.K(n, R) * s.DKdR(n, R)
}

// DB2dR is d(B^2)/dR.
func (s *SpiralArms) DB2dR(n, R float64) float64 {
	return 2 * s.B(n, R) * s.DBdR(n, R)
}

// DD2dR is d(D^2)/dR.
func (s *SpiralArms) DD2dR(n, R float64) float64 {
	return 2 * s.D(n, R) * s.DDdR(n, R)
}

// D reduces to K*H + 1/(1 + 0.3*K*H), which gives compact K-derivatives.
func (s *SpiralArms) dDdK(k float64) float64 {
	q := 1 + 0.3*k*s.h
	return s.h * (1 - 0.3/(q*q))
}

func (s *SpiralArms) d2DdK2(k float64) float64 {
	q := 1 + 0.3*k*s.h
	return 0.18 * s.h * s.h / (q * q * q)
}

// radial bundles K and D with their first two radial derivatives.
type radial struct {
	k, dk, d2k float64
	d, dd, d2d float64
}

func (s *SpiralArms) radialAt(n, R float64) radial {
	k := n * s.n / (R * s.sinA)
	dk := -k / R
	d2k := 2 * k / (R * R)
	kh := k * s.h
	d := (1 + kh + 0.3*kh*kh) / (1 + 0.3*kh)
	dDdK := s.dDdK(k)
	return radial{
		k: k, dk: dk, d2k: d2k,
		d:   d,
		dd:  dDdK * dk,
		d2d: s.d2DdK2(k)*dk*dk + dDdK*d2k,
	}
}
