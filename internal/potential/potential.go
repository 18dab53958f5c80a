package potential

// Potential is the uniform interface orbit integration needs from any
// galactic potential component.
type Potential interface {
	Evaluate(R, z, phi, t float64) float64
	RForce(R, z, phi, t float64) float64
	ZForce(R, z, phi, t float64) float64
	PhiForce(R, z, phi, t float64) float64
	NonAxi() bool
}

// Rotating is implemented by potentials with a rigidly rotating pattern.
type Rotating interface {
	OmegaP() float64
}

// List sums its elements. The zero value is the zero potential.
type List []Potential

func (l List) Evaluate(R, z, phi, t float64) float64 {
	total := 0.0
	for _, p := range l {
		total += p.Evaluate(R, z, phi, t)
	}
	return total
}

func (l List) RForce(R, z, phi, t float64) float64 {
	total := 0.0
	for _, p := range l {
		total += p.RForce(R, z, phi, t)
	}
	return total
}

func (l List) ZForce(R, z, phi, t float64) float64 {
	total := 0.0
	for _, p := range l {
		total += p.ZForce(R, z, phi, t)
	}
	return total
}

func (l List) PhiForce(R, z, phi, t float64) float64 {
	total := 0.0
	for _, p := range l {
		if p.NonAxi() {
			total += p.PhiForce(R, z, phi, t)
		}
	}
	return total
}

// NonAxi reports whether any element breaks axisymmetry.
func (l List) NonAxi() bool {
	for _, p := range l {
		if p.NonAxi() {
			return true
		}
	}
	return false
}

// PatternSpeed returns the pattern speed of the first rotating element of p,
// looking through nested lists.
func PatternSpeed(p Potential) (float64, bool) {
	switch v := p.(type) {
	case List:
		for _, e := range v {
			if w, ok := PatternSpeed(e); ok {
				return w, true
			}
		}
	case Rotating:
		return v.OmegaP(), true
	}
	return 0, false
}
