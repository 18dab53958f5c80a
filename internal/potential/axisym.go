package potential

import (
	"math"
)

// LogarithmicHalo is the flattened logarithmic potential
// V0^2/2 * ln(R^2 + (z/q)^2 + Rc^2), which has a flat rotation curve V0 far
// outside the core.
type LogarithmicHalo struct {
	v0, core, q float64
}

func NewLogarithmicHalo(v0, core, q float64) (*LogarithmicHalo, error) {
	if q <= 0 {
		return nil, paramError("q", "must be positive, got %v", q)
	}
	if core < 0 {
		return nil, paramError("core", "must not be negative, got %v", core)
	}
	return &LogarithmicHalo{v0: v0, core: core, q: q}, nil
}

func (l *LogarithmicHalo) m2(R, z float64) float64 {
	zq := z / l.q
	return R*R + zq*zq + l.core*l.core
}

func (l *LogarithmicHalo) Evaluate(R, z, _, _ float64) float64 {
	return 0.5 * l.v0 * l.v0 * math.Log(l.m2(R, z))
}

func (l *LogarithmicHalo) RForce(R, z, _, _ float64) float64 {
	return -l.v0 * l.v0 * R / l.m2(R, z)
}

func (l *LogarithmicHalo) ZForce(R, z, _, _ float64) float64 {
	return -l.v0 * l.v0 * z / (l.q * l.q * l.m2(R, z))
}

func (l *LogarithmicHalo) PhiForce(_, _, _, _ float64) float64 { return 0 }
func (l *LogarithmicHalo) NonAxi() bool                         { return false }

// MiyamotoNagai is the Miyamoto & Nagai (1975) disk, -amp/sqrt(R^2 + (a + sqrt(z^2 + b^2))^2).
type MiyamotoNagai struct {
	amp, a, b float64
}

func NewMiyamotoNagai(amp, a, b float64) (*MiyamotoNagai, error) {
	if a < 0 {
		return nil, paramError("a", "must not be negative, got %v", a)
	}
	if b <= 0 {
		return nil, paramError("b", "must be positive, got %v", b)
	}
	return &MiyamotoNagai{amp: amp, a: a, b: b}, nil
}

// geometry returns sqrt(z^2+b^2) and the cylindrical distance term cubed.
func (m *MiyamotoNagai) geometry(R, z float64) (sz, d, d3 float64) {
	sz = math.Sqrt(z*z + m.b*m.b)
	as := m.a + sz
	d = math.Sqrt(R*R + as*as)
	return sz, d, d * d * d
}

func (m *MiyamotoNagai) Evaluate(R, z, _, _ float64) float64 {
	_, d, _ := m.geometry(R, z)
	return -m.amp / d
}

func (m *MiyamotoNagai) RForce(R, z, _, _ float64) float64 {
	_, _, d3 := m.geometry(R, z)
	return -m.amp * R / d3
}

func (m *MiyamotoNagai) ZForce(R, z, _, _ float64) float64 {
	sz, _, d3 := m.geometry(R, z)
	return -m.amp * z * (m.a + sz) / (sz * d3)
}

func (m *MiyamotoNagai) PhiForce(_, _, _, _ float64) float64 { return 0 }
func (m *MiyamotoNagai) NonAxi() bool                         { return false }
