package potential

import (
	"fmt"
	"maps"
	"reflect"
	"sort"
)

// Accessor names a quantity that can be evaluated through Call.
type Accessor string

const (
	AccPotential   Accessor = "potential"
	AccRForce      Accessor = "rforce"
	AccZForce      Accessor = "zforce"
	AccPhiForce    Accessor = "phiforce"
	AccR2Deriv     Accessor = "r2deriv"
	AccZ2Deriv     Accessor = "z2deriv"
	AccPhi2Deriv   Accessor = "phi2deriv"
	AccRZDeriv     Accessor = "rzderiv"
	AccRPhiDeriv   Accessor = "rphideriv"
	AccPhiZDeriv   Accessor = "phizderiv"
	AccDens        Accessor = "dens"
	AccDensPoisson Accessor = "dens-poisson"
)

// Field is the typed signature shared by every accessor.
type Field func(R, z, phi, t float64) float64

func (s *SpiralArms) accessorFields() map[Accessor]Field {
	return map[Accessor]Field{
		AccPotential: s.Evaluate,
		AccRForce:    s.RForce,
		AccZForce:    s.ZForce,
		AccPhiForce:  s.PhiForce,
		AccR2Deriv:   s.R2Deriv,
		AccZ2Deriv:   s.Z2Deriv,
		AccPhi2Deriv: s.Phi2Deriv,
		AccRZDeriv:   s.RZDeriv,
		AccRPhiDeriv: s.RPhiDeriv,
		AccPhiZDeriv: s.PhiZDeriv,
		AccDens: func(R, z, phi, t float64) float64 {
			return s.Dens(R, z, phi, t, false)
		},
		AccDensPoisson: func(R, z, phi, t float64) float64 {
			return s.Dens(R, z, phi, t, true)
		},
	}
}

// Field returns the typed method behind acc.
func (s *SpiralArms) Field(acc Accessor) (Field, bool) {
	f, ok := s.fields[acc]
	return f, ok
}

// Fields maps each accessor to its typed method. The map is a copy.
func (s *SpiralArms) Fields() map[Accessor]Field {
	return maps.Clone(s.fields)
}

// Accessors lists the accessor names accepted by Call, sorted.
func Accessors() []Accessor {
	names := []Accessor{
		AccPotential, AccRForce, AccZForce, AccPhiForce,
		AccR2Deriv, AccZ2Deriv, AccPhi2Deriv,
		AccRZDeriv, AccRPhiDeriv, AccPhiZDeriv,
		AccDens, AccDensPoisson,
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// Coords is a validated evaluation point.
type Coords struct {
	R, Z, Phi, T float64
}

var coordNames = [4]string{"R", "z", "phi", "t"}

// ParseCoords validates dynamic arguments (R, z[, phi[, t]]). Missing phi and
// t default to zero. Sequences, maps and non-numeric values are rejected with
// an *InputError rather than broadcast.
func ParseCoords(acc Accessor, args ...any) (Coords, error) {
	if len(args) < 2 || len(args) > 4 {
		return Coords{}, &InputError{
			Accessor: acc,
			Wrapped:  fmt.Errorf("%w: want (R, z[, phi[, t]]), got %d arguments", ErrInvalidInput, len(args)),
		}
	}
	var vals [4]float64
	for i, a := range args {
		v, err := scalar(a)
		if err != nil {
			return Coords{}, &InputError{Accessor: acc, Arg: coordNames[i], Got: a, Wrapped: err}
		}
		vals[i] = v
	}
	return Coords{R: vals[0], Z: vals[1], Phi: vals[2], T: vals[3]}, nil
}

// Call evaluates the named accessor on dynamically typed coordinates.
func (s *SpiralArms) Call(acc Accessor, args ...any) (float64, error) {
	f, ok := s.Field(acc)
	if !ok {
		return 0, &InputError{Accessor: acc, Wrapped: ErrUnknownAccessor}
	}
	c, err := ParseCoords(acc, args...)
	if err != nil {
		return 0, err
	}
	return f(c.R, c.Z, c.Phi, c.T), nil
}

func scalar(a any) (float64, error) {
	switch v := a.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int8:
		return float64(v), nil
	case int16:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint:
		return float64(v), nil
	case uint8:
		return float64(v), nil
	case uint16:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case nil:
		return 0, fmt.Errorf("%w: got nil", ErrInvalidInput)
	}

	rv := reflect.ValueOf(a)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.Chan:
		return 0, fmt.Errorf("%w: got a sequence of length %d", ErrInvalidInput, rv.Len())
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), nil
	}
	return 0, fmt.Errorf("%w: got %T", ErrInvalidInput, a)
}
