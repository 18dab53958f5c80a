package grid

import (
	"fmt"
	"sort"

	"github.com/san-kum/spiralarms/internal/potential"
)

// fieldSource is implemented by potentials exposing every accessor, such as
// *potential.SpiralArms.
type fieldSource interface {
	Field(acc potential.Accessor) (potential.Field, bool)
	Fields() map[potential.Accessor]potential.Field
}

// Quantity resolves an accessor on p. Any potential provides the value and
// the three forces. Density and second derivatives need a potential that
// exposes them through Fields.
func Quantity(p potential.Potential, acc potential.Accessor) (potential.Field, error) {
	if fs, ok := p.(fieldSource); ok {
		if f, ok := fs.Field(acc); ok {
			return f, nil
		}
	}
	switch acc {
	case potential.AccPotential:
		return p.Evaluate, nil
	case potential.AccRForce:
		return p.RForce, nil
	case potential.AccZForce:
		return p.ZForce, nil
	case potential.AccPhiForce:
		return p.PhiForce, nil
	}
	return nil, fmt.Errorf("%w: %q is not available for %T", potential.ErrUnknownAccessor, acc, p)
}

// Quantities lists the accessors Quantity resolves for p.
func Quantities(p potential.Potential) []potential.Accessor {
	if fs, ok := p.(fieldSource); ok {
		fields := fs.Fields()
		names := make([]potential.Accessor, 0, len(fields))
		for acc := range fields {
			names = append(names, acc)
		}
		sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
		return names
	}
	return []potential.Accessor{
		potential.AccPhiForce, potential.AccPotential, potential.AccRForce, potential.AccZForce,
	}
}
