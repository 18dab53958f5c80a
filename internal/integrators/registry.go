package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/spiralarms/internal/dynamo"
)

var registry = map[string]func() dynamo.Integrator{
	"rk4":      func() dynamo.Integrator { return NewRK4() },
	"dopr54":   func() dynamo.Integrator { return NewDOPR54() },
	"leapfrog": func() dynamo.Integrator { return NewLeapfrog() },
	"symplec4": func() dynamo.Integrator { return NewSymplec4() },
}

// New returns a fresh integrator by name.
func New(name string) (dynamo.Integrator, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator %q (available: %v)", name, Names())
	}
	return ctor(), nil
}

// Names lists the registered integrators, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
