package integrators

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/pendulum/internal/physics"
)

var ErrUnknownIntegrator = errors.New("integrators: unknown integrator")

// Integrator advances a state by one fixed time step in place.
type Integrator interface {
	Step(m *physics.Model, s *physics.State, dt float64)
}

const DefaultName = "semi-implicit"

var registry = map[string]func() Integrator{
	"semi-implicit":    func() Integrator { return NewSemiImplicitEuler() },
	"symplectic-euler": func() Integrator { return NewSemiImplicitEuler() },
	"euler":            func() Integrator { return NewEuler() },
	"rk4":              func() Integrator { return NewRK4() },
}

// Lookup returns a fresh integrator for name. An empty name selects the
// default scheme.
func Lookup(name string) (Integrator, error) {
	if name == "" {
		name = DefaultName
	}
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownIntegrator, name, Names())
	}
	return ctor(), nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
