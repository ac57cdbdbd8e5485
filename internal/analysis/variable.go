package analysis

import (
	"fmt"

	"github.com/san-kum/pendulum/internal/physics"
)

// Variable selects one coordinate of the pendulum state.
type Variable int

const (
	Theta1 Variable = iota
	Theta2
	Omega1
	Omega2
)

var variableNames = [...]string{"theta1", "theta2", "omega1", "omega2"}

func (v Variable) String() string {
	if v < Theta1 || v > Omega2 {
		return fmt.Sprintf("Variable(%d)", int(v))
	}
	return variableNames[v]
}

func ParseVariable(name string) (Variable, error) {
	for i, n := range variableNames {
		if n == name {
			return Variable(i), nil
		}
	}
	return 0, fmt.Errorf("unknown state variable %q", name)
}

// Of reads the variable from s.
func (v Variable) Of(s physics.State) float64 {
	switch v {
	case Theta1:
		return s.Theta1
	case Theta2:
		return s.Theta2
	case Omega1:
		return s.Omega1
	default:
		return s.Omega2
	}
}
