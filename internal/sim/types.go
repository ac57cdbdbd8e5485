package sim

import (
	"fmt"

	"github.com/san-kum/pendulum/internal/physics"
)

// Sample is the per-frame reading handed to metrics and observers.
type Sample struct {
	Frame  int
	Time   float64
	State  physics.State
	Energy float64
}

// Snapshot is an immutable copy of everything a renderer needs for one
// frame. It shares no memory with the simulation.
type Snapshot struct {
	Sample
	Theta1Deg float64
	Theta2Deg float64
	Kinetic   float64
	Potential float64
	Points    []Point
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(s Sample)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(s Sample)

func (f ObserverFunc) OnFrame(s Sample) { f(s) }

type Result struct {
	Samples       []Sample
	Frames        int
	Steps         int
	Final         physics.State
	InitialEnergy float64
	FinalEnergy   float64
	EnergyDrift   float64
	Metrics       map[string]float64
}

// SimError records where a run stopped.
type SimError struct {
	Step    int
	Time    float64
	State   physics.State
	Wrapped error
}

func (e *SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimError) Unwrap() error {
	return e.Wrapped
}
