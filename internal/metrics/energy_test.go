package metrics

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/pendulum/internal/integrators"
	"github.com/san-kum/pendulum/internal/physics"
	"github.com/san-kum/pendulum/internal/sim"
)

func TestMeanEnergy(t *testing.T) {
	m := NewMeanEnergy()
	if m.Value() != 0 {
		t.Errorf("expected zero before any sample, got %f", m.Value())
	}

	for _, e := range []float64{-10, -20, -30} {
		m.Observe(sim.Sample{Energy: e})
	}
	if math.Abs(m.Value()+20) > 1e-12 {
		t.Errorf("expected mean -20, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestEnergyDrift(t *testing.T) {
	m := NewEnergyDrift()

	m.Observe(sim.Sample{Energy: -100})
	m.Observe(sim.Sample{Energy: -110})
	m.Observe(sim.Sample{Energy: -95})

	if math.Abs(m.Value()-0.1) > 1e-12 {
		t.Errorf("expected max drift 0.1, got %f", m.Value())
	}

	m.Reset()
	m.Observe(sim.Sample{Energy: 50})
	if m.Value() != 0 {
		t.Errorf("expected zero drift after reset, got %f", m.Value())
	}
}

func TestEnergyDriftZeroBaseline(t *testing.T) {
	m := NewEnergyDrift()
	m.Observe(sim.Sample{Energy: 0})
	m.Observe(sim.Sample{Energy: 5})
	if m.Value() != 0 {
		t.Errorf("relative drift from zero energy is undefined, got %f", m.Value())
	}
}

func TestEnergyDriftInSimulation(t *testing.T) {
	drift := NewEnergyDrift()
	profile := sim.Profile{TimeStep: 0.0005, SubSteps: 10, Capacity: 10}
	s := sim.New(
		physics.NewModel(physics.DefaultParams()),
		integrators.NewSemiImplicitEuler(),
		profile,
		physics.StateFromDegrees(45, 45),
		sim.WithMetric(drift),
	)

	res, err := s.Run(context.Background(), 5)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if got := res.Metrics["energy_drift"]; got > 0.10 {
		t.Errorf("energy drift %f exceeds 10%%", got)
	}
}
