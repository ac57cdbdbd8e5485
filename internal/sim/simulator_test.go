package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/san-kum/pendulum/internal/integrators"
	"github.com/san-kum/pendulum/internal/physics"
)

type countingMetric struct {
	observed int
	resets   int
}

func (c *countingMetric) Name() string     { return "count" }
func (c *countingMetric) Observe(s Sample) { c.observed++ }
func (c *countingMetric) Value() float64   { return float64(c.observed) }
func (c *countingMetric) Reset()           { c.observed = 0; c.resets++ }

func newTestSimulation(t *testing.T, initial physics.State, opts ...Option) *Simulation {
	t.Helper()
	profile, err := NewProfile(0.01, 3, 50, 400, 200)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	model := physics.NewModel(physics.DefaultParams())
	return New(model, integrators.NewSemiImplicitEuler(), profile, initial, opts...)
}

func TestSimulationStep(t *testing.T) {
	s := newTestSimulation(t, physics.DefaultState())

	s.Step()
	if s.Steps() != 1 {
		t.Errorf("Steps() = %d, want 1", s.Steps())
	}
	if math.Abs(s.Time()-0.01) > 1e-12 {
		t.Errorf("Time() = %v, want 0.01", s.Time())
	}

	s.StepN(0)
	s.StepN(-3)
	if s.Steps() != 1 {
		t.Errorf("StepN with n<=0 should be a no-op, Steps() = %d", s.Steps())
	}

	s.StepN(9)
	if s.Steps() != 10 {
		t.Errorf("Steps() = %d, want 10", s.Steps())
	}
	if s.Trajectory().Len() != 0 {
		t.Errorf("Step must not touch the trajectory, Len() = %d", s.Trajectory().Len())
	}
}

func TestSimulationFrame(t *testing.T) {
	metric := &countingMetric{}
	var seen []int
	s := newTestSimulation(t, physics.DefaultState(),
		WithMetric(metric),
		WithObserver(ObserverFunc(func(sm Sample) { seen = append(seen, sm.Frame) })),
	)

	sample := s.Frame()

	if s.Steps() != 3 {
		t.Errorf("Steps() = %d, want 3 sub-steps", s.Steps())
	}
	if sample.Frame != 1 || s.Frames() != 1 {
		t.Errorf("frame counter = %d/%d, want 1", sample.Frame, s.Frames())
	}

	_, _, x2, y2 := s.Model().Positions(s.State(), 400, 200)
	last, ok := s.Trajectory().Last()
	if !ok || last != (Point{X: x2, Y: y2}) {
		t.Errorf("trajectory head = %v, want (%v, %v)", last, x2, y2)
	}
	if sample.Energy != s.Energy() {
		t.Errorf("sample energy %v differs from Energy() %v", sample.Energy, s.Energy())
	}

	s.Frame()
	if metric.observed != 2 {
		t.Errorf("metric observed %d frames, want 2", metric.observed)
	}
	if diff := cmp.Diff([]int{1, 2}, seen); diff != "" {
		t.Errorf("observer frames mismatch (-want +got):\n%s", diff)
	}
}

func TestSimulationResetIdempotence(t *testing.T) {
	initial := physics.StateFromDegrees(120, -35)
	metric := &countingMetric{}
	s := newTestSimulation(t, initial, WithMetric(metric))

	for i := 0; i < 200; i++ {
		s.Frame()
	}
	if s.State() == initial {
		t.Fatal("state did not evolve")
	}

	s.Reset()

	if s.State() != initial {
		t.Errorf("state after reset = %+v, want %+v", s.State(), initial)
	}
	if s.Initial() != initial {
		t.Errorf("stored initial state changed: %+v", s.Initial())
	}
	if s.Trajectory().Len() != 0 {
		t.Errorf("trajectory not cleared, Len() = %d", s.Trajectory().Len())
	}
	if s.Time() != 0 || s.Steps() != 0 || s.Frames() != 0 {
		t.Errorf("counters not zeroed: time=%v steps=%d frames=%d", s.Time(), s.Steps(), s.Frames())
	}
	if metric.observed != 0 || metric.resets != 1 {
		t.Errorf("metric not reset: observed=%d resets=%d", metric.observed, metric.resets)
	}

	// the run after a reset replays the first one exactly
	first := s.Frame()
	s.Reset()
	if again := s.Frame(); again != first {
		t.Errorf("replay differs: %+v vs %+v", again, first)
	}
}

func TestSimulationSnapshotIsolation(t *testing.T) {
	s := newTestSimulation(t, physics.DefaultState())
	for i := 0; i < 5; i++ {
		s.Frame()
	}

	snap := s.Snapshot()
	if len(snap.Points) != 5 {
		t.Fatalf("snapshot has %d points, want 5", len(snap.Points))
	}
	if math.Abs(snap.Theta1Deg-s.State().Theta1Degrees()) > 1e-12 {
		t.Errorf("Theta1Deg = %v, want %v", snap.Theta1Deg, s.State().Theta1Degrees())
	}
	if math.Abs(snap.Kinetic+snap.Potential-snap.Energy) > 1e-9 {
		t.Errorf("kinetic %v + potential %v != energy %v", snap.Kinetic, snap.Potential, snap.Energy)
	}

	snap.Points[0] = Point{X: -1, Y: -1}
	s.Frame()

	if s.Trajectory().Points()[0] == (Point{X: -1, Y: -1}) {
		t.Error("snapshot shares memory with the trajectory")
	}
	if snap.Frame != 5 {
		t.Errorf("snapshot changed after Frame(): frame=%d", snap.Frame)
	}
}

func TestSimulationRun(t *testing.T) {
	metric := &countingMetric{}
	s := newTestSimulation(t, physics.StateFromDegrees(45, 45), WithMetric(metric))

	res, err := s.Run(context.Background(), 20)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if res.Frames != 20 || len(res.Samples) != 20 {
		t.Errorf("frames = %d, samples = %d, want 20", res.Frames, len(res.Samples))
	}
	if res.Steps != 60 {
		t.Errorf("steps = %d, want 60", res.Steps)
	}
	if res.Final != s.State() {
		t.Errorf("final state %+v differs from live state %+v", res.Final, s.State())
	}
	if res.Metrics["count"] != 20 {
		t.Errorf("metric value = %v, want 20", res.Metrics["count"])
	}
	wantDrift := math.Abs(res.FinalEnergy-res.InitialEnergy) / math.Abs(res.InitialEnergy)
	if res.EnergyDrift != wantDrift {
		t.Errorf("EnergyDrift = %v, want %v", res.EnergyDrift, wantDrift)
	}
}

func TestSimulationRunInvalidFrames(t *testing.T) {
	s := newTestSimulation(t, physics.DefaultState())
	for _, n := range []int{0, -1} {
		if _, err := s.Run(context.Background(), n); err == nil {
			t.Errorf("Run(%d) should fail", n)
		}
	}
}

func TestSimulationRunCanceled(t *testing.T) {
	s := newTestSimulation(t, physics.DefaultState())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := s.Run(ctx, 10)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if res.Frames != 0 {
		t.Errorf("canceled run advanced %d frames", res.Frames)
	}
}

func TestSimulationRunValidation(t *testing.T) {
	broken := physics.State{Theta1: math.NaN()}

	s := newTestSimulation(t, broken, WithValidation(true))
	res, err := s.Run(context.Background(), 10)

	var simErr *SimError
	if !errors.As(err, &simErr) {
		t.Fatalf("expected *SimError, got %v", err)
	}
	if !errors.Is(err, physics.ErrNonFinite) {
		t.Errorf("error should wrap ErrNonFinite: %v", err)
	}
	if simErr.Step != 3 {
		t.Errorf("SimError.Step = %d, want 3", simErr.Step)
	}
	if res.Frames != 1 {
		t.Errorf("validated run should stop after the first frame, ran %d", res.Frames)
	}

	// without validation the core keeps stepping and propagates NaN
	s = newTestSimulation(t, broken)
	res, err = s.Run(context.Background(), 10)
	if err != nil {
		t.Fatalf("unvalidated run failed: %v", err)
	}
	if res.Frames != 10 || !s.Diverged() {
		t.Errorf("frames = %d, diverged = %v", res.Frames, s.Diverged())
	}
}

func TestSimError(t *testing.T) {
	err := &SimError{Step: 12, Time: 0.125, Wrapped: physics.ErrNonFinite}
	want := "step 12 (t=0.1250): physics: non-finite state (NaN or Inf detected)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func BenchmarkSimulationFrame(b *testing.B) {
	profile := Profile{TimeStep: 0.01, SubSteps: 5, Capacity: 1000, OriginX: 400, OriginY: 200}
	s := New(physics.NewModel(physics.DefaultParams()), integrators.NewSemiImplicitEuler(), profile, physics.DefaultState())

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Frame()
	}
}
