package metrics

import (
	"math"

	"github.com/san-kum/pendulum/internal/sim"
)

// Stability is the fraction of frames whose state is finite and whose
// angular velocities stay under threshold.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(sm sim.Sample) {
	s.samples++
	st := sm.State
	if !st.IsFinite() || math.Abs(st.Omega1) > s.threshold || math.Abs(st.Omega2) > s.threshold {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}

// PeakOmega records the largest angular speed of either rod.
type PeakOmega struct {
	peak float64
}

func NewPeakOmega() *PeakOmega { return &PeakOmega{} }

func (p *PeakOmega) Name() string { return "peak_omega" }

func (p *PeakOmega) Observe(s sim.Sample) {
	p.peak = math.Max(p.peak, math.Max(math.Abs(s.State.Omega1), math.Abs(s.State.Omega2)))
}

func (p *PeakOmega) Value() float64 { return p.peak }

func (p *PeakOmega) Reset() { p.peak = 0 }
