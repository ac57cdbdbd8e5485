package physics_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/pendulum/internal/physics"
)

// step mirrors the semi-implicit Euler scheme so the model can be
// exercised over time without importing the integrators package.
func step(m *physics.Model, s *physics.State, dt float64) {
	a1, a2 := m.Accelerations(*s)
	w1 := s.Omega1 + a1*dt
	w2 := s.Omega2 + a2*dt
	s.Update(s.Theta1+w1*dt, s.Theta2+w2*dt, w1, w2)
}

var _ = Describe("Model", func() {
	var model *physics.Model

	BeforeEach(func() {
		model = physics.NewModel(physics.DefaultParams())
	})

	Describe("Accelerations", func() {
		It("vanishes at the hanging equilibrium", func() {
			a1, a2 := model.Accelerations(physics.State{})
			Expect(a1).To(BeNumerically("~", 0, 1e-3))
			Expect(a2).To(BeNumerically("~", 0, 1e-3))
		})

		It("is a fixed point for other parameter sets too", func() {
			p, err := physics.NewParams(3.7, 0.5, 2, 40, 0.1)
			Expect(err).NotTo(HaveOccurred())
			a1, a2 := physics.NewModel(p).Accelerations(physics.State{})
			Expect(a1).To(BeNumerically("~", 0, 1e-3))
			Expect(a2).To(BeNumerically("~", 0, 1e-3))
		})

		It("pulls the first rod down when released from the horizontal", func() {
			a1, a2 := model.Accelerations(physics.DefaultState())
			Expect(math.Abs(a1)).To(BeNumerically(">", 1e-3))
			Expect(math.IsInf(a1, 0) || math.IsNaN(a1)).To(BeFalse())
			Expect(math.IsInf(a2, 0) || math.IsNaN(a2)).To(BeFalse())
		})

		It("matches the closed form at the horizontal release", func() {
			// delta = 0 leaves only the gravity terms:
			// num1 = -g(2m1+m2) - m2 g sin(-pi/2), den1 = 2 m1 L1
			a1, a2 := model.Accelerations(physics.DefaultState())
			Expect(a1).To(BeNumerically("~", -9.81*20/(2*10*150), 1e-12))
			Expect(a2).To(BeNumerically("~", 0, 1e-12))
		})

		It("is antisymmetric under mirrored angles", func() {
			a1, a2 := model.Accelerations(physics.State{Theta1: 0.1, Theta2: 0.1})
			b1, b2 := model.Accelerations(physics.State{Theta1: -0.1, Theta2: -0.1})
			Expect(a1 + b1).To(BeNumerically("~", 0, 1e-9))
			Expect(a2 + b2).To(BeNumerically("~", 0, 1e-9))
		})

		It("responds to different mass ratios", func() {
			p, err := physics.NewParams(9.81, 5, 150, 15, 150)
			Expect(err).NotTo(HaveOccurred())
			s := physics.State{Theta1: math.Pi / 3, Theta2: math.Pi / 6}

			sym, _ := model.Accelerations(s)
			asym, _ := physics.NewModel(p).Accelerations(s)
			Expect(math.Abs(sym - asym)).To(BeNumerically(">", 1e-3))
		})

		It("propagates non-finite input instead of clamping", func() {
			a1, a2 := model.Accelerations(physics.State{Theta1: math.NaN()})
			Expect(math.IsNaN(a1)).To(BeTrue())
			Expect(math.IsNaN(a2)).To(BeTrue())
		})
	})

	Describe("Energy", func() {
		It("is higher with the rods raised than hanging", func() {
			Expect(model.Energy(physics.DefaultState())).To(BeNumerically(">", model.Energy(physics.State{})))
		})

		It("is negative at rest at the bottom", func() {
			Expect(model.Energy(physics.State{})).To(BeNumerically("<", 0))
			Expect(model.Energy(physics.State{})).To(BeNumerically("~", -10*9.81*150-10*9.81*300, 1e-9))
		})

		It("grows with motion", func() {
			Expect(model.Energy(physics.State{Omega1: 2, Omega2: 2})).
				To(BeNumerically(">", model.Energy(physics.State{})))
		})

		It("keeps the reference kinetic terms", func() {
			s := physics.State{Omega1: 1, Omega2: 1}
			// vx1 = 150, vy1 = 150, vx2 = 300, vy2 = 300
			Expect(model.KineticEnergy(s)).To(BeNumerically("~", 0.5*10*(2*150*150)+0.5*10*(2*300*300), 1e-6))
		})

		It("splits into kinetic and potential parts", func() {
			s := physics.State{Theta1: 0.3, Theta2: -1.1, Omega1: 0.4, Omega2: -0.2}
			Expect(model.Energy(s)).To(BeNumerically("~", model.KineticEnergy(s)+model.PotentialEnergy(s), 1e-9))
			Expect(model.Lagrangian(s)).To(BeNumerically("~", model.KineticEnergy(s)-model.PotentialEnergy(s), 1e-9))
		})

		It("stays within 10% over a short semi-implicit run", func() {
			s := physics.State{Theta1: math.Pi / 4, Theta2: math.Pi / 4}
			initial := model.Energy(s)
			for i := 0; i < 50; i++ {
				step(model, &s, 0.0005)
			}
			Expect(model.Energy(s)).To(BeNumerically("~", initial, math.Abs(initial)*0.10))
		})
	})

	Describe("Lagrangian", func() {
		It("is finite for a moving state", func() {
			l := model.Lagrangian(physics.State{Theta1: math.Pi / 4, Theta2: math.Pi / 4, Omega1: 0.5, Omega2: 0.5})
			Expect(math.IsNaN(l) || math.IsInf(l, 0)).To(BeFalse())
		})
	})

	Describe("long runs", func() {
		It("stays finite for 1000 steps from the horizontal", func() {
			s := physics.DefaultState()
			for i := 0; i < 1000; i++ {
				step(model, &s, 0.01)
				Expect(s.IsFinite()).To(BeTrue(), "step %d: %+v", i, s)
			}
		})

		It("moves both rods noticeably", func() {
			s := physics.State{Theta1: math.Pi / 3, Theta2: math.Pi / 3}
			for i := 0; i < 1000; i++ {
				step(model, &s, 0.01)
			}
			Expect(math.Abs(s.Theta1 - math.Pi/3)).To(BeNumerically(">", 0.01))
			Expect(math.Abs(s.Theta2 - math.Pi/3)).To(BeNumerically(">", 0.01))
		})
	})

	Describe("Positions", func() {
		It("hangs straight below the origin at equilibrium", func() {
			x1, y1, x2, y2 := model.Positions(physics.State{}, 400, 200)
			Expect([]float64{x1, y1, x2, y2}).To(Equal([]float64{400, 350, 400, 500}))
		})

		It("lays the rods out horizontally at pi/2", func() {
			x1, y1, x2, y2 := model.Positions(physics.DefaultState(), 0, 0)
			Expect(x1).To(BeNumerically("~", 150, 1e-9))
			Expect(y1).To(BeNumerically("~", 0, 1e-9))
			Expect(x2).To(BeNumerically("~", 300, 1e-9))
			Expect(y2).To(BeNumerically("~", 0, 1e-9))
		})
	})
})
