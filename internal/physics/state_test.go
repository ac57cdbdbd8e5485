package physics_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/pendulum/internal/physics"
)

var _ = Describe("State", func() {
	It("starts horizontal and at rest by default", func() {
		s := physics.DefaultState()
		Expect(s).To(Equal(physics.State{Theta1: math.Pi / 2, Theta2: math.Pi / 2}))
	})

	It("converts explicit degree input to radians with zero velocity", func() {
		s := physics.StateFromDegrees(45, 90)
		Expect(s.Theta1).To(BeNumerically("~", math.Pi/4, 1e-12))
		Expect(s.Theta2).To(BeNumerically("~", math.Pi/2, 1e-12))
		Expect(s.Omega1).To(BeZero())
		Expect(s.Omega2).To(BeZero())
		Expect(s.Theta1Degrees()).To(BeNumerically("~", 45, 1e-9))
		Expect(s.Theta2Degrees()).To(BeNumerically("~", 90, 1e-9))
	})

	It("copies by value", func() {
		original := physics.State{Theta1: 1, Theta2: 2, Omega1: 3, Omega2: 4}
		c := original
		c.Update(5, 6, 7, 8)
		Expect(original).To(Equal(physics.State{Theta1: 1, Theta2: 2, Omega1: 3, Omega2: 4}))
		Expect(c).To(Equal(physics.State{Theta1: 5, Theta2: 6, Omega1: 7, Omega2: 8}))
	})

	DescribeTable("IsFinite",
		func(s physics.State, want bool) {
			Expect(s.IsFinite()).To(Equal(want))
		},
		Entry("zeros", physics.State{}, true),
		Entry("large angles", physics.State{Theta1: 40, Theta2: -90}, true),
		Entry("NaN omega", physics.State{Omega2: math.NaN()}, false),
		Entry("+Inf theta", physics.State{Theta1: math.Inf(1)}, false),
		Entry("-Inf omega", physics.State{Omega1: math.Inf(-1)}, false),
	)

	It("flattens in theta/omega order", func() {
		s := physics.State{Theta1: 1, Theta2: 2, Omega1: 3, Omega2: 4}
		Expect(s.Slice()).To(Equal([]float64{1, 2, 3, 4}))
	})
})
