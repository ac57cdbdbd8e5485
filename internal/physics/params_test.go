package physics_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/pendulum/internal/physics"
)

var _ = Describe("Params", func() {
	It("accepts strictly positive values", func() {
		p, err := physics.NewParams(9.81, 5, 100, 8, 120)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.M2).To(Equal(8.0))
		Expect(p.L1).To(Equal(100.0))
	})

	DescribeTable("rejects invalid values",
		func(g, m1, l1, m2, l2 float64, field string) {
			_, err := physics.NewParams(g, m1, l1, m2, l2)
			Expect(err).To(MatchError(physics.ErrParameterBounds))
			Expect(err.Error()).To(ContainSubstring(field))
		},
		Entry("zero gravity", 0.0, 10.0, 150.0, 10.0, 150.0, "gravity"),
		Entry("negative gravity", -9.81, 10.0, 150.0, 10.0, 150.0, "gravity"),
		Entry("zero mass1", 9.81, 0.0, 150.0, 10.0, 150.0, "mass1"),
		Entry("negative length1", 9.81, 10.0, -1.0, 10.0, 150.0, "length1"),
		Entry("zero mass2", 9.81, 10.0, 150.0, 0.0, 150.0, "mass2"),
		Entry("zero length2", 9.81, 10.0, 150.0, 10.0, 0.0, "length2"),
		Entry("NaN mass", 9.81, math.NaN(), 150.0, 10.0, 150.0, "mass1"),
		Entry("infinite length", 9.81, 10.0, 150.0, 10.0, math.Inf(1), "length2"),
	)

	It("defaults to the reference configuration", func() {
		p := physics.DefaultParams()
		Expect(p.Validate()).To(Succeed())
		Expect(p.String()).To(Equal("g=9.81, m1=10.00, L1=150.00, m2=10.00, L2=150.00"))
	})
})
