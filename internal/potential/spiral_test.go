package potential_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/soniakeys/unit"

	"github.com/san-kum/spiralarms/internal/potential"
)

var _ = Describe("SpiralArms construction", func() {
	It("stores the default parameters with the handedness transform", func() {
		sp, err := potential.New(potential.DefaultParams())
		Expect(err).NotTo(HaveOccurred())

		Expect(sp.Amp()).To(Equal(1.0))
		Expect(sp.Rho0()).To(BeNumerically("~", 1/(4*math.Pi), 1e-16))
		Expect(sp.N()).To(Equal(-2.0))
		Expect(sp.Alpha()).To(Equal(-0.2))
		Expect(sp.RRef()).To(Equal(1.0))
		Expect(sp.PhiRef()).To(Equal(0.0))
		Expect(sp.Rs()).To(Equal(0.5))
		Expect(sp.H()).To(Equal(0.5))
		Expect(sp.Omega()).To(Equal(0.0))
		Expect(sp.Cs()).To(Equal([]float64{1}))
		Expect(sp.Ns()).To(Equal([]float64{1}))
		Expect(sp.NonAxi()).To(BeTrue())
	})

	It("accepts a pitch angle in degrees", func() {
		p := potential.DefaultParams()
		p.Alpha = unit.AngleFromDeg(10)
		sp := potential.MustNew(p)
		Expect(sp.Alpha()).To(BeNumerically("~", -10*math.Pi/180, 1e-15))
	})

	It("numbers the harmonics from one", func() {
		p := potential.DefaultParams()
		p.Cs = []float64{1, 0.5, 0.25}
		Expect(potential.MustNew(p).Ns()).To(Equal([]float64{1, 2, 3}))
	})

	It("has a static pattern by default", func() {
		Expect(potential.MustNew(potential.DefaultParams()).OmegaP()).To(BeZero())
	})

	DescribeTable("returns the pattern speed unchanged",
		func(omega float64) {
			p := potential.DefaultParams()
			p.Omega = omega
			Expect(potential.MustNew(p).OmegaP()).To(Equal(omega))
		},
		Entry("zero", 0.0),
		Entry("positive", 123.456),
		Entry("negative", -123.0),
	)

	It("reports the pattern speed", func() {
		p := potential.DefaultParams()
		p.Omega = 1.2
		sp := potential.MustNew(p)
		Expect(sp.OmegaP()).To(Equal(1.2))

		w, ok := potential.PatternSpeed(sp)
		Expect(ok).To(BeTrue())
		Expect(w).To(Equal(1.2))
	})

	It("does not alias the caller's amplitudes", func() {
		p := potential.DefaultParams()
		p.Cs = []float64{1, 2}
		sp := potential.MustNew(p)
		p.Cs[0] = 99
		cs := sp.Cs()
		cs[1] = 99
		Expect(sp.Cs()).To(Equal([]float64{1, 2}))
	})

	DescribeTable("rejects unusable parameters",
		func(mutate func(*potential.Params)) {
			p := potential.DefaultParams()
			mutate(&p)
			_, err := potential.New(p)
			Expect(errors.Is(err, potential.ErrInvalidParams)).To(BeTrue(), "got %v", err)
		},
		Entry("no harmonics", func(p *potential.Params) { p.Cs = nil }),
		Entry("zero arms", func(p *potential.Params) { p.N = 0 }),
		Entry("zero pitch", func(p *potential.Params) { p.Alpha = 0 }),
		Entry("pitch of pi", func(p *potential.Params) { p.Alpha = unit.Angle(math.Pi) }),
		Entry("zero scale length", func(p *potential.Params) { p.Rs = 0 }),
		Entry("non-positive reference radius", func(p *potential.Params) { p.RRef = 0 }),
		Entry("negative scale height", func(p *potential.Params) { p.H = -1 }),
		Entry("NaN amplitude", func(p *potential.Params) { p.Amp = math.NaN() }),
		Entry("infinite pattern speed", func(p *potential.Params) { p.Omega = math.Inf(1) }),
		Entry("NaN harmonic", func(p *potential.Params) { p.Cs = []float64{1, math.NaN()} }),
	)

	It("panics from MustNew on invalid parameters", func() {
		p := potential.DefaultParams()
		p.N = 0
		Expect(func() { potential.MustNew(p) }).To(Panic())
	})
})

var _ = Describe("SpiralArms values", func() {
	var sp *potential.SpiralArms

	BeforeEach(func() {
		sp = potential.MustNew(potential.DefaultParams())
	})

	It("matches the reference values of the default model", func() {
		Expect(sp.Evaluate(1, 0, 0, 0)).To(BeNumerically("~", -0.009143658388465526, 1e-14))
		Expect(sp.RForce(1, 0, 0, 0)).To(BeNumerically("~", -0.0010740924539096716, 1e-14))
		Expect(sp.PhiForce(1, 0, 0.5, 0)).To(BeNumerically("~", -0.004383703347702924, 1e-14))
	})

	It("has no azimuthal force on the arm crest", func() {
		Expect(sp.PhiForce(1, 0, 0, 0)).To(BeZero())
	})

	It("repeats every 2 pi / n in azimuth for a pure harmonic n", func() {
		p := potential.DefaultParams()
		p.Cs = []float64{0, 1}
		second := potential.MustNew(p)
		Expect(second.Evaluate(1.3, 0.2, 0.4+math.Pi, 0)).To(
			BeNumerically("~", second.Evaluate(1.3, 0.2, 0.4, 0), 1e-15))
		Expect(second.Evaluate(1.3, 0.2, 0.4+math.Pi/2, 0)).To(
			BeNumerically("~", -second.Evaluate(1.3, 0.2, 0.4, 0), 1e-15))
	})

	It("decays with radius outside the reference radius", func() {
		Expect(math.Abs(sp.Evaluate(3, 0, 0, 0))).To(BeNumerically("<", math.Abs(sp.Evaluate(1, 0, 0, 0))))
	})

	It("stays finite far from the midplane", func() {
		for _, z := range []float64{50, 500, 5000} {
			Expect(math.IsNaN(sp.Evaluate(1, z, 0, 0))).To(BeFalse())
			Expect(math.IsNaN(sp.ZForce(1, z, 0, 0))).To(BeFalse())
			Expect(math.IsNaN(sp.Z2Deriv(1, z, 0, 0))).To(BeFalse())
		}
	})

	It("rotates the pattern at Omega", func() {
		p := potential.DefaultParams()
		p.Omega = 0.7
		rot := potential.MustNew(p)
		// gamma depends on phi + Omega*t
		Expect(rot.Evaluate(1.1, 0.1, 0.3, 2)).To(
			BeNumerically("~", rot.Evaluate(1.1, 0.1, 0.3+0.7*2, 0), 1e-15))
	})
})
