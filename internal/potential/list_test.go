package potential_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/spiralarms/internal/potential"
)

var _ = Describe("List", func() {
	var (
		sp   *potential.SpiralArms
		halo *potential.LogarithmicHalo
		disk *potential.MiyamotoNagai
	)

	BeforeEach(func() {
		p := potential.DefaultParams()
		p.Omega = 0.4
		sp = potential.MustNew(p)

		var err error
		halo, err = potential.NewLogarithmicHalo(1, 0.1, 0.9)
		Expect(err).NotTo(HaveOccurred())
		disk, err = potential.NewMiyamotoNagai(0.6, 0.5, 0.1)
		Expect(err).NotTo(HaveOccurred())
	})

	It("sums its components", func() {
		l := potential.List{sp, halo, disk}
		R, z, phi, t := 1.3, 0.2, 0.5, 1.0
		Expect(l.Evaluate(R, z, phi, t)).To(BeNumerically("~",
			sp.Evaluate(R, z, phi, t)+halo.Evaluate(R, z, phi, t)+disk.Evaluate(R, z, phi, t), 1e-15))
		Expect(l.RForce(R, z, phi, t)).To(BeNumerically("~",
			sp.RForce(R, z, phi, t)+halo.RForce(R, z, phi, t)+disk.RForce(R, z, phi, t), 1e-15))
		Expect(l.ZForce(R, z, phi, t)).To(BeNumerically("~",
			sp.ZForce(R, z, phi, t)+halo.ZForce(R, z, phi, t)+disk.ZForce(R, z, phi, t), 1e-15))
		Expect(l.PhiForce(R, z, phi, t)).To(Equal(sp.PhiForce(R, z, phi, t)))
	})

	It("is non-axisymmetric only with a spiral component", func() {
		Expect(potential.List{halo, disk}.NonAxi()).To(BeFalse())
		Expect(potential.List{halo, sp}.NonAxi()).To(BeTrue())
		Expect(potential.List{}.NonAxi()).To(BeFalse())
	})

	It("finds the pattern speed through nested lists", func() {
		w, ok := potential.PatternSpeed(potential.List{halo, potential.List{disk, sp}})
		Expect(ok).To(BeTrue())
		Expect(w).To(Equal(0.4))

		_, ok = potential.PatternSpeed(potential.List{halo, disk})
		Expect(ok).To(BeFalse())
	})

	It("is the zero potential when empty", func() {
		var l potential.List
		Expect(l.Evaluate(1, 0, 0, 0)).To(BeZero())
		Expect(l.RForce(1, 0, 0, 0)).To(BeZero())
	})
})

var _ = Describe("Axisymmetric components", func() {
	components := map[string]func() (potential.Potential, error){
		"logarithmic halo": func() (potential.Potential, error) { return potential.NewLogarithmicHalo(1, 0.2, 0.8) },
		"Miyamoto-Nagai":   func() (potential.Potential, error) { return potential.NewMiyamotoNagai(1, 0.65, 0.26) },
	}

	for name, build := range components {
		build := build
		It("has forces equal to minus the gradient for the "+name, func() {
			p, err := build()
			Expect(err).NotTo(HaveOccurred())
			Expect(p.NonAxi()).To(BeFalse())
			for _, pt := range samplePoints {
				phi := p.Evaluate(pt.R, pt.z, pt.phi, pt.t)
				dR := slope(func(x float64) float64 { return p.Evaluate(x, pt.z, 0, 0) }, pt.R)
				dz := slope(func(x float64) float64 { return p.Evaluate(pt.R, x, 0, 0) }, pt.z)
				Expect(p.RForce(pt.R, pt.z, pt.phi, pt.t)).To(closeTo(-dR, fdRtol, phi))
				Expect(p.ZForce(pt.R, pt.z, pt.phi, pt.t)).To(closeTo(-dz, fdRtol, phi))
				Expect(p.PhiForce(pt.R, pt.z, pt.phi, pt.t)).To(BeZero())
			}
		})
	}

	It("gives the halo a flat rotation curve far out", func() {
		halo, _ := potential.NewLogarithmicHalo(1, 0.1, 1)
		R := 50.0
		vc := math.Sqrt(-R * halo.RForce(R, 0, 0, 0))
		Expect(vc).To(BeNumerically("~", 1, 1e-5))
	})

	It("validates the shape parameters", func() {
		_, err := potential.NewLogarithmicHalo(1, 0, 0)
		Expect(errors.Is(err, potential.ErrInvalidParams)).To(BeTrue())
		_, err = potential.NewLogarithmicHalo(1, -1, 1)
		Expect(errors.Is(err, potential.ErrInvalidParams)).To(BeTrue())
		_, err = potential.NewMiyamotoNagai(1, -0.1, 0.3)
		Expect(errors.Is(err, potential.ErrInvalidParams)).To(BeTrue())
		_, err = potential.NewMiyamotoNagai(1, 0.5, 0)
		Expect(errors.Is(err, potential.ErrInvalidParams)).To(BeTrue())
	})
})
