package potential_test

import (
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/spiralarms/internal/potential"
)

const fdRtol = 1e-4

var _ = Describe("SpiralArms derivatives", func() {
	for _, cfg := range configs() {
		cfg := cfg
		Context(cfg.name, func() {
			var sp *potential.SpiralArms

			BeforeEach(func() {
				sp = potential.MustNew(cfg.params)
			})

			for _, p := range samplePoints {
				p := p
				at := fmt.Sprintf("at R=%g z=%g phi=%.3g t=%g", p.R, p.z, p.phi, p.t)

				It("has forces equal to minus the potential gradient "+at, func() {
					phi := sp.Evaluate(p.R, p.z, p.phi, p.t)

					dR := slope(func(x float64) float64 { return sp.Evaluate(x, p.z, p.phi, p.t) }, p.R)
					dz := slope(func(x float64) float64 { return sp.Evaluate(p.R, x, p.phi, p.t) }, p.z)
					dphi := slope(func(x float64) float64 { return sp.Evaluate(p.R, p.z, x, p.t) }, p.phi)

					Expect(sp.RForce(p.R, p.z, p.phi, p.t)).To(closeTo(-dR, fdRtol, phi))
					Expect(sp.ZForce(p.R, p.z, p.phi, p.t)).To(closeTo(-dz, fdRtol, phi))
					Expect(sp.PhiForce(p.R, p.z, p.phi, p.t)).To(closeTo(-dphi, fdRtol, phi))
				})

				It("has second derivatives consistent with the forces "+at, func() {
					fR := sp.RForce(p.R, p.z, p.phi, p.t)
					fz := sp.ZForce(p.R, p.z, p.phi, p.t)
					fphi := sp.PhiForce(p.R, p.z, p.phi, p.t)

					rforce := func(R, z, phi float64) float64 { return sp.RForce(R, z, phi, p.t) }
					phiforce := func(R, z, phi float64) float64 { return sp.PhiForce(R, z, phi, p.t) }

					Expect(sp.R2Deriv(p.R, p.z, p.phi, p.t)).To(closeTo(
						-slope(func(x float64) float64 { return rforce(x, p.z, p.phi) }, p.R), fdRtol, fR))
					Expect(sp.Z2Deriv(p.R, p.z, p.phi, p.t)).To(closeTo(
						-slope(func(x float64) float64 { return sp.ZForce(p.R, x, p.phi, p.t) }, p.z), fdRtol, fz))
					Expect(sp.Phi2Deriv(p.R, p.z, p.phi, p.t)).To(closeTo(
						-slope(func(x float64) float64 { return phiforce(p.R, p.z, x) }, p.phi), fdRtol, fphi))
					Expect(sp.RZDeriv(p.R, p.z, p.phi, p.t)).To(closeTo(
						-slope(func(x float64) float64 { return rforce(p.R, x, p.phi) }, p.z), fdRtol, fR))
					Expect(sp.RPhiDeriv(p.R, p.z, p.phi, p.t)).To(closeTo(
						-slope(func(x float64) float64 { return rforce(p.R, p.z, x) }, p.phi), fdRtol, fR))
					Expect(sp.PhiZDeriv(p.R, p.z, p.phi, p.t)).To(closeTo(
						-slope(func(x float64) float64 { return phiforce(p.R, x, p.phi) }, p.z), fdRtol, fphi))
				})
			}

			It("has no vertical force in the midplane", func() {
				for _, p := range samplePoints {
					Expect(sp.ZForce(p.R, 0, p.phi, p.t)).To(BeZero())
				}
			})

			It("is symmetric about the midplane", func() {
				for _, p := range samplePoints {
					Expect(sp.Evaluate(p.R, -p.z, p.phi, p.t)).To(Equal(sp.Evaluate(p.R, p.z, p.phi, p.t)))
					Expect(sp.ZForce(p.R, -p.z, p.phi, p.t)).To(Equal(-sp.ZForce(p.R, p.z, p.phi, p.t)))
				}
			})
		})
	}
})
