package potential_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/spiralarms/internal/potential"
)

var _ = Describe("SpiralArms density", func() {
	densityPoints := []point{
		{0.3, 0, 0, 0},
		{1, -0.7, math.Pi / 2, 0},
		{3.7, 0.3, math.Pi / 3, -1},
		{33, 0.777, 4, 5},
		{0.1, 0.9, math.Pi, 10},
		{7, -0.35, 6, 0},
		{1, 1, 1, 1},
	}

	for _, cfg := range configs() {
		cfg := cfg
		It("agrees with the Laplacian of the potential for "+cfg.name, func() {
			sp := potential.MustNew(cfg.params)
			for _, p := range densityPoints {
				want := sp.Dens(p.R, p.z, p.phi, p.t, true)
				got := sp.Dens(p.R, p.z, p.phi, p.t, false)
				Expect(got).To(BeNumerically("~", want, poissonRtol*math.Abs(want)),
					"R=%g z=%g phi=%g t=%g", p.R, p.z, p.phi, p.t)
			}
		})
	}

	for _, cfg := range configs() {
		cfg := cfg
		It("matches a numerical Laplacian of the potential for "+cfg.name, func() {
			sp := potential.MustNew(cfg.params)
			for _, p := range densityPoints {
				got := sp.Dens(p.R, p.z, p.phi, p.t, false)
				Expect(got).To(BeNumerically("~", numericalDens(sp, p), laplacianRtol*math.Abs(got)+1e-300),
					"R=%g z=%g phi=%g t=%g", p.R, p.z, p.phi, p.t)
			}
		})
	}

	It("is positive on the arm for the default model", func() {
		sp := potential.MustNew(potential.DefaultParams())
		Expect(sp.Dens(1, 0, 0, 0, false)).To(BeNumerically("~", 0.03357006297299741, 1e-12))
	})

	It("is unchanged by a full pattern rotation", func() {
		p := potential.DefaultParams()
		p.Omega = 0.5
		sp := potential.MustNew(p)
		period := 2 * math.Pi / p.Omega
		Expect(sp.Dens(1.2, 0.1, 0.4, period, false)).To(
			BeNumerically("~", sp.Dens(1.2, 0.1, 0.4, 0, false), 1e-12))
	})
})
