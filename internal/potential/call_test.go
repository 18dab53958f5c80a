package potential_test

import (
	"errors"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/spiralarms/internal/potential"
)

var _ = Describe("Call", func() {
	var sp *potential.SpiralArms

	BeforeEach(func() {
		sp = potential.MustNew(potential.DefaultParams())
	})

	It("evaluates every accessor on scalar arguments", func() {
		fields := sp.Fields()
		Expect(fields).To(HaveLen(len(potential.Accessors())))
		for _, acc := range potential.Accessors() {
			got, err := sp.Call(acc, 1.2, 0.1, 0.3, 0.5)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(fields[acc](1.2, 0.1, 0.3, 0.5)), string(acc))
		}
	})

	It("looks accessors up without allocating", func() {
		var f potential.Field
		allocs := testing.AllocsPerRun(100, func() {
			f, _ = sp.Field(potential.AccRForce)
		})
		Expect(allocs).To(BeZero())
		Expect(f(1.2, 0.1, 0.3, 0.5)).To(Equal(sp.RForce(1.2, 0.1, 0.3, 0.5)))

		_, ok := sp.Field("torque")
		Expect(ok).To(BeFalse())
	})

	It("hands out a copy of the accessor table", func() {
		fields := sp.Fields()
		delete(fields, potential.AccRForce)
		fields[potential.AccPotential] = func(_, _, _, _ float64) float64 { return 42 }

		got, err := sp.Call(potential.AccPotential, 1, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal(sp.Evaluate(1, 0, 0, 0)))
		Expect(sp.Fields()).To(HaveLen(len(potential.Accessors())))
	})

	It("defaults phi and t to zero", func() {
		got, err := sp.Call(potential.AccRForce, 1, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal(sp.RForce(1, 0, 0, 0)))
	})

	It("accepts integer coordinates", func() {
		got, err := sp.Call(potential.AccPotential, 1, int64(0), uint8(0), float32(0))
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal(sp.Evaluate(1, 0, 0, 0)))
	})

	It("rejects an unknown accessor", func() {
		_, err := sp.Call("torque", 1, 0)
		Expect(errors.Is(err, potential.ErrUnknownAccessor)).To(BeTrue())
	})

	It("rejects too few or too many arguments", func() {
		_, err := sp.Call(potential.AccPotential, 1)
		Expect(errors.Is(err, potential.ErrInvalidInput)).To(BeTrue())
		_, err = sp.Call(potential.AccPotential, 1, 2, 3, 4, 5)
		Expect(errors.Is(err, potential.ErrInvalidInput)).To(BeTrue())
	})

	sequences := map[string]any{
		"slice":  []float64{1, 2},
		"array":  [2]float64{1, 2},
		"ints":   []int{1},
		"map":    map[string]float64{"R": 1},
		"string": "1",
		"nil":    nil,
	}

	for _, acc := range potential.Accessors() {
		acc := acc
		It("rejects non-scalar arguments to "+string(acc), func() {
			for label, bad := range sequences {
				for pos := 0; pos < 4; pos++ {
					args := []any{1.0, 0.1, 0.2, 0.3}
					args[pos] = bad
					_, err := sp.Call(acc, args...)
					Expect(errors.Is(err, potential.ErrInvalidInput)).To(BeTrue(), "%s at %d", label, pos)

					var inErr *potential.InputError
					Expect(errors.As(err, &inErr)).To(BeTrue())
					Expect(inErr.Accessor).To(Equal(acc))
					Expect(inErr.Arg).To(Equal([]string{"R", "z", "phi", "t"}[pos]))
				}
			}
		})
	}

	It("rejects sequences in several positions at once", func() {
		_, err := sp.Call(potential.AccDens, []float64{1, 2}, []float64{0, 0}, 0.1)
		var inErr *potential.InputError
		Expect(errors.As(err, &inErr)).To(BeTrue())
		Expect(inErr.Arg).To(Equal("R"))
		Expect(err.Error()).To(ContainSubstring("sequence of length 2"))
	})

	It("parses coordinates independently of the potential", func() {
		c, err := potential.ParseCoords(potential.AccZForce, 2, 0.5, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(c).To(Equal(potential.Coords{R: 2, Z: 0.5, Phi: 1}))
	})
})
