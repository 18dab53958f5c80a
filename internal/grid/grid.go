// Package grid samples potential fields on a square Cartesian grid in a
// plane of constant z.
package grid

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/spiralarms/internal/dynamo"
	"github.com/san-kum/spiralarms/internal/potential"
)

var ErrInvalidSpec = errors.New("grid: invalid spec")

// Spec is an n x n grid spanning [-Extent, Extent] in x and y.
type Spec struct {
	Size   int
	Extent float64
	Z      float64
}

func (s Spec) Validate() error {
	if s.Size < 2 {
		return fmt.Errorf("%w: size must be at least 2, got %d", ErrInvalidSpec, s.Size)
	}
	if !(s.Extent > 0) {
		return fmt.Errorf("%w: extent must be positive, got %v", ErrInvalidSpec, s.Extent)
	}
	return nil
}

// Coord returns the i-th grid coordinate along either axis.
func (s Spec) Coord(i int) float64 {
	return -s.Extent + 2*s.Extent*float64(i)/float64(s.Size-1)
}

// Field holds sampled values in row-major order, row r at y = Y(r).
// It implements gonum plot's plotter.GridXYZ.
type Field struct {
	Spec   Spec
	T      float64
	Values []float64
}

func (f *Field) Dims() (c, r int)   { return f.Spec.Size, f.Spec.Size }
func (f *Field) Z(c, r int) float64 { return f.Values[r*f.Spec.Size+c] }
func (f *Field) X(c int) float64    { return f.Spec.Coord(c) }
func (f *Field) Y(r int) float64    { return f.Spec.Coord(r) }

// Finite returns the finite samples. The origin of an odd-sized grid sits at
// R = 0, where most fields are undefined.
func (f *Field) Finite() []float64 {
	out := make([]float64, 0, len(f.Values))
	for _, v := range f.Values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

// Stats summarises the finite samples.
type Stats struct {
	Min, Max, Mean float64
	Count          int
}

func (f *Field) Stats() Stats {
	vals := f.Finite()
	if len(vals) == 0 {
		return Stats{Min: math.NaN(), Max: math.NaN(), Mean: math.NaN()}
	}
	return Stats{
		Min:   floats.Min(vals),
		Max:   floats.Max(vals),
		Mean:  floats.Sum(vals) / float64(len(vals)),
		Count: len(vals),
	}
}

// Sample evaluates fn at every grid node at time t, converting (x, y) to
// (R, phi). Rows are computed concurrently.
func Sample(fn potential.Field, spec Spec, t float64) (*Field, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	n := spec.Size
	f := &Field{Spec: spec, T: t, Values: make([]float64, n*n)}

	coords := make([]float64, n)
	for i := range coords {
		coords[i] = spec.Coord(i)
	}

	dynamo.ParallelFor(n, 4, func(start, end int) {
		for r := start; r < end; r++ {
			y := coords[r]
			for c, x := range coords {
				R := math.Hypot(x, y)
				phi := math.Atan2(y, x)
				f.Values[r*n+c] = fn(R, spec.Z, phi, t)
			}
		}
	})
	return f, nil
}

// Frames samples fn once per time in ts.
func Frames(fn potential.Field, spec Spec, ts []float64) ([]*Field, error) {
	out := make([]*Field, len(ts))
	for i, t := range ts {
		f, err := Sample(fn, spec, t)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}
