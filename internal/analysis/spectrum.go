package analysis

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

var ErrTooFewSamples = errors.New("analysis: too few samples")

// Spectrum is a one-sided power spectrum. Freqs are in cycles per unit time.
type Spectrum struct {
	Freqs []float64
	Power []float64
}

// PowerSpectrum returns the Hann-windowed power spectrum of samples taken at
// a fixed interval dt. The mean is removed first so the DC bin only carries
// window leakage.
func PowerSpectrum(samples []float64, dt float64) (Spectrum, error) {
	n := len(samples)
	if n < 4 {
		return Spectrum{}, ErrTooFewSamples
	}
	if dt <= 0 {
		return Spectrum{}, errors.New("analysis: dt must be positive")
	}

	mean := 0.0
	for _, v := range samples {
		mean += v
	}
	mean /= float64(n)

	windowed := make([]float64, n)
	for i, v := range samples {
		w := 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n-1))
		windowed[i] = (v - mean) * w
	}

	coeffs := fft.FFTReal(windowed)
	half := n/2 + 1
	spec := Spectrum{
		Freqs: make([]float64, half),
		Power: make([]float64, half),
	}
	for k := 0; k < half; k++ {
		spec.Freqs[k] = float64(k) / (float64(n) * dt)
		a := cmplx.Abs(coeffs[k])
		spec.Power[k] = a * a
	}
	return spec, nil
}

// Peak returns the frequency of the strongest non-DC bin, refined by a
// parabola through the neighbouring bins.
func (s Spectrum) Peak() float64 {
	if len(s.Power) < 3 {
		return 0
	}
	k := 1
	for i := 2; i < len(s.Power); i++ {
		if s.Power[i] > s.Power[k] {
			k = i
		}
	}
	df := s.Freqs[1] - s.Freqs[0]
	if k == len(s.Power)-1 {
		return s.Freqs[k]
	}
	a, b, c := s.Power[k-1], s.Power[k], s.Power[k+1]
	denom := a - 2*b + c
	if denom == 0 {
		return s.Freqs[k]
	}
	return s.Freqs[k] + 0.5*(a-c)/denom*df
}

// DominantFrequency is PowerSpectrum followed by Peak.
func DominantFrequency(samples []float64, dt float64) (float64, error) {
	spec, err := PowerSpectrum(samples, dt)
	if err != nil {
		return 0, err
	}
	return spec.Peak(), nil
}

// Resample linearly interpolates values recorded at increasing times onto a
// uniform grid with spacing dt starting at times[0]. Adaptive runs need this
// before their output can go through PowerSpectrum.
func Resample(times, values []float64, dt float64) ([]float64, error) {
	if len(times) != len(values) {
		return nil, errors.New("analysis: times and values differ in length")
	}
	if len(times) < 2 {
		return nil, ErrTooFewSamples
	}
	if dt <= 0 {
		return nil, errors.New("analysis: dt must be positive")
	}

	t0, t1 := times[0], times[len(times)-1]
	n := int(math.Floor((t1-t0)/dt+1e-9)) + 1
	out := make([]float64, n)
	j := 0
	for i := range out {
		t := t0 + float64(i)*dt
		for j < len(times)-2 && times[j+1] < t {
			j++
		}
		span := times[j+1] - times[j]
		if span <= 0 {
			out[i] = values[j]
			continue
		}
		f := (t - times[j]) / span
		out[i] = values[j] + f*(values[j+1]-values[j])
	}
	return out, nil
}
