// Package analysis post-processes orbits.
//
//   - [PowerSpectrum] and [DominantFrequency]: orbital frequencies from
//     uniformly sampled series, with [Resample] for adaptive runs
//   - [LyapunovExponent]: largest exponent from a renormalised companion orbit
//   - [SurfaceOfSection] and [Portrait]: projections of recorded trajectories,
//     printable with [ScatterASCII]
//
// A radial period from a finished run:
//
//	R := make([]float64, len(res.States))
//	for i, x := range res.States {
//	    R[i] = math.Hypot(x[0], x[1])
//	}
//	u, _ := analysis.Resample(res.Times, R, 0.05)
//	f, _ := analysis.DominantFrequency(u, 0.05)
//	period := 1 / f
package analysis
