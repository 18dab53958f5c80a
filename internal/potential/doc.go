// Package potential provides galactic gravitational potentials for orbit
// integration.
//
// The centrepiece is [SpiralArms], the Cox & Gómez (2002) density-wave model
// of a multi-harmonic logarithmic spiral:
//
//	Phi(R, z, phi, t) = -4 pi G H rho0 exp(-(R - r_ref)/Rs)
//	    * sum_n Cs_n / (K_n D_n) cos(gamma_n) sech(K_n z / D_n)^D_n
//
// Every first and second partial derivative is available in closed form, and
// [SpiralArms.Dens] computes the density either in closed form or from the
// Laplacian of the potential.
//
// Coordinates are cylindrical (R, z, phi) plus time t. R = 0 is outside the
// domain of the model; radii down to about 1e-6 are numerically stable.
//
// # Composing potentials
//
// [Potential] is the interface an orbit integrator needs. [List] sums
// components, so a spiral perturbation can ride on axisymmetric ones:
//
//	sp, _ := potential.New(potential.DefaultParams())
//	halo, _ := potential.NewLogarithmicHalo(1, 0.1, 0.9)
//	pot := potential.List{sp, halo}
//
// # Dynamic evaluation
//
// Callers holding untyped values (command line, config files) go through
// [SpiralArms.Call], which accepts (R, z[, phi[, t]]) and rejects anything
// that is not a scalar number with an [*InputError].
package potential
