// Package orbit integrates test-particle orbits in a galactic potential.
//
// States are Cartesian [x, y, z, vx, vy, vz] so the symplectic integrators
// can split positions from velocities. Initial conditions are usually given
// in cylindrical form [R, vR, vT, z, vz, phi]; see FromCylindrical.
package orbit

import (
	"math"

	"github.com/san-kum/spiralarms/internal/dynamo"
	"github.com/san-kum/spiralarms/internal/potential"
)

const Dim = 6

// Orbit is the equation of motion of a massless particle in pot.
type Orbit struct {
	pot        potential.Potential
	frameOmega float64
}

// New builds the orbit system for pot. If pot carries a rotating pattern the
// Jacobi integral is taken in the frame where the pattern is static.
func New(pot potential.Potential) *Orbit {
	o := &Orbit{pot: pot}
	if w, ok := potential.PatternSpeed(pot); ok {
		// gamma depends on phi + Omega*t, so the pattern turns at -Omega.
		o.frameOmega = -w
	}
	return o
}

func (o *Orbit) Potential() potential.Potential { return o.pot }

// FrameOmega is the angular velocity of the frame used by Jacobi.
func (o *Orbit) FrameOmega() float64 { return o.frameOmega }

func (o *Orbit) Dim() int { return Dim }

func (o *Orbit) Derive(x dynamo.State, t float64) dynamo.State {
	R := math.Hypot(x[0], x[1])
	phi := math.Atan2(x[1], x[0])
	z := x[2]

	fR := o.pot.RForce(R, z, phi, t)
	fz := o.pot.ZForce(R, z, phi, t)
	fphi := 0.0
	if o.pot.NonAxi() {
		fphi = o.pot.PhiForce(R, z, phi, t) / R
	}

	c, s := x[0]/R, x[1]/R
	return dynamo.State{
		x[3], x[4], x[5],
		c*fR - s*fphi,
		s*fR + c*fphi,
		fz,
	}
}

// Energy is the specific energy in the inertial frame.
func (o *Orbit) Energy(x dynamo.State, t float64) float64 {
	R := math.Hypot(x[0], x[1])
	phi := math.Atan2(x[1], x[0])
	v2 := x[3]*x[3] + x[4]*x[4] + x[5]*x[5]
	return 0.5*v2 + o.pot.Evaluate(R, x[2], phi, t)
}

// Lz is the z component of the specific angular momentum.
func Lz(x dynamo.State) float64 {
	return x[0]*x[4] - x[1]*x[3]
}

// Jacobi is E - Omega_f * Lz, conserved in a rigidly rotating potential.
func (o *Orbit) Jacobi(x dynamo.State, t float64) float64 {
	return o.Energy(x, t) - o.frameOmega*Lz(x)
}

// Conserved reports the Jacobi integral for drift tracking.
func (o *Orbit) Conserved(x dynamo.State, t float64) float64 {
	return o.Jacobi(x, t)
}

// Corotating returns the in-plane position of x in the frame turning at
// FrameOmega.
func (o *Orbit) Corotating(x dynamo.State, t float64) (float64, float64) {
	s, c := math.Sincos(-o.frameOmega * t)
	return x[0]*c - x[1]*s, x[0]*s + x[1]*c
}

// FromCylindrical converts [R, vR, vT, z, vz, phi] to a Cartesian state.
func FromCylindrical(vxvv [6]float64) dynamo.State {
	R, vR, vT, z, vz, phi := vxvv[0], vxvv[1], vxvv[2], vxvv[3], vxvv[4], vxvv[5]
	s, c := math.Sincos(phi)
	return dynamo.State{
		R * c, R * s, z,
		vR*c - vT*s, vR*s + vT*c, vz,
	}
}

// ToCylindrical is the inverse of FromCylindrical, with phi in (-pi, pi].
func ToCylindrical(x dynamo.State) [6]float64 {
	R := math.Hypot(x[0], x[1])
	phi := math.Atan2(x[1], x[0])
	s, c := math.Sincos(phi)
	return [6]float64{
		R,
		x[3]*c + x[4]*s,
		-x[3]*s + x[4]*c,
		x[2],
		x[5],
		phi,
	}
}
