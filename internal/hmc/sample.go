// Package hmc implements the Hamiltonian Monte Carlo sampler family: a
// generic base composing a metric and a leapfrog integrator, the
// fixed-trajectory-length Static sampler, and the No-U-Turn Sampler.
// Grounded in the teacher's sim.Simulator transition/Run loop and
// dynamo.SimulationError error style, generalized from an ODE stepper to a
// Metropolis-corrected Hamiltonian trajectory sampler.
package hmc

import "github.com/MMesbahU/stan/internal/phase"

// Sample is one draw returned from a transition: the accepted position,
// its log-density, and the Metropolis acceptance statistic of the
// transition that produced it. Immutable once returned.
type Sample struct {
	Q          phase.Vec
	LogP       float64
	AcceptStat float64
}
