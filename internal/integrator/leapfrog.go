// Package integrator implements the explicit leapfrog integrator used by
// every sampler in this module, adapted from the teacher's
// integrators.Leapfrog (itself a velocity-Verlet half-kick/drift/half-kick
// scheme) but driven by a phase.Metric/model.LogDensityModel pair instead
// of a dynamo.System ODE right-hand side.
package integrator

import (
	"errors"

	"github.com/MMesbahU/stan/internal/model"
	"github.com/MMesbahU/stan/internal/phase"
)

// ErrNonFinite is returned when a leapfrog step produces a non-finite
// gradient or potential. Callers treat this as H = +Inf, i.e. rejection.
var ErrNonFinite = errors.New("integrator: non-finite state after step")

// Leapfrog advances a phase.Point by one step of signed size eps:
//
//  1. p -= (eps/2) dV/dq   (half kick, using the cached gradient)
//  2. q += eps dT/dp       (drift)
//  3. recompute V, dV/dq at the new q
//  4. p -= (eps/2) dV/dq   (half kick)
//
// Reversible and symplectic: Step(m, mdl, pt, -eps) undoes
// Step(m, mdl, pt, eps) to within floating-point error.
type Leapfrog struct{}

func (Leapfrog) Step(metric phase.Metric, mdl model.LogDensityModel, pt *phase.Point, eps float64) error {
	half := eps / 2

	for i := range pt.P {
		pt.P[i] -= half * pt.G[i]
	}

	dtdp := metric.DtauDp(pt)
	for i := range pt.Q {
		pt.Q[i] += eps * dtdp[i]
	}

	if err := metric.Init(pt, mdl); err != nil {
		return ErrNonFinite
	}
	if !pt.IsValid() {
		return ErrNonFinite
	}

	for i := range pt.P {
		pt.P[i] -= half * pt.G[i]
	}

	return nil
}
