package hmc

import (
	"github.com/MMesbahU/stan/internal/integrator"
	"github.com/MMesbahU/stan/internal/model"
	"github.com/MMesbahU/stan/internal/phase"
	"github.com/MMesbahU/stan/internal/rng"
)

// base is the generic composition spec.md §9 calls for: any metric plus
// the leapfrog integrator, with the nominal/current step size and the RNG
// handle that both Static and NUTS build on.
type base struct {
	model  model.LogDensityModel
	metric phase.Metric
	integ  integrator.Leapfrog
	src    rng.Source

	z          *phase.Point
	nomEpsilon float64
	epsilon    float64
}

func newBase(m model.LogDensityModel, metric phase.Metric, src rng.Source) *base {
	return &base{
		model:      m,
		metric:     metric,
		src:        src,
		z:          phase.NewPoint(m.NumParamsR()),
		nomEpsilon: 1.0,
		epsilon:    1.0,
	}
}

// SetNominalStepsize sets the step size used for leapfrog steps. No
// jitter is applied by this base; wrapper samplers that jitter step size
// may override epsilon directly before a transition.
func (b *base) SetNominalStepsize(eps float64) error {
	if eps <= 0 {
		return &ConfigError{Op: "SetNominalStepsize", Message: "step size must be positive"}
	}
	b.nomEpsilon = eps
	b.epsilon = eps
	return nil
}

func (b *base) seed(q phase.Vec) {
	copy(b.z.Q, q)
}
