// Package advi implements Automatic Differentiation Variational Inference:
// fitting a variational family to a target log-density by stochastic
// gradient ascent on the Evidence Lower Bound. Grounded on
// original_source's stan/variational/advi.hpp, generalized here to any
// model.LogDensityModel rather than a single compiled Stan model, and
// adapted to this module's rng.Source instead of a Boost RNG.
package advi

import (
	"github.com/MMesbahU/stan/internal/model"
	"github.com/MMesbahU/stan/internal/rng"
)

// Family is a variational distribution Q over the continuous parameter
// space, together with the elementwise vector-space operations the
// adaptive stochastic gradient update needs to treat Q, its gradient,
// and its running preconditioner as points in the same parameter space.
// MeanField and FullRank are the two implementations.
type Family interface {
	// Dimension is the number of model parameters n (not the number of
	// variational parameters, which is larger for FullRank).
	Dimension() int
	// Sample draws one zeta ~ Q using src for the underlying standard
	// normal draws.
	Sample(src rng.Source) []float64
	// Entropy returns the differential entropy of Q.
	Entropy() float64
	// Mean returns the mean of Q (the point estimate reported by Run).
	Mean() []float64
	// CalcGrad draws nMC samples and returns the Monte Carlo gradient of
	// the ELBO with respect to Q's own parameters, shaped like Q.
	CalcGrad(mdl model.LogDensityModel, nMC int, src rng.Source) (Family, error)

	// Clone returns a deep, independent copy.
	Clone() Family
	// ZeroLike returns a new, independently-owned Family of the same
	// shape with every variational parameter set to zero.
	ZeroLike() Family
	// Square returns a new Family with every variational parameter
	// squared.
	Square() Family
	// Sqrt returns a new Family with every variational parameter's
	// square root.
	Sqrt() Family
	// AddElem returns q + other, elementwise over variational
	// parameters. Panics if other is not the same concrete type.
	AddElem(other Family) Family
	// Scale returns q scaled by c, elementwise.
	Scale(c float64) Family
	// DivElem returns q / other, elementwise. Panics if other is not the
	// same concrete type.
	DivElem(other Family) Family
	// AddConst returns q with c added to every variational parameter.
	AddConst(c float64) Family
}
