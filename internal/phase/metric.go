package phase

import (
	"math"

	"github.com/MMesbahU/stan/internal/model"
	"github.com/MMesbahU/stan/internal/rng"
)

// Metric is the mass-metric contract a Hamiltonian is built from: momentum
// resampling, kinetic energy and its derivatives, and the composite
// Hamiltonian H = T + V. dtau_dq is zero for every Euclidean variant this
// package implements (Unit, Diag, Dense).
type Metric interface {
	// SampleP draws a fresh momentum into pt.P according to the metric's
	// kinetic distribution.
	SampleP(pt *Point, src rng.Source)
	// T returns the kinetic energy at pt.P.
	T(pt *Point) float64
	// DtauDp returns dT/dp.
	DtauDp(pt *Point) Vec
	// DtauDq returns dT/dq (zero for Unit, Diag and Dense).
	DtauDq(pt *Point) Vec
	// Init evaluates and caches V and G at pt.Q from the model.
	Init(pt *Point, m model.LogDensityModel) error
	// V returns the cached potential energy.
	V(pt *Point) float64
	// H returns the total Hamiltonian T(p) + V(q).
	H(pt *Point) float64
}

// initPotential is shared by every metric variant's Init: on a domain
// error from the model, the point's V is marked +Inf so H reads as
// non-finite and the caller treats the step as a rejection.
func initPotential(pt *Point, m model.LogDensityModel) error {
	if err := pt.InitPotential(m); err != nil {
		pt.V = math.Inf(1)
		for i := range pt.G {
			pt.G[i] = 0
		}
		return err
	}
	return nil
}
