package phase

import (
	"github.com/MMesbahU/stan/internal/model"
	"github.com/MMesbahU/stan/internal/rng"
)

// UnitMetric is the implicit-identity Euclidean metric: p ~ N(0, I),
// T(p) = 0.5 p^T p.
type UnitMetric struct{}

func (UnitMetric) SampleP(pt *Point, src rng.Source) {
	for i := range pt.P {
		pt.P[i] = src.Normal()
	}
}

func (UnitMetric) T(pt *Point) float64 {
	return 0.5 * pt.P.Dot(pt.P)
}

func (UnitMetric) DtauDp(pt *Point) Vec {
	return pt.P.Clone()
}

func (UnitMetric) DtauDq(pt *Point) Vec {
	return make(Vec, len(pt.Q))
}

func (UnitMetric) Init(pt *Point, m model.LogDensityModel) error {
	return initPotential(pt, m)
}

func (UnitMetric) V(pt *Point) float64 { return pt.V }

func (u UnitMetric) H(pt *Point) float64 {
	return u.T(pt) + pt.V
}
