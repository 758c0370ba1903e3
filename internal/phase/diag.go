package phase

import (
	"math"

	"github.com/MMesbahU/stan/internal/model"
	"github.com/MMesbahU/stan/internal/rng"
)

// DiagMetric carries a diagonal inverse mass matrix MInv (m^-1 in spec.md's
// notation). Momentum is sampled p_i ~ N(0, 1/MInv_i): draw a standard
// normal and scale by 1/sqrt(MInv_i), so that E[p p^T] = diag(MInv)^-1.
type DiagMetric struct {
	MInv []float64
}

// NewDiagMetric validates that every entry of mInv is strictly positive, as
// spec.md's metric invariants require.
func NewDiagMetric(mInv []float64) (*DiagMetric, error) {
	for _, v := range mInv {
		if v <= 0 {
			return nil, &model.DomainError{Op: "NewDiagMetric", Message: "inverse mass diagonal must be positive"}
		}
	}
	return &DiagMetric{MInv: mInv}, nil
}

func (d *DiagMetric) SampleP(pt *Point, src rng.Source) {
	for i := range pt.P {
		pt.P[i] = src.Normal() / math.Sqrt(d.MInv[i])
	}
}

func (d *DiagMetric) T(pt *Point) float64 {
	sum := 0.0
	for i, p := range pt.P {
		sum += d.MInv[i] * p * p
	}
	return 0.5 * sum
}

func (d *DiagMetric) DtauDp(pt *Point) Vec {
	out := make(Vec, len(pt.P))
	for i, p := range pt.P {
		out[i] = d.MInv[i] * p
	}
	return out
}

func (d *DiagMetric) DtauDq(pt *Point) Vec {
	return make(Vec, len(pt.Q))
}

func (d *DiagMetric) Init(pt *Point, m model.LogDensityModel) error {
	return initPotential(pt, m)
}

func (d *DiagMetric) V(pt *Point) float64 { return pt.V }

func (d *DiagMetric) H(pt *Point) float64 {
	return d.T(pt) + pt.V
}
