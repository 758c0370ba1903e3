package phase

import (
	"github.com/MMesbahU/stan/internal/model"
	"github.com/MMesbahU/stan/internal/rng"
	"gonum.org/v1/gonum/mat"
)

// DenseMetric carries a symmetric positive-definite inverse mass matrix
// MInv. Momentum is sampled by drawing eps ~ N(0, I) and solving
// p = chol(MInv)^-T eps, so that E[p p^T] = MInv^-1, per spec.md's dense
// sampling recipe.
type DenseMetric struct {
	MInv *mat.SymDense
	chol mat.Cholesky
}

// NewDenseMetric factors MInv once up front; a non positive-definite
// matrix is a configuration error.
func NewDenseMetric(mInv *mat.SymDense) (*DenseMetric, error) {
	d := &DenseMetric{MInv: mInv}
	if ok := d.chol.Factorize(mInv); !ok {
		return nil, &model.DomainError{Op: "NewDenseMetric", Message: "inverse mass matrix is not positive-definite"}
	}
	return d, nil
}

func (d *DenseMetric) SampleP(pt *Point, src rng.Source) {
	n := len(pt.P)
	eps := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		eps.SetVec(i, src.Normal())
	}

	var u mat.TriDense
	d.chol.UTo(&u)

	// p = U^-1 eps solves U p = eps. Under gonum's upper-triangular
	// Cholesky convention MInv = U^T U, so the lower factor is U^T and
	// p = chol(MInv)^-T eps, giving E[p p^T] = (U^T U)^-1 = MInv^-1.
	var p mat.VecDense
	if err := p.SolveVec(&u, eps); err != nil {
		for i := 0; i < n; i++ {
			pt.P[i] = eps.AtVec(i)
		}
		return
	}
	for i := 0; i < n; i++ {
		pt.P[i] = p.AtVec(i)
	}
}

func (d *DenseMetric) T(pt *Point) float64 {
	n := len(pt.P)
	p := mat.NewVecDense(n, pt.P)
	var mp mat.VecDense
	mp.MulVec(d.MInv, p)
	return 0.5 * mat.Dot(p, &mp)
}

func (d *DenseMetric) DtauDp(pt *Point) Vec {
	n := len(pt.P)
	p := mat.NewVecDense(n, pt.P)
	var mp mat.VecDense
	mp.MulVec(d.MInv, p)
	out := make(Vec, n)
	for i := 0; i < n; i++ {
		out[i] = mp.AtVec(i)
	}
	return out
}

func (d *DenseMetric) DtauDq(pt *Point) Vec {
	return make(Vec, len(pt.Q))
}

func (d *DenseMetric) Init(pt *Point, m model.LogDensityModel) error {
	return initPotential(pt, m)
}

func (d *DenseMetric) V(pt *Point) float64 { return pt.V }

func (d *DenseMetric) H(pt *Point) float64 {
	return d.T(pt) + pt.V
}
