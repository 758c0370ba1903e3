package advi

import (
	"fmt"
	"math"

	"github.com/MMesbahU/stan/internal/model"
	"github.com/MMesbahU/stan/internal/rng"
	"gonum.org/v1/gonum/mat"
)

// FullRank is a dense-covariance Gaussian variational family:
// zeta = mu + L*eta, eta ~ N(0, I), with L the lower-triangular
// Cholesky factor of the covariance (positive diagonal). Grounded on
// original_source's normal_fullrank family, expressed here over
// gonum's mat.TriDense instead of Eigen's triangular view.
type FullRank struct {
	Mu []float64
	L  *mat.TriDense
}

// NewFullRank initializes mu at x0 and L at the identity, matching
// advi::run's "Q(cont_params_)" construction with unit default scale.
func NewFullRank(x0 []float64) *FullRank {
	n := len(x0)
	mu := make([]float64, n)
	copy(mu, x0)
	l := mat.NewTriDense(n, mat.Lower, nil)
	for i := 0; i < n; i++ {
		l.SetTri(i, i, 1)
	}
	return &FullRank{Mu: mu, L: l}
}

func (q *FullRank) n() int { return len(q.Mu) }

func (q *FullRank) Dimension() int { return q.n() }

func (q *FullRank) Sample(src rng.Source) []float64 {
	n := q.n()
	eta := make([]float64, n)
	for i := range eta {
		eta[i] = src.Normal()
	}
	zeta := make([]float64, n)
	for i := 0; i < n; i++ {
		sum := q.Mu[i]
		for j := 0; j <= i; j++ {
			sum += q.L.At(i, j) * eta[j]
		}
		zeta[i] = sum
	}
	return zeta
}

// Entropy is sum(log L_ii) + n/2 * log(2*pi*e): det(Sigma) = prod(L_ii)^2.
func (q *FullRank) Entropy() float64 {
	n := q.n()
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += math.Log(q.L.At(i, i))
	}
	return sum + float64(n)/2*math.Log(2*math.Pi*math.E)
}

func (q *FullRank) Mean() []float64 {
	out := make([]float64, q.n())
	copy(out, q.Mu)
	return out
}

// CalcGrad draws nMC reparameterized samples zeta = mu + L*eta and
// accumulates mu_grad += g, L_grad[i][j] += g_i*eta_j for j<=i (since
// d zeta_i / d L_ij = eta_j), then adds the entropy gradient 1/L_ii to
// the diagonal.
func (q *FullRank) CalcGrad(mdl model.LogDensityModel, nMC int, src rng.Source) (Family, error) {
	n := q.n()
	muGrad := make([]float64, n)
	lGrad := mat.NewTriDense(n, mat.Lower, nil)
	grad := make([]float64, n)
	zeta := make([]float64, n)
	eta := make([]float64, n)

	dropped := 0
	i := 0
	for i < nMC {
		for j := range eta {
			eta[j] = src.Normal()
		}
		for r := 0; r < n; r++ {
			sum := q.Mu[r]
			for c := 0; c <= r; c++ {
				sum += q.L.At(r, c) * eta[c]
			}
			zeta[r] = sum
		}
		if err := mdl.Gradient(zeta, grad); err != nil {
			dropped++
			if dropped >= nMC {
				return nil, &model.DomainError{Op: "FullRank.CalcGrad", Message: fmt.Sprintf("the number of dropped gradient evaluations has reached its maximum of %d", nMC)}
			}
			continue
		}
		for r := 0; r < n; r++ {
			muGrad[r] += grad[r]
			for c := 0; c <= r; c++ {
				lGrad.SetTri(r, c, lGrad.At(r, c)+grad[r]*eta[c])
			}
		}
		i++
	}

	for r := 0; r < n; r++ {
		muGrad[r] /= float64(nMC)
		for c := 0; c <= r; c++ {
			lGrad.SetTri(r, c, lGrad.At(r, c)/float64(nMC))
		}
		lGrad.SetTri(r, r, lGrad.At(r, r)+1/q.L.At(r, r))
	}

	return &FullRank{Mu: muGrad, L: lGrad}, nil
}

func (q *FullRank) Clone() Family {
	var l mat.TriDense
	n, kind := q.L.Triangle()
	l.ReuseAsTri(n, kind)
	l.Copy(q.L)
	return &FullRank{Mu: cloneSlice(q.Mu), L: &l}
}

func (q *FullRank) ZeroLike() Family {
	return &FullRank{Mu: make([]float64, q.n()), L: mat.NewTriDense(q.n(), mat.Lower, nil)}
}

func (q *FullRank) lowerMap(f func(v float64) float64) *mat.TriDense {
	n := q.n()
	out := mat.NewTriDense(n, mat.Lower, nil)
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			out.SetTri(i, j, f(q.L.At(i, j)))
		}
	}
	return out
}

func (q *FullRank) Square() Family {
	return &FullRank{Mu: squareSlice(q.Mu), L: q.lowerMap(func(v float64) float64 { return v * v })}
}

func (q *FullRank) Sqrt() Family {
	return &FullRank{Mu: sqrtSlice(q.Mu), L: q.lowerMap(math.Sqrt)}
}

func (q *FullRank) AddElem(other Family) Family {
	o := other.(*FullRank)
	n := q.n()
	l := mat.NewTriDense(n, mat.Lower, nil)
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			l.SetTri(i, j, q.L.At(i, j)+o.L.At(i, j))
		}
	}
	return &FullRank{Mu: addSlice(q.Mu, o.Mu), L: l}
}

func (q *FullRank) Scale(c float64) Family {
	return &FullRank{Mu: scaleSlice(q.Mu, c), L: q.lowerMap(func(v float64) float64 { return v * c })}
}

func (q *FullRank) DivElem(other Family) Family {
	o := other.(*FullRank)
	n := q.n()
	l := mat.NewTriDense(n, mat.Lower, nil)
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			l.SetTri(i, j, q.L.At(i, j)/o.L.At(i, j))
		}
	}
	return &FullRank{Mu: divSlice(q.Mu, o.Mu), L: l}
}

func (q *FullRank) AddConst(c float64) Family {
	return &FullRank{Mu: addConstSlice(q.Mu, c), L: q.lowerMap(func(v float64) float64 { return v + c })}
}
