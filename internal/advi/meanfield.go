package advi

import (
	"fmt"
	"math"

	"github.com/MMesbahU/stan/internal/model"
	"github.com/MMesbahU/stan/internal/rng"
)

// MeanField is a diagonal-covariance Gaussian variational family:
// zeta_i = mu_i + exp(omega_i) * eta_i, eta_i ~ N(0, 1). omega
// parameterizes the log standard deviation so the scale stays positive
// under unconstrained stochastic gradient steps.
type MeanField struct {
	Mu    []float64
	Omega []float64
}

// NewMeanField initializes mu at x0 and omega at zero (unit scale),
// matching advi::run's "Q(cont_params_)" construction.
func NewMeanField(x0 []float64) *MeanField {
	mu := make([]float64, len(x0))
	copy(mu, x0)
	return &MeanField{Mu: mu, Omega: make([]float64, len(x0))}
}

func (q *MeanField) Dimension() int { return len(q.Mu) }

func (q *MeanField) Sample(src rng.Source) []float64 {
	zeta := make([]float64, len(q.Mu))
	for i := range zeta {
		zeta[i] = q.Mu[i] + math.Exp(q.Omega[i])*src.Normal()
	}
	return zeta
}

// Entropy is the differential entropy of a diagonal Gaussian,
// sum(omega_i) + n/2 * log(2*pi*e).
func (q *MeanField) Entropy() float64 {
	n := len(q.Mu)
	sum := 0.0
	for _, w := range q.Omega {
		sum += w
	}
	return sum + float64(n)/2*math.Log(2*math.Pi*math.E)
}

func (q *MeanField) Mean() []float64 {
	out := make([]float64, len(q.Mu))
	copy(out, q.Mu)
	return out
}

// CalcGrad draws nMC reparameterized samples and averages the chain-rule
// gradient through zeta = mu + exp(omega)*eta: mu_grad accumulates
// d/dzeta log pi(zeta) directly (since dzeta/dmu = 1); omega_grad
// accumulates that same gradient scaled by eta*exp(omega) (since
// dzeta/domega = eta*exp(omega)), plus the entropy gradient d/domega
// sum(omega) = 1.
func (q *MeanField) CalcGrad(mdl model.LogDensityModel, nMC int, src rng.Source) (Family, error) {
	n := len(q.Mu)
	muGrad := make([]float64, n)
	omegaGrad := make([]float64, n)
	grad := make([]float64, n)
	zeta := make([]float64, n)
	eta := make([]float64, n)

	dropped := 0
	i := 0
	for i < nMC {
		for j := range eta {
			eta[j] = src.Normal()
			zeta[j] = q.Mu[j] + math.Exp(q.Omega[j])*eta[j]
		}
		if err := mdl.Gradient(zeta, grad); err != nil {
			dropped++
			if dropped >= nMC {
				return nil, &model.DomainError{Op: "MeanField.CalcGrad", Message: fmt.Sprintf("the number of dropped gradient evaluations has reached its maximum of %d", nMC)}
			}
			continue
		}
		for j := 0; j < n; j++ {
			muGrad[j] += grad[j]
			omegaGrad[j] += grad[j] * eta[j] * math.Exp(q.Omega[j])
		}
		i++
	}

	for j := 0; j < n; j++ {
		muGrad[j] /= float64(nMC)
		omegaGrad[j] /= float64(nMC)
		omegaGrad[j] += 1
	}

	return &MeanField{Mu: muGrad, Omega: omegaGrad}, nil
}

func (q *MeanField) Clone() Family {
	return &MeanField{Mu: cloneSlice(q.Mu), Omega: cloneSlice(q.Omega)}
}

func (q *MeanField) ZeroLike() Family {
	return &MeanField{Mu: make([]float64, len(q.Mu)), Omega: make([]float64, len(q.Omega))}
}

func (q *MeanField) Square() Family {
	return &MeanField{Mu: squareSlice(q.Mu), Omega: squareSlice(q.Omega)}
}

func (q *MeanField) Sqrt() Family {
	return &MeanField{Mu: sqrtSlice(q.Mu), Omega: sqrtSlice(q.Omega)}
}

func (q *MeanField) AddElem(other Family) Family {
	o := other.(*MeanField)
	return &MeanField{Mu: addSlice(q.Mu, o.Mu), Omega: addSlice(q.Omega, o.Omega)}
}

func (q *MeanField) Scale(c float64) Family {
	return &MeanField{Mu: scaleSlice(q.Mu, c), Omega: scaleSlice(q.Omega, c)}
}

func (q *MeanField) DivElem(other Family) Family {
	o := other.(*MeanField)
	return &MeanField{Mu: divSlice(q.Mu, o.Mu), Omega: divSlice(q.Omega, o.Omega)}
}

func (q *MeanField) AddConst(c float64) Family {
	return &MeanField{Mu: addConstSlice(q.Mu, c), Omega: addConstSlice(q.Omega, c)}
}
