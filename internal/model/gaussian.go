package model

import (
	"gonum.org/v1/gonum/mat"
)

// StandardNormal is logp(q) = -0.5 * sum(q_i^2), the target used for the
// leapfrog reversibility, symplecticity, and detailed-balance scenarios.
type StandardNormal struct {
	Dim int
}

func (s StandardNormal) NumParamsR() int { return s.Dim }

func (s StandardNormal) LogDensity(q []float64) (float64, error) {
	sum := 0.0
	for _, x := range q {
		sum += x * x
	}
	return -0.5 * sum, nil
}

func (s StandardNormal) Gradient(q []float64, grad []float64) error {
	for i, x := range q {
		grad[i] = -x
	}
	return nil
}

// Gaussian is a general multivariate normal target, logp(q) =
// -0.5 (q-mu)^T Cov^-1 (q-mu), evaluated via a cached Cholesky factor of
// Cov. Used for the ADVI mean-convergence scenario and the NUTS
// divergent-fraction scenario (diag(1, 100)).
type Gaussian struct {
	Mu  []float64
	Cov *mat.SymDense

	chol mat.Cholesky
}

// NewGaussian builds a Gaussian target and factors Cov once up front.
func NewGaussian(mu []float64, cov *mat.SymDense) (*Gaussian, error) {
	g := &Gaussian{Mu: mu, Cov: cov}
	if ok := g.chol.Factorize(cov); !ok {
		return nil, &DomainError{Op: "NewGaussian", Message: "covariance is not positive-definite"}
	}
	return g, nil
}

func (g *Gaussian) NumParamsR() int { return len(g.Mu) }

func (g *Gaussian) LogDensity(q []float64) (float64, error) {
	n := len(q)
	d := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		d.SetVec(i, q[i]-g.Mu[i])
	}
	var solved mat.VecDense
	if err := g.chol.SolveVecTo(&solved, d); err != nil {
		return 0, &DomainError{Op: "Gaussian.LogDensity", Message: err.Error()}
	}
	return -0.5 * mat.Dot(d, &solved), nil
}

func (g *Gaussian) Gradient(q []float64, grad []float64) error {
	n := len(q)
	d := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		d.SetVec(i, q[i]-g.Mu[i])
	}
	var solved mat.VecDense
	if err := g.chol.SolveVecTo(&solved, d); err != nil {
		return &DomainError{Op: "Gaussian.Gradient", Message: err.Error()}
	}
	for i := 0; i < n; i++ {
		grad[i] = -solved.AtVec(i)
	}
	return nil
}

// DiagCov builds a diagonal covariance matrix, a convenience for the NUTS
// ill-scaled-target scenario (diag(1, 100)).
func DiagCov(diag []float64) *mat.SymDense {
	n := len(diag)
	cov := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		cov.SetSym(i, i, diag[i])
	}
	return cov
}
