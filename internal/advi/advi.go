package advi

import (
	"fmt"
	"math"

	"github.com/MMesbahU/stan/internal/model"
	"github.com/MMesbahU/stan/internal/rng"
)

// Printer receives human-readable progress lines, the role the
// original's print_stream_ plays. Nil is a valid Printer: Engine treats
// a nil Printer as "print nothing".
type Printer interface {
	Printf(format string, args ...any)
}

// DiagnosticWriter receives one row per ELBO evaluation during the main
// loop. Its header must read exactly "iter,time_in_seconds,ELBO", per
// spec.md §6.
type DiagnosticWriter interface {
	WriteHeader() error
	WriteRow(iter int, elapsedSeconds, elbo float64) error
}

// PosteriorWriter receives the point-estimate record and each posterior
// draw Run produces.
type PosteriorWriter interface {
	WriteSample(iter int, logp float64, q []float64) error
}

// Engine runs ADVI against a single model: tuning the step size,
// ascending the ELBO, and drawing posterior samples from the fit.
// Grounded on original_source's stan::variational::advi class, with the
// model/rng/output streams held as the same kind of non-owned
// references the original's constructor takes.
type Engine struct {
	Model model.LogDensityModel
	Src   rng.Source

	NMonteCarloGrad   int
	NMonteCarloElbo   int
	EvalElbo          int
	NPosteriorSamples int

	Print      Printer
	Diagnostic DiagnosticWriter
	Posterior  PosteriorWriter
}

// NewEngine builds an Engine with the defaults Stan ships: 1 gradient
// sample, 100 ELBO samples, evaluating every 100 iterations, and 1000
// posterior draws.
func NewEngine(m model.LogDensityModel, src rng.Source) *Engine {
	return &Engine{
		Model:             m,
		Src:               src,
		NMonteCarloGrad:   1,
		NMonteCarloElbo:   100,
		EvalElbo:          100,
		NPosteriorSamples: 1000,
	}
}

func (e *Engine) printf(format string, args ...any) {
	if e.Print != nil {
		e.Print.Printf(format, args...)
	}
}

func (e *Engine) elbo(q Family) (float64, error) {
	return ELBO(q, e.Model, e.NMonteCarloElbo, e.Src)
}

func (e *Engine) grad(q Family) (Family, error) {
	return q.CalcGrad(e.Model, e.NMonteCarloGrad, e.Src)
}

var etaSequence = []float64{1.00, 0.50, 0.10, 0.05, 0.01}

const (
	tuningIterations = 50
	tau              = 1.0
	preFactor        = 0.9
	postFactor       = 0.1
)

// adaptiveStep runs one iteration of the adaptive stochastic gradient
// step shared by Tune and StochasticGradientAscent: compute the ELBO
// gradient, update the running preconditioner s, and move q by
// eta/sqrt(iter) * g / (tau + sqrt(s)).
func (e *Engine) adaptiveStep(q Family, s Family, iter int, eta float64) (Family, Family, error) {
	g, err := e.grad(q)
	if err != nil {
		return q, s, err
	}

	if iter == 1 {
		s = g.Square()
	} else {
		s = s.Scale(preFactor).AddElem(g.Square().Scale(postFactor))
	}

	etaScaled := eta / math.Sqrt(float64(iter))
	update := g.DivElem(s.Sqrt().AddConst(tau)).Scale(etaScaled)
	q = q.AddElem(update)

	return q, s, nil
}

// Tune reconstructs a fresh Family from x0 for each candidate eta in
// {1.0, 0.5, 0.1, 0.05, 0.01}, runs 50 adaptive-step iterations, and
// measures the resulting ELBO. It stops at the first eta that performs
// worse than the best one so far (provided the best has improved on the
// initial ELBO) and returns the previous eta; if the whole sequence is
// exhausted it returns the last eta tried if it beat the initial ELBO,
// or 0 ("all step sizes failed") otherwise. Per spec.md §9's resolution
// of the tuner's Open Question, each trial measures a freshly
// constructed Family, never the Family left over from the previous
// trial.
func (e *Engine) Tune(newFamily func(x0 []float64) Family, x0 []float64) float64 {
	elboInit, err := e.elbo(newFamily(x0))
	if err != nil {
		e.printf("ADVI TUNING: initial ELBO evaluation failed: %v\n", err)
		return 0
	}

	eta := etaSequence[0]
	remaining := etaSequence[1:]
	elboBest := -math.MaxFloat64
	etaBest := 0.0

	for {
		e.printf("ADVI TUNING: trying eta = %.2f for %d iterations... ", eta, tuningIterations)

		q := newFamily(x0)
		var s Family
		for iter := 1; iter <= tuningIterations; iter++ {
			var stepErr error
			q, s, stepErr = e.adaptiveStep(q, s, iter, eta)
			if stepErr != nil {
				break
			}
		}

		elboTry, err := e.elbo(q)
		if err != nil {
			elboTry = math.Inf(-1)
		}

		if elboTry < elboBest && elboBest > elboInit {
			e.printf("SUCCESS. USING PREVIOUS ONE\n\n")
			return etaBest
		}

		if len(remaining) > 0 {
			e.printf("FAILED.\n")
			elboBest = elboTry
			etaBest = eta
			eta, remaining = remaining[0], remaining[1:]
			continue
		}

		if elboTry > elboInit {
			e.printf("SUCCESS. USING CURRENT ONE\n\n")
			return eta
		}

		e.printf("FAILED.\nALL STEP SIZES FAILED.\n")
		return 0
	}
}

func relDifference(prev, curr float64) float64 {
	return math.Abs(curr-prev) / math.Abs(prev)
}

// StochasticGradientAscent runs the main ADVI loop starting from q and
// returns the updated Family (q itself is not modified), checking for ELBO convergence every EvalElbo iterations against a
// trailing circular buffer of relative ELBO deltas (tracking both the
// mean and the median, per spec.md §4.5 and §9), and stopping at
// MaxIterations if neither fires. now, if set, supplies elapsed seconds
// for the diagnostic stream; a nil now writes 0 for every row.
func (e *Engine) StochasticGradientAscent(q Family, eta, tol float64, maxIterations int, now func() float64) (Family, error) {
	if eta < 0 {
		return q, &model.DomainError{Op: "StochasticGradientAscent", Message: "eta must be nonnegative"}
	}
	if tol <= 0 {
		return q, &model.DomainError{Op: "StochasticGradientAscent", Message: "relative objective tolerance must be positive"}
	}
	if maxIterations <= 0 {
		return q, &model.DomainError{Op: "StochasticGradientAscent", Message: "maximum iterations must be positive"}
	}

	cbSize := int(math.Max(0.1*float64(maxIterations)/float64(e.EvalElbo), 2))
	deltaBuf := newRing(cbSize)

	elboBest := -math.MaxFloat64
	elboPrev := -math.MaxFloat64
	elboCur := 0.0

	if e.Diagnostic != nil {
		if err := e.Diagnostic.WriteHeader(); err != nil {
			return q, err
		}
	}

	var s Family
	converged := false
	iter := 1
	for {
		var err error
		q, s, err = e.adaptiveStep(q, s, iter, eta)
		if err != nil {
			return q, err
		}

		if iter%e.EvalElbo == 0 {
			elboPrev = elboCur
			elboCur, err = e.elbo(q)
			if err != nil {
				return q, err
			}
			if elboCur > elboBest {
				elboBest = elboCur
			}

			deltaAve := relDifference(elboPrev, elboCur)
			deltaBuf.Push(deltaAve)
			deltaMean := deltaBuf.Mean()
			deltaMedian := deltaBuf.Median()

			e.printf("  %4d  %9.1f  %16.3f  %15.3f", iter, elboCur, deltaMean, deltaMedian)

			if e.Diagnostic != nil {
				elapsed := 0.0
				if now != nil {
					elapsed = now()
				}
				if err := e.Diagnostic.WriteRow(iter, elapsed, elboCur); err != nil {
					return q, err
				}
			}

			if deltaMean < tol {
				e.printf("   MEAN ELBO CONVERGED")
				converged = true
			}
			if deltaMedian < tol {
				e.printf("   MEDIAN ELBO CONVERGED")
				converged = true
			}
			if deltaMedian > 0.5 || deltaMean > 0.5 {
				e.printf("   MAY BE DIVERGING... INSPECT ELBO")
			}
			e.printf("\n")

			if converged && math.Abs(elboCur-elboBest) > 0.5 {
				e.printf("Informational Message: The ELBO at a previous iteration is larger than the ELBO upon convergence!\n")
				e.printf("This means that the variational approximation has not converged to the global optima.\n")
			}
		}

		if converged {
			break
		}

		if iter == maxIterations {
			e.printf("Informational Message: The maximum number of iterations is reached! The algorithm has not converged.\n")
			e.printf("Values from this variational approximation are not guaranteed to be meaningful.\n")
			break
		}

		iter++
	}

	return q, nil
}

// Run ties Tune (if eta == 0), StochasticGradientAscent, and posterior
// sampling together exactly as original_source's advi::run does:
// construct Q from x0, tune or use eta as given, ascend, write the
// point-estimate record, then draw NPosteriorSamples more.
func (e *Engine) Run(newFamily func(x0 []float64) Family, x0 []float64, eta, tol float64, maxIterations int, now func() float64) error {
	if eta == 0 {
		eta = e.Tune(newFamily, x0)
	}

	q := newFamily(x0)
	q, err := e.StochasticGradientAscent(q, eta, tol, maxIterations, now)
	if err != nil {
		return err
	}

	mean := q.Mean()
	lp, err := e.Model.LogDensity(mean)
	if err != nil {
		return fmt.Errorf("advi: evaluating log density at posterior mean: %w", err)
	}
	if e.Posterior != nil {
		if err := e.Posterior.WriteSample(0, lp, mean); err != nil {
			return err
		}
	}

	e.printf("\nDrawing %d samples from the approximate posterior... ", e.NPosteriorSamples)
	for n := 1; n <= e.NPosteriorSamples; n++ {
		zeta := q.Sample(e.Src)
		lp, err := e.Model.LogDensity(zeta)
		if err != nil {
			return fmt.Errorf("advi: evaluating log density of posterior draw %d: %w", n, err)
		}
		if e.Posterior != nil {
			if err := e.Posterior.WriteSample(n, lp, zeta); err != nil {
				return err
			}
		}
	}
	e.printf("DONE.\n")

	return nil
}
