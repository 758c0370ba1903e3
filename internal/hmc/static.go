package hmc

import (
	"math"

	"github.com/MMesbahU/stan/internal/model"
	"github.com/MMesbahU/stan/internal/phase"
	"github.com/MMesbahU/stan/internal/rng"
)

// StaticDiagnostics is the per-transition sampler parameter record
// static HMC publishes, named stepsize__ and int_time__ on the reporting
// path (spec.md §6): the names must match those literal strings exactly
// for downstream compatibility, so the caller passes them to
// CSVHMCDiagnosticWriter's header and writes these fields in that order.
type StaticDiagnostics struct {
	Stepsize float64
	IntTime  float64
}

// Static runs a fixed number of leapfrog steps per transition, the
// number derived from a nominal integration time T and the step size:
// L = max(1, floor(T/eps)). Grounded on base_static_hmc.hpp's
// update_L_/set_nominal_stepsize_and_T contract.
type Static struct {
	*base
	T float64
	L int

	LastDiagnostics StaticDiagnostics
}

// NewStatic builds a Static sampler with trajectory length T = 1 and
// step size eps = 1, matching base_static_hmc's defaults.
func NewStatic(m model.LogDensityModel, metric phase.Metric, src rng.Source) *Static {
	s := &Static{base: newBase(m, metric, src), T: 1}
	s.updateL()
	return s
}

func (s *Static) updateL() {
	l := int(math.Floor(s.T / s.epsilon))
	if l < 1 {
		l = 1
	}
	s.L = l
}

// SetNominalStepsize sets the step size and re-derives L from the
// current integration time.
func (s *Static) SetNominalStepsize(eps float64) error {
	if err := s.base.SetNominalStepsize(eps); err != nil {
		return err
	}
	s.updateL()
	return nil
}

// SetT sets the nominal integration time and re-derives L from the
// current step size.
func (s *Static) SetT(t float64) error {
	if t <= 0 {
		return &ConfigError{Op: "SetT", Message: "integration time must be positive"}
	}
	s.T = t
	s.updateL()
	return nil
}

// SetNominalStepsizeAndL sets both the step size and the number of
// leapfrog steps directly, leaving T = L*eps implied.
func (s *Static) SetNominalStepsizeAndL(eps float64, l int) error {
	if err := s.SetNominalStepsize(eps); err != nil {
		return err
	}
	if l < 1 {
		return &ConfigError{Op: "SetNominalStepsizeAndL", Message: "number of steps must be positive"}
	}
	s.L = l
	s.T = float64(l) * eps
	return nil
}

// SetNominalStepsizeAndT sets the step size and the nominal integration
// time, re-deriving L.
func (s *Static) SetNominalStepsizeAndT(eps, t float64) error {
	if err := s.SetNominalStepsize(eps); err != nil {
		return err
	}
	return s.SetT(t)
}

// Transition advances the chain from q0 by L leapfrog steps of size
// epsilon and a Metropolis accept/reject against the starting
// Hamiltonian. On an integrator divergence (non-finite state), the
// proposal is rejected as if H = +Inf.
func (s *Static) Transition(q0 phase.Vec) (Sample, error) {
	s.LastDiagnostics = StaticDiagnostics{Stepsize: s.epsilon, IntTime: s.T}

	s.seed(q0)
	s.metric.SampleP(s.z, s.src)
	// A domain error here only marks pt.V = +Inf; the Hamiltonian then
	// reads as non-finite and the transition below rejects naturally.
	_ = s.metric.Init(s.z, s.model)

	h0 := s.metric.H(s.z)
	start := s.z.Clone()

	divergent := false
	for i := 0; i < s.L; i++ {
		if err := s.integ.Step(s.metric, s.model, s.z, s.epsilon); err != nil {
			divergent = true
			break
		}
	}

	h1 := math.Inf(1)
	if !divergent {
		h1 = s.metric.H(s.z)
	}

	acceptStat := math.Exp(math.Min(0, h0-h1))
	if math.IsNaN(acceptStat) {
		acceptStat = 0
	}

	if divergent || s.src.Uniform() >= acceptStat {
		s.z.Restore(start)
	}

	return Sample{Q: s.z.Q.Clone(), LogP: -s.z.V, AcceptStat: acceptStat}, nil
}
