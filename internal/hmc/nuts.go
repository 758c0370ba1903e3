package hmc

import (
	"math"

	"github.com/MMesbahU/stan/internal/model"
	"github.com/MMesbahU/stan/internal/phase"
	"github.com/MMesbahU/stan/internal/rng"
)

// Diagnostics mirrors the per-transition sampler parameters Stan's NUTS
// publishes alongside each draw. spec.md §6 requires the literal names
// stepsize__, treedepth__, n_leapfrog__, divergent__, energy__ on the
// reporting path for downstream compatibility; sampleio.CSVHMCDiagnosticWriter
// is where those literal names are actually emitted, built from these
// field values in the same order.
type Diagnostics struct {
	Stepsize  float64
	TreeDepth int
	NLeapfrog int
	Divergent bool
	Energy    float64
}

// NUTS is the No-U-Turn Sampler: a recursive, binary-doubling extension
// of a Hamiltonian trajectory that stops either at a U-turn or at
// MaxTreeDepth, choosing its draw by biased progressive sampling so
// that no trajectory is ever materialized in full. Grounded on
// original_source's unit_e_nuts/diag_e_nuts/dense_e_nuts family,
// generalized here over any phase.Metric via DtauDp in place of the
// raw momentum the unit-metric original uses directly.
type NUTS struct {
	*base

	MaxTreeDepth   int
	MaxDeltaEnergy float64

	LastDiagnostics Diagnostics
}

// NewNUTS builds a NUTS sampler with the defaults Stan ships:
// MaxTreeDepth = 10, MaxDeltaEnergy = 1000.
func NewNUTS(m model.LogDensityModel, metric phase.Metric, src rng.Source) *NUTS {
	return &NUTS{
		base:           newBase(m, metric, src),
		MaxTreeDepth:   10,
		MaxDeltaEnergy: 1000,
	}
}

// treeNode is the recursively-built subtree: its two boundary states,
// the biasedly-sampled candidate drawn from within it, the accumulated
// sum of raw momenta (rho) needed for the generalized U-turn check, and
// the bookkeeping biased progressive sampling and divergence detection
// need at the caller.
type treeNode struct {
	zMinus, zPlus, zProp phase.Point
	rho                  phase.Vec
	n                    int
	s                    bool
	alphaSum             float64
	nAlpha               int
	divergent            bool
}

func (nt *NUTS) noUTurn(rho phase.Vec, zMinus, zPlus *phase.Point) bool {
	dpPlus := nt.metric.DtauDp(zPlus)
	dpMinus := nt.metric.DtauDp(zMinus)
	return dpPlus.Dot(rho.Sub(zPlus.P)) > 0 && dpMinus.Dot(rho.Sub(zMinus.P)) > 0
}

// buildTree extends the trajectory from z by 2^j leapfrog steps in
// direction v (+1 or -1), per the biased progressive sampling
// recursion: a depth-0 call takes one leapfrog step and evaluates the
// slice/divergence criteria; a depth-j call recurses on two depth-(j-1)
// subtrees and combines them, stopping early the moment either half is
// invalid.
func (nt *NUTS) buildTree(z phase.Point, logu float64, v, j int, h0 float64, src rng.Source) treeNode {
	if j == 0 {
		pt := z.Clone()
		err := nt.integ.Step(nt.metric, nt.model, &pt, float64(v)*nt.epsilon)
		nt.LastDiagnostics.NLeapfrog++

		if err != nil || !pt.IsValid() {
			return treeNode{zMinus: pt, zPlus: pt, zProp: pt, rho: pt.P.Clone(), n: 0, s: false, alphaSum: 0, nAlpha: 1, divergent: true}
		}

		h := nt.metric.H(&pt)
		deltaH := h - h0
		n := 0
		if logu <= -h {
			n = 1
		}
		divergent := math.Abs(deltaH) > nt.MaxDeltaEnergy
		alpha := math.Exp(math.Min(0, -deltaH))
		if math.IsNaN(alpha) {
			alpha = 0
		}
		return treeNode{zMinus: pt, zPlus: pt, zProp: pt, rho: pt.P.Clone(), n: n, s: !divergent, alphaSum: alpha, nAlpha: 1, divergent: divergent}
	}

	first := nt.buildTree(z, logu, v, j-1, h0, src)
	if !first.s || first.divergent {
		return first
	}

	var second treeNode
	if v == -1 {
		second = nt.buildTree(first.zMinus, logu, v, j-1, h0, src)
	} else {
		second = nt.buildTree(first.zPlus, logu, v, j-1, h0, src)
	}

	combined := treeNode{
		alphaSum: first.alphaSum + second.alphaSum,
		nAlpha:   first.nAlpha + second.nAlpha,
		rho:      first.rho.Add(second.rho),
	}
	if v == -1 {
		combined.zMinus = second.zMinus
		combined.zPlus = first.zPlus
	} else {
		combined.zMinus = first.zMinus
		combined.zPlus = second.zPlus
	}

	total := first.n + second.n
	combined.zProp = first.zProp
	if total > 0 && second.n > 0 && src.Uniform() < float64(second.n)/float64(total) {
		combined.zProp = second.zProp
	}
	combined.n = total
	combined.divergent = second.divergent
	combined.s = second.s && !second.divergent && nt.noUTurn(combined.rho, &combined.zMinus, &combined.zPlus)

	return combined
}

// Transition grows a trajectory by binary doubling from q0 until it
// U-turns, diverges, or reaches MaxTreeDepth, then returns the
// biasedly-sampled draw from the union of all subtrees visited.
func (nt *NUTS) Transition(q0 phase.Vec) (Sample, error) {
	nt.LastDiagnostics = Diagnostics{Stepsize: nt.epsilon}

	nt.seed(q0)
	nt.metric.SampleP(nt.z, nt.src)
	_ = nt.metric.Init(nt.z, nt.model)

	h0 := nt.metric.H(nt.z)
	logu := math.Log(nt.src.Uniform()) - h0

	zMinus := nt.z.Clone()
	zPlus := nt.z.Clone()
	sample := nt.z.Clone()
	rho := nt.z.P.Clone()

	n := 1
	s := true
	alphaSum, nAlpha := 0.0, 0
	divergent := false
	depth := 0

	for s && depth < nt.MaxTreeDepth {
		v := 1
		if nt.src.Uniform() < 0.5 {
			v = -1
		}

		var res treeNode
		if v == -1 {
			res = nt.buildTree(zMinus, logu, v, depth, h0, nt.src)
			zMinus = res.zMinus
		} else {
			res = nt.buildTree(zPlus, logu, v, depth, h0, nt.src)
			zPlus = res.zPlus
		}

		if !res.divergent && res.s && res.n > 0 {
			if n+res.n > 0 && nt.src.Uniform() < float64(res.n)/float64(n+res.n) {
				sample = res.zProp
			}
		}

		n += res.n
		alphaSum += res.alphaSum
		nAlpha += res.nAlpha
		rho = rho.Add(res.rho)
		divergent = res.divergent
		s = res.s && !res.divergent && nt.noUTurn(rho, &zMinus, &zPlus)
		depth++
	}

	nt.z.Restore(sample)
	nt.LastDiagnostics.TreeDepth = depth
	nt.LastDiagnostics.Divergent = divergent
	nt.LastDiagnostics.Energy = nt.metric.H(nt.z)

	acceptStat := 0.0
	if nAlpha > 0 {
		acceptStat = alphaSum / float64(nAlpha)
	}

	return Sample{Q: nt.z.Q.Clone(), LogP: -nt.z.V, AcceptStat: acceptStat}, nil
}
