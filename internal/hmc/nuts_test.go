package hmc

import (
	"testing"

	"github.com/MMesbahU/stan/internal/model"
	"github.com/MMesbahU/stan/internal/phase"
	"github.com/MMesbahU/stan/internal/rng"
	"github.com/stretchr/testify/require"
)

func TestNUTSTerminatesAtFiniteDepth(t *testing.T) {
	mdl := model.StandardNormal{Dim: 2}
	nt := NewNUTS(mdl, phase.UnitMetric{}, rng.New(1))
	require.NoError(t, nt.SetNominalStepsize(0.1))

	samp, err := nt.Transition(phase.Vec{0, 0})
	require.NoError(t, err)
	require.LessOrEqual(t, nt.LastDiagnostics.TreeDepth, nt.MaxTreeDepth)
	require.GreaterOrEqual(t, samp.AcceptStat, 0.0)
}

func TestNUTSAcceptStatInUnitInterval(t *testing.T) {
	mdl := model.StandardNormal{Dim: 2}
	nt := NewNUTS(mdl, phase.UnitMetric{}, rng.New(3))
	require.NoError(t, nt.SetNominalStepsize(0.3))

	q := phase.Vec{0, 0}
	for i := 0; i < 200; i++ {
		samp, err := nt.Transition(q)
		require.NoError(t, err)
		require.GreaterOrEqual(t, samp.AcceptStat, 0.0)
		require.LessOrEqual(t, samp.AcceptStat, 1.0)
		q = samp.Q
	}
}

func TestNUTSIllScaledUnitMetricDivergesMoreThanDiag(t *testing.T) {
	cov := model.DiagCov([]float64{1, 100})
	gauss, err := model.NewGaussian([]float64{0, 0}, cov)
	require.NoError(t, err)

	unitNT := NewNUTS(gauss, phase.UnitMetric{}, rng.New(11))
	require.NoError(t, unitNT.SetNominalStepsize(0.3))

	diagMetric, err := phase.NewDiagMetric([]float64{1, 100})
	require.NoError(t, err)
	diagNT := NewNUTS(gauss, diagMetric, rng.New(11))
	require.NoError(t, diagNT.SetNominalStepsize(0.3))

	transitions := 2000
	unitDivergent, diagDivergent := 0, 0

	q := phase.Vec{0, 0}
	for i := 0; i < transitions; i++ {
		samp, err := unitNT.Transition(q)
		require.NoError(t, err)
		if unitNT.LastDiagnostics.Divergent {
			unitDivergent++
		}
		q = samp.Q
	}

	q = phase.Vec{0, 0}
	for i := 0; i < transitions; i++ {
		samp, err := diagNT.Transition(q)
		require.NoError(t, err)
		if diagNT.LastDiagnostics.Divergent {
			diagDivergent++
		}
		q = samp.Q
	}

	require.Greater(t, float64(unitDivergent)/float64(transitions), float64(diagDivergent)/float64(transitions))
}
