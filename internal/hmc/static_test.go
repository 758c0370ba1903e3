package hmc

import (
	"math"
	"testing"

	"github.com/MMesbahU/stan/internal/model"
	"github.com/MMesbahU/stan/internal/phase"
	"github.com/MMesbahU/stan/internal/rng"
	"github.com/stretchr/testify/require"
)

func TestStaticUpdateL(t *testing.T) {
	mdl := model.StandardNormal{Dim: 1}
	s := NewStatic(mdl, phase.UnitMetric{}, rng.New(1))

	require.NoError(t, s.SetNominalStepsizeAndT(0.3, 1.0))
	require.Equal(t, 3, s.L)

	require.NoError(t, s.SetNominalStepsizeAndT(2.0, 1.0))
	require.Equal(t, 1, s.L)
}

func TestStaticAcceptStatInUnitInterval(t *testing.T) {
	mdl := model.StandardNormal{Dim: 1}
	s := NewStatic(mdl, phase.UnitMetric{}, rng.New(42))
	require.NoError(t, s.SetNominalStepsizeAndT(0.25, 1.0))

	q := phase.Vec{0}
	for i := 0; i < 1000; i++ {
		samp, err := s.Transition(q)
		require.NoError(t, err)
		require.GreaterOrEqual(t, samp.AcceptStat, 0.0)
		require.LessOrEqual(t, samp.AcceptStat, 1.0)
		q = samp.Q
	}
}

func TestStaticDetailedBalanceStandardNormal(t *testing.T) {
	mdl := model.StandardNormal{Dim: 1}
	s := NewStatic(mdl, phase.UnitMetric{}, rng.New(42))
	require.NoError(t, s.SetNominalStepsizeAndT(0.25, 1.0))

	q := phase.Vec{0}
	n := 50000
	sum, sumsq := 0.0, 0.0
	for i := 0; i < n; i++ {
		samp, err := s.Transition(q)
		require.NoError(t, err)
		q = samp.Q
		sum += q[0]
		sumsq += q[0] * q[0]
	}

	mean := sum / float64(n)
	variance := sumsq/float64(n) - mean*mean

	require.Less(t, math.Abs(mean), 0.05)
	require.InDelta(t, 1.0, variance, 0.1)
}

func TestStaticRejectionRestoresStateExactly(t *testing.T) {
	inner := model.StandardNormal{Dim: 2}
	mdl := &model.FailAfter{Wrapped: inner, N: 2}
	s := NewStatic(mdl, phase.UnitMetric{}, rng.New(7))
	require.NoError(t, s.SetNominalStepsizeAndL(0.1, 5))

	q0 := phase.Vec{1, 2}
	samp, err := s.Transition(q0)
	require.NoError(t, err)

	require.Equal(t, []float64(q0), []float64(samp.Q))
}
