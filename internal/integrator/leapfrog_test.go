package integrator

import (
	"math"
	"testing"

	"github.com/MMesbahU/stan/internal/model"
	"github.com/MMesbahU/stan/internal/phase"
	"github.com/stretchr/testify/require"
)

func TestLeapfrogReversibility(t *testing.T) {
	mdl := model.StandardNormal{Dim: 3}
	metric := phase.UnitMetric{}
	var integ Leapfrog

	pt := phase.NewPoint(3)
	pt.Q = phase.Vec{1, 0, 0}
	pt.P = phase.Vec{0, 1, 0}
	require.NoError(t, metric.Init(pt, mdl))

	q0, p0 := pt.Q.Clone(), pt.P.Clone()
	eps := 2 * math.Pi / 100

	require.NoError(t, integ.Step(metric, mdl, pt, eps))
	require.NoError(t, integ.Step(metric, mdl, pt, -eps))

	for i := range q0 {
		require.InDelta(t, q0[i], pt.Q[i], 1e-9)
		require.InDelta(t, p0[i], pt.P[i], 1e-9)
	}
}

func TestLeapfrogOrbitReturnsNearStart(t *testing.T) {
	mdl := model.StandardNormal{Dim: 3}
	metric := phase.UnitMetric{}
	var integ Leapfrog

	pt := phase.NewPoint(3)
	pt.Q = phase.Vec{1, 0, 0}
	pt.P = phase.Vec{0, 1, 0}
	require.NoError(t, metric.Init(pt, mdl))

	eps := 2 * math.Pi / 100
	for i := 0; i < 100; i++ {
		require.NoError(t, integ.Step(metric, mdl, pt, eps))
	}

	require.InDelta(t, 1.0, pt.Q[0], 1e-3)
	require.InDelta(t, 0.0, pt.Q[1], 1e-3)
	require.InDelta(t, 0.0, pt.Q[2], 1e-3)
}

func TestLeapfrogNoSecularEnergyDrift(t *testing.T) {
	n := 10
	mdl := model.StandardNormal{Dim: n}
	metric := phase.UnitMetric{}
	var integ Leapfrog

	pt := phase.NewPoint(n)
	for i := range pt.Q {
		pt.Q[i] = 0.1 * float64(i+1)
		pt.P[i] = 0.05 * float64(i+1)
	}
	require.NoError(t, metric.Init(pt, mdl))

	h0 := metric.H(pt)
	for i := 0; i < 1000; i++ {
		require.NoError(t, integ.Step(metric, mdl, pt, 0.01))
	}
	h1 := metric.H(pt)

	require.Less(t, math.Abs(h1-h0), 0.1)
}
