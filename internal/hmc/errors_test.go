package hmc

import (
	"testing"

	"github.com/MMesbahU/stan/internal/model"
	"github.com/MMesbahU/stan/internal/phase"
	"github.com/MMesbahU/stan/internal/rng"
	"github.com/stretchr/testify/require"
)

func TestStaticSettersRejectNonPositive(t *testing.T) {
	mdl := model.StandardNormal{Dim: 1}
	s := NewStatic(mdl, phase.UnitMetric{}, rng.New(1))

	require.Error(t, s.SetNominalStepsize(0))
	require.Error(t, s.SetNominalStepsize(-1))
	require.Error(t, s.SetT(0))
	require.Error(t, s.SetNominalStepsizeAndL(1, 0))
}
