package advi

import (
	"testing"

	"github.com/MMesbahU/stan/internal/model"
	"github.com/MMesbahU/stan/internal/rng"
	"github.com/stretchr/testify/require"
)

func TestMeanFieldCalcGradPointsTowardTargetMean(t *testing.T) {
	gauss, err := model.NewGaussian([]float64{2, -2}, model.DiagCov([]float64{1, 1}))
	require.NoError(t, err)

	q := NewMeanField([]float64{0, 0})
	g, err := q.CalcGrad(gauss, 20000, rng.New(5))
	require.NoError(t, err)

	mfGrad := g.(*MeanField)
	// At mu=0 the target mean is at (2,-2); the log-density gradient
	// there points toward the target, so mu_grad should share its sign.
	require.Greater(t, mfGrad.Mu[0], 0.0)
	require.Less(t, mfGrad.Mu[1], 0.0)
}

func TestMeanFieldElementwiseOpsPreserveShape(t *testing.T) {
	q := NewMeanField([]float64{1, 2, 3})
	sq := q.Square().(*MeanField)
	require.Len(t, sq.Mu, 3)
	require.Len(t, sq.Omega, 3)
	require.Equal(t, 1.0, sq.Mu[0])
	require.Equal(t, 4.0, sq.Mu[1])
	require.Equal(t, 9.0, sq.Mu[2])

	sum := q.AddElem(q).(*MeanField)
	require.Equal(t, []float64{2, 4, 6}, sum.Mu)
}

func TestMeanFieldCalcGradFailsWhenAllDropped(t *testing.T) {
	mdl := &model.FailAfter{Wrapped: model.StandardNormal{Dim: 1}, N: 1}
	q := NewMeanField([]float64{0})

	_, err := q.CalcGrad(mdl, 5, rng.New(1))
	require.Error(t, err)
}
