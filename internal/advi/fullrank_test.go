package advi

import (
	"math"
	"testing"

	"github.com/MMesbahU/stan/internal/model"
	"github.com/MMesbahU/stan/internal/rng"
	"github.com/stretchr/testify/require"
)

func TestFullRankSampleHasTargetShape(t *testing.T) {
	q := NewFullRank([]float64{1, 2, 3})
	zeta := q.Sample(rng.New(1))
	require.Len(t, zeta, 3)
}

func TestFullRankEntropyOfIdentityScale(t *testing.T) {
	q := NewFullRank([]float64{0, 0})
	// L = I, so entropy is exactly the standard bivariate normal's.
	require.InDelta(t, 1.0*math.Log(2*math.Pi*math.E), q.Entropy(), 1e-9)
}

func TestFullRankCalcGradMatchesDimension(t *testing.T) {
	gauss, err := model.NewGaussian([]float64{0, 0}, model.DiagCov([]float64{1, 1}))
	require.NoError(t, err)

	q := NewFullRank([]float64{0, 0})
	g, err := q.CalcGrad(gauss, 2000, rng.New(9))
	require.NoError(t, err)

	fr := g.(*FullRank)
	require.Len(t, fr.Mu, 2)
}

func TestFullRankElementwiseOpsTouchOnlyLowerTriangle(t *testing.T) {
	q := NewFullRank([]float64{0, 0})
	sq := q.Square().(*FullRank)

	require.Equal(t, 1.0, sq.L.At(0, 0))
	require.Equal(t, 1.0, sq.L.At(1, 1))
	require.Equal(t, 0.0, sq.L.At(1, 0))
	require.Equal(t, 0.0, sq.L.At(0, 1))
}
