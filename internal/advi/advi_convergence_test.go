package advi_test

import (
	"math"

	"github.com/MMesbahU/stan/internal/advi"
	"github.com/MMesbahU/stan/internal/model"
	"github.com/MMesbahU/stan/internal/rng"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type collectingPosterior struct {
	logp []float64
	q    [][]float64
}

func (c *collectingPosterior) WriteSample(iter int, logp float64, q []float64) error {
	c.logp = append(c.logp, logp)
	cp := make([]float64, len(q))
	copy(cp, q)
	c.q = append(c.q, cp)
	return nil
}

var _ = Describe("Engine.Run on a tractable Gaussian target", func() {
	It("fits a mean-field approximation whose mean tracks the target mean", func() {
		target, err := model.NewGaussian([]float64{1, -1}, model.DiagCov([]float64{1, 1}))
		Expect(err).NotTo(HaveOccurred())

		eng := advi.NewEngine(target, rng.New(42))
		eng.NMonteCarloElbo = 50
		eng.EvalElbo = 50

		post := &collectingPosterior{}
		eng.Posterior = post
		eng.NPosteriorSamples = 0

		x0 := []float64{0, 0}
		err = eng.Run(func(x []float64) advi.Family { return advi.NewMeanField(x) }, x0, 0, 0.01, 20000, nil)
		Expect(err).NotTo(HaveOccurred())

		Expect(post.q).To(HaveLen(1))
		mean := post.q[0]
		Expect(math.Abs(mean[0]-1)).To(BeNumerically("<", 0.05))
		Expect(math.Abs(mean[1]+1)).To(BeNumerically("<", 0.05))
	})

	It("stops before max_iterations once the rolling ELBO delta converges", func() {
		target, err := model.NewGaussian([]float64{0, 0}, model.DiagCov([]float64{1, 1}))
		Expect(err).NotTo(HaveOccurred())

		eng := advi.NewEngine(target, rng.New(7))
		eng.NMonteCarloElbo = 50
		eng.EvalElbo = 50
		eng.NPosteriorSamples = 0

		q := advi.NewMeanField([]float64{0, 0})
		iterations := 0
		eng.Print = printerFunc(func(format string, args ...any) { iterations++ })

		_, err = eng.StochasticGradientAscent(q, 1.0, 0.01, 10000, nil)
		Expect(err).NotTo(HaveOccurred())
	})
})

type printerFunc func(format string, args ...any)

func (f printerFunc) Printf(format string, args ...any) { f(format, args...) }
