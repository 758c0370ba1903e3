package advi

import (
	"fmt"
	"math"

	"github.com/MMesbahU/stan/internal/model"
	"github.com/MMesbahU/stan/internal/rng"
)

// ELBO estimates the Evidence Lower Bound of q against mdl by Monte
// Carlo: draw nElbo samples, average the log-density, add q's entropy.
// A draw whose log-density is non-finite or errors is dropped and
// counted; once the drop count reaches nElbo the estimate can no longer
// be trusted and ELBO fails with a domain error naming the limit,
// mirroring calc_ELBO's "severely ill-conditioned or misspecified"
// guard.
func ELBO(q Family, mdl model.LogDensityModel, nElbo int, src rng.Source) (float64, error) {
	sum := 0.0
	valid := 0
	dropped := 0

	for valid < nElbo {
		zeta := q.Sample(src)
		e, err := mdl.LogDensity(zeta)
		if err != nil || math.IsNaN(e) || math.IsInf(e, 0) {
			dropped++
			if dropped >= nElbo {
				return 0, &model.DomainError{
					Op:      "advi.ELBO",
					Message: fmt.Sprintf("the number of dropped evaluations has reached its maximum amount (%d); the model may be severely ill-conditioned or misspecified", nElbo),
				}
			}
			continue
		}
		sum += e
		valid++
	}

	return sum/float64(nElbo) + q.Entropy(), nil
}
