package model

// DoubleWell is a one-dimensional bistable target, logp(x) = -A(x^2-B)^2,
// adapted from the teacher's physics.DoubleWell potential A(x^2-B)^2 (there
// a mechanical potential energy; here the negative log-density of a
// bimodal posterior). Supplements spec.md's Gaussian scenarios with a
// harder target that exercises NUTS's divergence handling.
type DoubleWell struct {
	A, B float64
}

func NewDoubleWell() *DoubleWell {
	return &DoubleWell{A: 1.0, B: 1.0}
}

func (d *DoubleWell) NumParamsR() int { return 1 }

func (d *DoubleWell) LogDensity(q []float64) (float64, error) {
	x := q[0]
	return -d.A * (x*x - d.B) * (x*x - d.B), nil
}

func (d *DoubleWell) Gradient(q []float64, grad []float64) error {
	x := q[0]
	grad[0] = -4 * d.A * x * (x*x - d.B)
	return nil
}
