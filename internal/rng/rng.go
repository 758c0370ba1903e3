// Package rng supplies the random-number contract consumed by the sampler
// and ADVI packages: a uniform [0,1) draw and a standard-normal draw.
package rng

import "math/rand"

// Source is the RNG contract the rest of this module depends on. Callers
// own the Source; samplers never construct or seed one themselves.
type Source interface {
	Uniform() float64
	Normal() float64
}

// Default wraps math/rand, matching the teacher's own use of math/rand for
// scalar randomness throughout its simulation packages.
type Default struct {
	r *rand.Rand
}

// New returns a Default seeded deterministically from seed.
func New(seed int64) *Default {
	return &Default{r: rand.New(rand.NewSource(seed))}
}

func (d *Default) Uniform() float64 { return d.r.Float64() }
func (d *Default) Normal() float64  { return d.r.NormFloat64() }
