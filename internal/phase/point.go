package phase

import (
	"math"

	"github.com/MMesbahU/stan/internal/model"
)

// Point is the HMC phase-space state: position q, momentum p, the cached
// potential V = -log pi(q), and its gradient G = -grad log pi(q).
//
// Owned by the sampler; a Point is only ever copied by value for rollback,
// never aliased, per the copy-on-rollback design note.
type Point struct {
	Q Vec
	P Vec
	V float64
	G Vec
}

// NewPoint allocates a Point of dimension n with all buffers pre-sized, so
// no allocation is needed once sampling begins.
func NewPoint(n int) *Point {
	return &Point{
		Q: make(Vec, n),
		P: make(Vec, n),
		G: make(Vec, n),
	}
}

// Clone returns a value-copy snapshot suitable for rollback on rejection.
func (pt *Point) Clone() Point {
	return Point{Q: pt.Q.Clone(), P: pt.P.Clone(), V: pt.V, G: pt.G.Clone()}
}

// Restore overwrites pt in place from a previously taken snapshot, without
// allocating new backing arrays.
func (pt *Point) Restore(snap Point) {
	copy(pt.Q, snap.Q)
	copy(pt.P, snap.P)
	copy(pt.G, snap.G)
	pt.V = snap.V
}

// InitPotential evaluates V and G at pt.Q from the model, caching both on
// the point.
func (pt *Point) InitPotential(m model.LogDensityModel) error {
	logp, err := m.LogDensity(pt.Q)
	if err != nil {
		return err
	}
	pt.V = -logp
	if err := m.Gradient(pt.Q, pt.G); err != nil {
		return err
	}
	for i := range pt.G {
		pt.G[i] = -pt.G[i]
	}
	return nil
}

// IsValid reports whether q, p, V and g are all finite.
func (pt *Point) IsValid() bool {
	return pt.Q.IsValid() && pt.P.IsValid() && pt.G.IsValid() &&
		!math.IsNaN(pt.V) && !math.IsInf(pt.V, 0)
}
