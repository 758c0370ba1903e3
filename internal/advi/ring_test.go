package advi

import "testing"

func TestRingMeanAndMedian(t *testing.T) {
	r := newRing(3)
	r.Push(1)
	r.Push(2)
	r.Push(3)

	if got := r.Mean(); got != 2 {
		t.Fatalf("Mean() = %v, want 2", got)
	}
	if got := r.Median(); got != 2 {
		t.Fatalf("Median() = %v, want 2", got)
	}

	// Pushing a 4th value overwrites the oldest (1), leaving {2,3,4}.
	r.Push(4)
	if got := r.Mean(); got != 3 {
		t.Fatalf("Mean() after overwrite = %v, want 3", got)
	}
}

func TestRingCapacityAtLeastOne(t *testing.T) {
	r := newRing(0)
	r.Push(5)
	if got := r.Mean(); got != 5 {
		t.Fatalf("Mean() = %v, want 5", got)
	}
}
