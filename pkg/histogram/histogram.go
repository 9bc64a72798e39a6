// Package histogram implements the running multisets used by the moving
// window morphology engines.
//
// A histogram is built for one comparator: Extreme returns the value that is
// better than every other value it holds (the minimum for erosion, the
// maximum for dilation). An empty histogram reports the worst representable
// value, which is the identity of the comparator.
package histogram

import "ndmorph/pkg/ndimage"

// Histogram is a multiset of pixel values with a constant-time or
// logarithmic-time extreme query.
type Histogram[T ndimage.Pixel] interface {
	// AddPixel inserts one occurrence of v.
	AddPixel(v T)

	// RemovePixel deletes one occurrence of v, which must be present.
	RemovePixel(v T)

	// AddBoundary inserts one occurrence of the boundary value.
	AddBoundary()

	// RemoveBoundary deletes one occurrence of the boundary value.
	RemoveBoundary()

	// SetBoundary sets the value used for out-of-image neighbours.
	SetBoundary(v T)

	// Reset empties the histogram. The boundary value is kept.
	Reset()

	// Extreme returns the best value currently held.
	Extreme() T
}

// New returns the histogram best suited to T: a counting vector for 8 and 16
// bit integers, an ordered map otherwise.
func New[T ndimage.Pixel](better func(a, b T) bool, boundary T) Histogram[T] {
	if ndimage.IsSmallInteger[T]() {
		return NewVector(better, boundary)
	}
	return NewOrderedMap(better, boundary)
}

// worst returns the identity of better: the extreme value of T that no other
// value is worse than.
func worst[T ndimage.Pixel](better func(a, b T) bool) T {
	lo, hi := ndimage.MinValue[T](), ndimage.MaxValue[T]()
	if better(hi, lo) {
		return lo
	}
	return hi
}
