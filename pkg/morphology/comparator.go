package morphology

import "ndmorph/pkg/ndimage"

// Comparator selects between erosion and dilation. Better is a strict order
// in which the extreme comes first, BetterOrEqual its reflexive closure, and
// Identity the value no pixel is worse than.
type Comparator[T ndimage.Pixel] struct {
	Better        func(a, b T) bool
	BetterOrEqual func(a, b T) bool
	Identity      T
}

// Erosion returns the comparator computing minima.
func Erosion[T ndimage.Pixel]() Comparator[T] {
	return Comparator[T]{
		Better:        func(a, b T) bool { return a < b },
		BetterOrEqual: func(a, b T) bool { return a <= b },
		Identity:      ndimage.MaxValue[T](),
	}
}

// Dilation returns the comparator computing maxima.
func Dilation[T ndimage.Pixel]() Comparator[T] {
	return Comparator[T]{
		Better:        func(a, b T) bool { return a > b },
		BetterOrEqual: func(a, b T) bool { return a >= b },
		Identity:      ndimage.MinValue[T](),
	}
}

// IsDilation reports whether c computes maxima.
func (c Comparator[T]) IsDilation() bool {
	return c.Better(ndimage.MaxValue[T](), ndimage.MinValue[T]())
}

// Dual returns the comparator of the opposite operation.
func (c Comparator[T]) Dual() Comparator[T] {
	if c.IsDilation() {
		return Erosion[T]()
	}
	return Dilation[T]()
}

func (c Comparator[T]) pick(a, b T) T {
	if c.Better(b, a) {
		return b
	}
	return a
}
