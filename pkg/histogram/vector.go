package histogram

import "ndmorph/pkg/ndimage"

// Vector is a histogram backed by one counter per representable value. It
// only serves types with a small value range and keeps a cursor on the
// current extreme, so updates are amortised constant time.
type Vector[T ndimage.Pixel] struct {
	better   func(a, b T) bool
	boundary T

	counts []int
	offset int // index of value v is int(v) - offset

	cursor int // index of the current extreme
	start  int // cursor position of an empty histogram
	step   int // direction the cursor moves when its bucket empties
}

// NewVector creates a counting histogram. It panics when T is not an 8 or 16
// bit integer type.
func NewVector[T ndimage.Pixel](better func(a, b T) bool, boundary T) *Vector[T] {
	if !ndimage.IsSmallInteger[T]() {
		panic("histogram: vector backend needs an 8 or 16 bit integer pixel type")
	}
	lo, hi := ndimage.MinValue[T](), ndimage.MaxValue[T]()
	h := &Vector[T]{
		better:   better,
		boundary: boundary,
		counts:   make([]int, int(hi)-int(lo)+1),
		offset:   int(lo),
	}
	if better(hi, lo) {
		// max histogram: empty buckets push the cursor down
		h.start, h.step = 0, -1
	} else {
		h.start, h.step = len(h.counts)-1, 1
	}
	h.cursor = h.start
	return h
}

func (h *Vector[T]) AddPixel(v T) {
	i := int(v) - h.offset
	h.counts[i]++
	if h.better(v, T(h.cursor+h.offset)) {
		h.cursor = i
	}
}

func (h *Vector[T]) RemovePixel(v T) {
	h.counts[int(v)-h.offset]--
	// walk towards the worst end until a filled bucket is found
	for h.counts[h.cursor] == 0 {
		next := h.cursor + h.step
		if next < 0 || next >= len(h.counts) {
			break
		}
		h.cursor = next
	}
}

func (h *Vector[T]) AddBoundary()    { h.AddPixel(h.boundary) }
func (h *Vector[T]) RemoveBoundary() { h.RemovePixel(h.boundary) }
func (h *Vector[T]) SetBoundary(v T) { h.boundary = v }

func (h *Vector[T]) Reset() {
	clear(h.counts)
	h.cursor = h.start
}

func (h *Vector[T]) Extreme() T {
	if h.counts[h.cursor] == 0 {
		return worst(h.better)
	}
	return T(h.cursor + h.offset)
}
