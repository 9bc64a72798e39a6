package histogram

import (
	"github.com/google/btree"

	"ndmorph/pkg/ndimage"
)

type bucket[T ndimage.Pixel] struct {
	value T
	count int
}

// OrderedMap is a histogram backed by a B-tree of value counts, ordered so
// that the best value comes first. It serves every pixel type.
//
// Removing a value only decrements its count; buckets that reach zero stay
// in the tree until an Extreme query finds them at the front.
type OrderedMap[T ndimage.Pixel] struct {
	better   func(a, b T) bool
	boundary T
	tree     *btree.BTreeG[*bucket[T]]
	lookup   bucket[T]
}

// NewOrderedMap creates an ordered map histogram.
func NewOrderedMap[T ndimage.Pixel](better func(a, b T) bool, boundary T) *OrderedMap[T] {
	return &OrderedMap[T]{
		better:   better,
		boundary: boundary,
		tree: btree.NewG(16, func(a, b *bucket[T]) bool {
			return better(a.value, b.value)
		}),
	}
}

func (h *OrderedMap[T]) AddPixel(v T) {
	h.lookup.value = v
	if b, ok := h.tree.Get(&h.lookup); ok {
		b.count++
		return
	}
	h.tree.ReplaceOrInsert(&bucket[T]{value: v, count: 1})
}

func (h *OrderedMap[T]) RemovePixel(v T) {
	h.lookup.value = v
	if b, ok := h.tree.Get(&h.lookup); ok {
		b.count--
	}
}

func (h *OrderedMap[T]) AddBoundary() { h.AddPixel(h.boundary) }

func (h *OrderedMap[T]) RemoveBoundary() { h.RemovePixel(h.boundary) }

func (h *OrderedMap[T]) SetBoundary(v T) { h.boundary = v }

func (h *OrderedMap[T]) Reset() {
	h.tree.Clear(true)
}

func (h *OrderedMap[T]) Extreme() T {
	for {
		b, ok := h.tree.Min()
		if !ok {
			return worst(h.better)
		}
		if b.count > 0 {
			return b.value
		}
		h.tree.DeleteMin()
	}
}

// Len returns the number of buckets in the tree, including emptied buckets
// not yet pruned.
func (h *OrderedMap[T]) Len() int {
	return h.tree.Len()
}
