package morphology

import (
	"slices"

	"ndmorph/pkg/ndimage"
	"ndmorph/pkg/strel"
)

// NaiveEngine folds the comparator over every active offset of the element
// for every output pixel.
type NaiveEngine[T ndimage.Pixel] struct {
	offsets  [][]int
	radius   []int
	cmp      Comparator[T]
	boundary T
}

// NewNaiveEngine creates the brute force engine. It accepts any element.
func NewNaiveEngine[T ndimage.Pixel](se strel.Element, cmp Comparator[T], boundary T) *NaiveEngine[T] {
	se = reflectFor(se, cmp)
	return &NaiveEngine[T]{
		offsets:  se.Offsets(),
		radius:   se.Radius(),
		cmp:      cmp,
		boundary: boundary,
	}
}

func (e *NaiveEngine[T]) ProcessRegion(in, out *ndimage.Image[T], region ndimage.Region) error {
	if err := checkRegion(in, out, region); err != nil {
		return err
	}
	bounds := in.Region()
	inner := bounds.Shrink(e.radius)
	pix := in.Pix()
	strides := in.Strides()
	deltas := make([]int, len(e.offsets))
	for i, o := range e.offsets {
		deltas[i] = stepOffset(strides, o)
	}

	p := make([]int, region.Dim())
	for idx := range region.All() {
		acc := e.cmp.Identity
		if inner.Contains(idx) {
			base := in.Offset(idx)
			for _, d := range deltas {
				acc = e.cmp.pick(acc, pix[base+d])
			}
		} else {
			for _, o := range e.offsets {
				for d := range p {
					p[d] = idx[d] + o[d]
				}
				v := e.boundary
				if bounds.Contains(p) {
					v = in.At(p)
				}
				acc = e.cmp.pick(acc, v)
			}
		}
		out.Set(idx, acc)
	}
	return nil
}

// Offsets returns the offsets scanned for every pixel.
func (e *NaiveEngine[T]) Offsets() [][]int {
	out := make([][]int, len(e.offsets))
	for i, o := range e.offsets {
		out[i] = slices.Clone(o)
	}
	return out
}
