package morphology

import (
	"ndmorph/pkg/ndimage"
	"ndmorph/pkg/strel"
)

// vhgwLine is the van Herk/Gil-Werman algorithm. The walk, extended by k
// identity pixels on both ends, is cut into blocks of the window length k;
// a window then spans the tail of one block and the head of the next, and
// its extreme combines the backward running extreme of the first with the
// forward running extreme of the second.
type vhgwLine[T ndimage.Pixel] struct {
	cmp           Comparator[T]
	ext, fwd, bwd []T
}

func newVHGWLine[T ndimage.Pixel](cmp Comparator[T]) windowOp[T] {
	return &vhgwLine[T]{cmp: cmp}
}

func (v *vhgwLine[T]) window(src, dst []T, lo, hi int) {
	n := len(src)
	k := hi - lo + 1
	if k == 1 {
		for i := range dst {
			if j := i + lo; j >= 0 && j < n {
				dst[i] = src[j]
			} else {
				dst[i] = v.cmp.Identity
			}
		}
		return
	}

	m := n + 2*k
	if cap(v.ext) < m {
		v.ext = make([]T, m)
		v.fwd = make([]T, m)
		v.bwd = make([]T, m)
	}
	ext, fwd, bwd := v.ext[:m], v.fwd[:m], v.bwd[:m]
	for i := range ext {
		ext[i] = v.cmp.Identity
	}
	copy(ext[k:], src)

	for b := 0; b < m; b += k {
		e := min(b+k, m)
		fwd[b] = ext[b]
		for j := b + 1; j < e; j++ {
			fwd[j] = v.cmp.pick(fwd[j-1], ext[j])
		}
		bwd[e-1] = ext[e-1]
		for j := e - 2; j >= b; j-- {
			bwd[j] = v.cmp.pick(bwd[j+1], ext[j])
		}
	}

	for i := range dst {
		s := i + lo + k
		dst[i] = v.cmp.pick(bwd[s], fwd[s+k-1])
	}
}

// VHGWEngine erodes or dilates by a decomposable element with the van
// Herk/Gil-Werman algorithm, one line of the decomposition after the other.
type VHGWEngine[T ndimage.Pixel] struct {
	*lineEngine[T]
}

// NewVHGWEngine creates the vHGW engine. It fails with ErrUnsupportedShape
// when se has no line decomposition.
func NewVHGWEngine[T ndimage.Pixel](se strel.Element, cmp Comparator[T], boundary T) (*VHGWEngine[T], error) {
	le, err := newLineEngine(VHGW, se, cmp, boundary, newVHGWLine[T])
	if err != nil {
		return nil, err
	}
	return &VHGWEngine[T]{le}, nil
}
