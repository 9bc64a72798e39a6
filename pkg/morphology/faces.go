package morphology

import "ndmorph/pkg/ndimage"

// Faces returns the pixels x of region for which x-step lies outside
// region, as disjoint boxes. Walking from each of these pixels by step until
// leaving region visits every pixel of region exactly once.
//
// The face of an axis with a non-zero component is the slab of |step| pixels
// on the side the walk enters from, minus the slabs of the axes before it.
func Faces(region ndimage.Region, step []int) []ndimage.Region {
	var faces []ndimage.Region
	rest := region.Clone()
	for d, s := range step {
		if s == 0 {
			continue
		}
		w := min(abs(s), region.Size[d])
		face := rest.Clone()
		face.Size[d] = w
		if s > 0 {
			face.Index[d] = region.Index[d]
			rest.Index[d] = region.Index[d] + w
		} else {
			face.Index[d] = region.Upper(d) - w + 1
		}
		rest.Size[d] = region.Size[d] - w
		if !face.Empty() {
			faces = append(faces, face)
		}
		if rest.Size[d] == 0 {
			break
		}
	}
	return faces
}

// sequenceLength returns the number of pixels visited from idx by repeated
// steps before leaving region.
func sequenceLength(region ndimage.Region, idx, step []int) int {
	n := -1
	for d, s := range step {
		var k int
		switch {
		case s > 0:
			k = (region.Upper(d)-idx[d])/s + 1
		case s < 0:
			k = (idx[d]-region.Index[d])/(-s) + 1
		default:
			continue
		}
		if n < 0 || k < n {
			n = k
		}
	}
	return n
}

// sequences calls fn for every walk by step through region, with the
// starting index, its offset in a pixel slice of the given strides and the
// walk length.
func sequences(region ndimage.Region, strides, step []int, fn func(idx []int, start, n int)) {
	for _, face := range Faces(region, step) {
		for idx := range face.All() {
			start := 0
			for d, v := range idx {
				start += (v - region.Index[d]) * strides[d]
			}
			fn(idx, start, sequenceLength(region, idx, step))
		}
	}
}

// stepRange returns the interval [lo, hi] of k for which idx + k*step lies
// inside domain. The interval is empty when lo > hi.
func stepRange(domain ndimage.Region, idx, step []int) (lo, hi int) {
	lo, hi = minInt, maxInt
	for d, s := range step {
		a, b := domain.Index[d]-idx[d], domain.Upper(d)-idx[d]
		switch {
		case s > 0:
			lo = max(lo, ceilDiv(a, s))
			hi = min(hi, floorDiv(b, s))
		case s < 0:
			lo = max(lo, ceilDiv(b, s))
			hi = min(hi, floorDiv(a, s))
		default:
			if a > 0 || b < 0 {
				return 1, 0
			}
		}
	}
	return lo, hi
}

const (
	maxInt = int(^uint(0) >> 1)
	minInt = -maxInt - 1
)

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func ceilDiv(a, b int) int {
	return -floorDiv(-a, b)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
