// Package ndimage provides the N-dimensional scalar image model used by the
// morphology engines.
//
// Images are stored in a single flat slice with axis 0 varying fastest, the
// same row-major layout the volume code used for (x, y, z) data, generalised
// to any number of axes. Every image carries a Region: the origin index and
// the extent along each axis. Indexes are absolute, so a cropped image keeps
// the coordinates it had inside its parent.
package ndimage

import (
	"fmt"
	"iter"
	"slices"
	"strings"
)

// Region is an axis-aligned box of the index space, described by the index of
// its first pixel and its extent along each axis.
type Region struct {
	// Index is the smallest index contained in the region.
	Index []int

	// Size is the number of pixels along each axis.
	Size []int
}

// NewRegion creates a region from an origin and a size. Both slices are
// copied and must have the same length.
func NewRegion(index, size []int) Region {
	if len(index) != len(size) {
		panic(fmt.Sprintf("ndimage: index has %d axes, size has %d", len(index), len(size)))
	}
	return Region{Index: slices.Clone(index), Size: slices.Clone(size)}
}

// RegionOfSize creates a region with the given size anchored at the origin.
func RegionOfSize(size ...int) Region {
	return Region{Index: make([]int, len(size)), Size: slices.Clone(size)}
}

// Dim returns the number of axes.
func (r Region) Dim() int {
	return len(r.Size)
}

// NumPixels returns the number of pixels covered by the region.
func (r Region) NumPixels() int {
	if len(r.Size) == 0 {
		return 0
	}
	n := 1
	for _, s := range r.Size {
		if s <= 0 {
			return 0
		}
		n *= s
	}
	return n
}

// Empty reports whether the region contains no pixel.
func (r Region) Empty() bool {
	return r.NumPixels() == 0
}

// Upper returns the largest index along axis that is still inside the region.
func (r Region) Upper(axis int) int {
	return r.Index[axis] + r.Size[axis] - 1
}

// Contains reports whether idx lies inside the region.
func (r Region) Contains(idx []int) bool {
	if len(idx) != len(r.Index) {
		return false
	}
	for d, v := range idx {
		if v < r.Index[d] || v >= r.Index[d]+r.Size[d] {
			return false
		}
	}
	return true
}

// IsInside reports whether r is entirely contained in other.
func (r Region) IsInside(other Region) bool {
	if r.Dim() != other.Dim() || r.Empty() {
		return false
	}
	for d := range r.Size {
		if r.Index[d] < other.Index[d] || r.Upper(d) > other.Upper(d) {
			return false
		}
	}
	return true
}

// Intersect returns the overlap of r and other. The result may be empty.
func (r Region) Intersect(other Region) Region {
	out := Region{Index: make([]int, r.Dim()), Size: make([]int, r.Dim())}
	for d := range r.Size {
		lo := max(r.Index[d], other.Index[d])
		hi := min(r.Upper(d), other.Upper(d))
		out.Index[d] = lo
		out.Size[d] = max(0, hi-lo+1)
	}
	return out
}

// Pad grows the region by radius[d] pixels on both sides of every axis d.
// Negative radii shrink it.
func (r Region) Pad(radius []int) Region {
	out := r.Clone()
	for d := range out.Size {
		out.Index[d] -= radius[d]
		out.Size[d] += 2 * radius[d]
		if out.Size[d] < 0 {
			out.Size[d] = 0
		}
	}
	return out
}

// Shrink is Pad with the radius negated.
func (r Region) Shrink(radius []int) Region {
	neg := make([]int, len(radius))
	for d, v := range radius {
		neg[d] = -v
	}
	return r.Pad(neg)
}

// Equal reports whether both regions cover the same pixels with the same
// number of axes.
func (r Region) Equal(other Region) bool {
	return slices.Equal(r.Index, other.Index) && slices.Equal(r.Size, other.Size)
}

// Clone returns a deep copy of the region.
func (r Region) Clone() Region {
	return Region{Index: slices.Clone(r.Index), Size: slices.Clone(r.Size)}
}

// All iterates over every index of the region in storage order, axis 0
// varying fastest. The yielded slice is reused between iterations and must
// be copied to be retained.
func (r Region) All() iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		if r.Empty() {
			return
		}
		idx := slices.Clone(r.Index)
		for {
			if !yield(idx) {
				return
			}
			d := 0
			for ; d < len(idx); d++ {
				idx[d]++
				if idx[d] < r.Index[d]+r.Size[d] {
					break
				}
				idx[d] = r.Index[d]
			}
			if d == len(idx) {
				return
			}
		}
	}
}

func (r Region) String() string {
	var b strings.Builder
	b.WriteString("[")
	for d := range r.Size {
		if d > 0 {
			b.WriteString(" x ")
		}
		fmt.Fprintf(&b, "%d:%d", r.Index[d], r.Index[d]+r.Size[d])
	}
	b.WriteString("]")
	return b.String()
}
