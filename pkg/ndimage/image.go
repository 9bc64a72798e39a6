package ndimage

import (
	"fmt"
	"slices"
)

// Image is an N-dimensional array of scalar pixels covering a Region.
//
// Pixels are stored contiguously with axis 0 varying fastest. The zero value
// is not usable; create images with New or FromSlice.
type Image[T Pixel] struct {
	region  Region
	strides []int
	pix     []T
}

// New allocates a zero-filled image covering region.
func New[T Pixel](region Region) *Image[T] {
	r := region.Clone()
	return &Image[T]{
		region:  r,
		strides: stridesOf(r.Size),
		pix:     make([]T, r.NumPixels()),
	}
}

// FromSlice wraps pix as the pixel data of an image covering region. The
// slice is used directly, not copied.
func FromSlice[T Pixel](region Region, pix []T) (*Image[T], error) {
	if n := region.NumPixels(); n != len(pix) {
		return nil, fmt.Errorf("region %v holds %d pixels, got %d values", region, n, len(pix))
	}
	r := region.Clone()
	return &Image[T]{region: r, strides: stridesOf(r.Size), pix: pix}, nil
}

func stridesOf(size []int) []int {
	strides := make([]int, len(size))
	s := 1
	for d, n := range size {
		strides[d] = s
		s *= n
	}
	return strides
}

// Region returns a copy of the region covered by the image.
func (m *Image[T]) Region() Region {
	return m.region.Clone()
}

// Dim returns the number of axes.
func (m *Image[T]) Dim() int {
	return m.region.Dim()
}

// Strides returns the distance in the pixel slice between neighbours along
// each axis.
func (m *Image[T]) Strides() []int {
	return slices.Clone(m.strides)
}

// Offset returns the position of idx in the pixel slice. idx must be inside
// the image region.
func (m *Image[T]) Offset(idx []int) int {
	off := 0
	for d, v := range idx {
		off += (v - m.region.Index[d]) * m.strides[d]
	}
	return off
}

// At returns the pixel at idx.
func (m *Image[T]) At(idx []int) T {
	return m.pix[m.Offset(idx)]
}

// Set stores v at idx.
func (m *Image[T]) Set(idx []int, v T) {
	m.pix[m.Offset(idx)] = v
}

// Pix returns the underlying pixel slice.
func (m *Image[T]) Pix() []T {
	return m.pix
}

// Fill sets every pixel to v.
func (m *Image[T]) Fill(v T) {
	for i := range m.pix {
		m.pix[i] = v
	}
}

// Clone returns a deep copy of the image.
func (m *Image[T]) Clone() *Image[T] {
	return &Image[T]{
		region:  m.region.Clone(),
		strides: slices.Clone(m.strides),
		pix:     slices.Clone(m.pix),
	}
}

// Crop returns a copy of the pixels inside region, which must lie inside the
// image.
func (m *Image[T]) Crop(region Region) (*Image[T], error) {
	if !region.IsInside(m.region) {
		return nil, fmt.Errorf("crop region %v is not inside image region %v", region, m.region)
	}
	out := New[T](region)
	out.CopyFrom(m, region)
	return out, nil
}

// Pad returns a copy of the image enlarged by radius[d] pixels on both sides
// of every axis, the new pixels set to value.
func (m *Image[T]) Pad(radius []int, value T) *Image[T] {
	out := New[T](m.region.Pad(radius))
	out.Fill(value)
	out.CopyFrom(m, m.region)
	return out
}

// CopyFrom copies the pixels of src inside region into m. Only the part of
// region covered by both images is copied.
func (m *Image[T]) CopyFrom(src *Image[T], region Region) {
	r := region.Intersect(m.region).Intersect(src.region)
	if r.Empty() {
		return
	}
	// copy whole runs along axis 0
	run := r.Size[0]
	rows := r.Clone()
	rows.Size[0] = 1
	for idx := range rows.All() {
		so := src.Offset(idx)
		do := m.Offset(idx)
		copy(m.pix[do:do+run], src.pix[so:so+run])
	}
}

// Equal reports whether both images cover the same region with the same
// pixel values.
func (m *Image[T]) Equal(other *Image[T]) bool {
	return m.region.Equal(other.region) && slices.Equal(m.pix, other.pix)
}
