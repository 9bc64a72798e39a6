package ndimage

import (
	"fmt"
	"image"
	"image/color"
)

// FromGray converts a standard library 8-bit grayscale image into a 2-D
// Image. Axis 0 is x and axis 1 is y; the region keeps the image bounds.
func FromGray(img *image.Gray) *Image[uint8] {
	b := img.Bounds()
	out := New[uint8](NewRegion([]int{b.Min.X, b.Min.Y}, []int{b.Dx(), b.Dy()}))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):]
		dst := out.pix[(y-b.Min.Y)*out.strides[1]:]
		copy(dst[:b.Dx()], row[:b.Dx()])
	}
	return out
}

// ToGray converts a 2-D uint8 image back to an *image.Gray with the same
// bounds.
func ToGray(m *Image[uint8]) (*image.Gray, error) {
	if m.Dim() != 2 {
		return nil, fmt.Errorf("cannot convert %d-D image to image.Gray", m.Dim())
	}
	r := m.region
	img := image.NewGray(image.Rect(r.Index[0], r.Index[1], r.Index[0]+r.Size[0], r.Index[1]+r.Size[1]))
	for y := 0; y < r.Size[1]; y++ {
		copy(img.Pix[y*img.Stride:y*img.Stride+r.Size[0]], m.pix[y*m.strides[1]:])
	}
	return img, nil
}

// FromGray16 converts a 16-bit grayscale image into a 2-D Image.
func FromGray16(img *image.Gray16) *Image[uint16] {
	b := img.Bounds()
	out := New[uint16](NewRegion([]int{b.Min.X, b.Min.Y}, []int{b.Dx(), b.Dy()}))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out.Set([]int{x, y}, img.Gray16At(x, y).Y)
		}
	}
	return out
}

// ToGray16 converts a 2-D uint16 image to an *image.Gray16.
func ToGray16(m *Image[uint16]) (*image.Gray16, error) {
	if m.Dim() != 2 {
		return nil, fmt.Errorf("cannot convert %d-D image to image.Gray16", m.Dim())
	}
	r := m.region
	img := image.NewGray16(image.Rect(r.Index[0], r.Index[1], r.Index[0]+r.Size[0], r.Index[1]+r.Size[1]))
	for idx := range r.All() {
		img.SetGray16(idx[0], idx[1], color.Gray16{Y: m.At(idx)})
	}
	return img, nil
}
