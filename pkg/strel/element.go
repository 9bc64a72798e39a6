// Package strel describes flat structuring elements and their decomposition
// into digital line segments.
//
// An element is either decomposable (Box, Poly), in which case it is the
// Minkowski sum of a list of Lines, or mask based (Ball, Annulus, Cross,
// FromMask). Every element can be rasterized to a boolean mask centred on
// the origin.
package strel

import (
	"fmt"
	"slices"
	"strings"

	"ndmorph/pkg/bresenham"
	"ndmorph/pkg/ndimage"
)

// Kind identifies the shape family of an Element.
type Kind int

const (
	KindBox Kind = iota
	KindBall
	KindPoly
	KindAnnulus
	KindCross
	KindMask
)

var kindNames = [...]string{"box", "ball", "poly", "annulus", "cross", "mask"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Line is one segment of a decomposition: an integer direction reduced by
// the gcd of its components, and the number of pixels it covers.
type Line struct {
	Direction []int
	Length    int
}

// Offsets returns the pixel offsets of the line, centred on the origin.
func (l Line) Offsets() [][]int {
	return bresenham.Trace(l.Direction, l.Length)
}

// Radius returns the per-axis extent of the line.
func (l Line) Radius() []int {
	return bresenham.Radius(l.Direction, l.Length)
}

// Steps returns the absolute value of the dominant component of the
// direction. The line repeats with period Direction every Steps pixels.
func (l Line) Steps() int {
	_, a := bresenham.Dominant(l.Direction)
	return a
}

// Half returns the number of pixels on each side of the centre.
func (l Line) Half() int {
	return (l.Length - 1) / 2
}

func (l Line) String() string {
	return fmt.Sprintf("%v*%d", l.Direction, l.Length)
}

// Element is a flat structuring element. The zero value is not a valid
// element; use one of the constructors.
type Element struct {
	kind   Kind
	radius []int
	lines  []Line
	mask   *ndimage.Image[uint8]
}

// Box returns the rectangle of size 2*radius+1, decomposed into one axis
// aligned line per dimension.
func Box(radius []int) (Element, error) {
	if err := checkRadius(radius); err != nil {
		return Element{}, err
	}
	lines := make([]Line, len(radius))
	for d, r := range radius {
		dir := make([]int, len(radius))
		dir[d] = 1
		lines[d] = Line{Direction: dir, Length: 2*r + 1}
	}
	return Element{kind: KindBox, radius: slices.Clone(radius), lines: lines}, nil
}

// Ball returns the ellipsoid with semi-axes radius+0.5.
func Ball(radius []int) (Element, error) {
	if err := checkRadius(radius); err != nil {
		return Element{}, err
	}
	mask := ndimage.New[uint8](centred(radius))
	for idx := range mask.Region().All() {
		if inEllipsoid(idx, radius) {
			mask.Set(idx, 1)
		}
	}
	return Element{kind: KindBall, radius: slices.Clone(radius), mask: mask}, nil
}

// Annulus returns the shell of the Ball of the given radius whose inner
// boundary lies thickness pixels inside the outer one. The centre pixel is
// added when includeCenter is set.
func Annulus(radius []int, thickness int, includeCenter bool) (Element, error) {
	if err := checkRadius(radius); err != nil {
		return Element{}, err
	}
	if thickness < 1 {
		return Element{}, fmt.Errorf("%w: annulus thickness %d must be positive", ErrShape, thickness)
	}
	inner := make([]int, len(radius))
	hollow := true
	for d, r := range radius {
		inner[d] = r - thickness
		if inner[d] < 0 {
			hollow = false
		}
	}
	mask := ndimage.New[uint8](centred(radius))
	for idx := range mask.Region().All() {
		if inEllipsoid(idx, radius) && !(hollow && inEllipsoid(idx, inner)) {
			mask.Set(idx, 1)
		}
	}
	if includeCenter {
		mask.Set(make([]int, len(radius)), 1)
	}
	return Element{kind: KindAnnulus, radius: slices.Clone(radius), mask: mask}, nil
}

// Cross returns the offsets lying on a single axis within radius.
func Cross(radius []int) (Element, error) {
	if err := checkRadius(radius); err != nil {
		return Element{}, err
	}
	mask := ndimage.New[uint8](centred(radius))
	for idx := range mask.Region().All() {
		nonzero := 0
		for _, v := range idx {
			if v != 0 {
				nonzero++
			}
		}
		if nonzero <= 1 {
			mask.Set(idx, 1)
		}
	}
	return Element{kind: KindCross, radius: slices.Clone(radius), mask: mask}, nil
}

// FromMask builds an element from the pixels of img equal to foreground.
// Every axis of img must have an odd size; its central pixel becomes the
// origin.
func FromMask[T ndimage.Pixel](img *ndimage.Image[T], foreground T) (Element, error) {
	region := img.Region()
	if region.Empty() {
		return Element{}, fmt.Errorf("%w: empty mask image", ErrShape)
	}
	radius := make([]int, region.Dim())
	for d, s := range region.Size {
		if s%2 == 0 {
			return Element{}, fmt.Errorf("%w: mask size %v is not odd along axis %d", ErrShape, region.Size, d)
		}
		radius[d] = (s - 1) / 2
	}
	mask := ndimage.New[uint8](centred(radius))
	src := img.Pix()
	dst := mask.Pix()
	active := 0
	for i, v := range src {
		if v == foreground {
			dst[i] = 1
			active++
		}
	}
	if active == 0 {
		return Element{}, fmt.Errorf("%w: mask has no foreground pixel", ErrShape)
	}
	return Element{kind: KindMask, radius: radius, mask: mask}, nil
}

// Dim returns the number of axes.
func (e Element) Dim() int {
	return len(e.radius)
}

// Kind returns the shape family.
func (e Element) Kind() Kind {
	return e.kind
}

// Radius returns the per-axis radius of the bounding box of the element.
func (e Element) Radius() []int {
	return slices.Clone(e.radius)
}

// IsDecomposable reports whether the element is a sum of lines.
func (e Element) IsDecomposable() bool {
	return e.lines != nil
}

// Lines returns the decomposition of the element.
func (e Element) Lines() ([]Line, error) {
	if !e.IsDecomposable() {
		return nil, fmt.Errorf("%w: %v", ErrNotDecomposable, e.kind)
	}
	out := make([]Line, len(e.lines))
	for i, l := range e.lines {
		out[i] = Line{Direction: slices.Clone(l.Direction), Length: l.Length}
	}
	return out, nil
}

// Rasterize returns the element as a mask image covering [-radius, radius]
// in which active offsets hold 1. Decomposable elements are rasterized by
// summing their lines.
func (e Element) Rasterize() *ndimage.Image[uint8] {
	if e.mask != nil {
		return e.mask.Clone()
	}
	return minkowski(e.lines, e.radius)
}

// Offsets returns the active offsets of the element in storage order.
func (e Element) Offsets() [][]int {
	mask := e.Rasterize()
	var out [][]int
	for idx := range mask.Region().All() {
		if mask.At(idx) != 0 {
			out = append(out, slices.Clone(idx))
		}
	}
	return out
}

// NumActive returns the number of active offsets.
func (e Element) NumActive() int {
	n := 0
	for _, v := range e.Rasterize().Pix() {
		if v != 0 {
			n++
		}
	}
	return n
}

// Reflect returns the point reflection of the element through the origin.
// Decomposable elements are symmetric and returned unchanged.
func (e Element) Reflect() Element {
	if e.mask == nil {
		return e
	}
	mask := e.mask.Clone()
	slices.Reverse(mask.Pix())
	return Element{kind: e.kind, radius: slices.Clone(e.radius), mask: mask}
}

func (e Element) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v%v", e.kind, e.radius)
	if e.lines != nil {
		b.WriteString(" lines=[")
		for i, l := range e.lines {
			if i > 0 {
				b.WriteString(" ")
			}
			b.WriteString(l.String())
		}
		b.WriteString("]")
	}
	return b.String()
}

func checkRadius(radius []int) error {
	if len(radius) == 0 {
		return fmt.Errorf("%w: radius has no axis", ErrShape)
	}
	for d, r := range radius {
		if r <= 0 {
			return fmt.Errorf("%w: radius %v is not positive along axis %d", ErrShape, radius, d)
		}
	}
	return nil
}

// centred returns the region [-radius, radius].
func centred(radius []int) ndimage.Region {
	index := make([]int, len(radius))
	size := make([]int, len(radius))
	for d, r := range radius {
		index[d] = -r
		size[d] = 2*r + 1
	}
	return ndimage.NewRegion(index, size)
}

// inEllipsoid reports whether idx lies in the ellipsoid of semi-axes
// radius+0.5.
func inEllipsoid(idx, radius []int) bool {
	sum := 0.0
	for d, v := range idx {
		a := float64(radius[d]) + 0.5
		sum += float64(v) * float64(v) / (a * a)
	}
	return sum <= 1
}

// minkowski rasterizes the sum of the lines into a mask of the given radius.
func minkowski(lines []Line, radius []int) *ndimage.Image[uint8] {
	region := centred(radius)
	cur := ndimage.New[uint8](region)
	cur.Set(make([]int, len(radius)), 1)
	p := make([]int, len(radius))
	for _, l := range lines {
		next := ndimage.New[uint8](region)
		offsets := l.Offsets()
		for idx := range region.All() {
			if cur.At(idx) == 0 {
				continue
			}
			for _, o := range offsets {
				for d := range p {
					p[d] = idx[d] + o[d]
				}
				next.Set(p, 1)
			}
		}
		cur = next
	}
	return cur
}
