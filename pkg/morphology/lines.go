package morphology

import (
	"fmt"

	"ndmorph/pkg/bresenham"
	"ndmorph/pkg/ndimage"
	"ndmorph/pkg/strel"
)

// windowOp computes running extremes along one sequence of pixels:
// dst[i] is the extreme of src over [i+lo, i+hi], positions outside src
// being ignored.
type windowOp[T ndimage.Pixel] interface {
	window(src, dst []T, lo, hi int)
}

// linePass applies the erosion or dilation by single lines to a buffer
// image, in place. A line whose dominant component a is larger than one
// is the union of a periodic sub-lines, one per residue of the position
// along the line modulo a; each sub-line is a forward window along walks
// stepping by the full direction vector, shifted by its first pixel.
type linePass[T ndimage.Pixel] struct {
	cmp Comparator[T]
	op  windowOp[T]

	src, dst []T
	tmp, acc *ndimage.Image[T]
}

func newLinePass[T ndimage.Pixel](cmp Comparator[T], op windowOp[T]) *linePass[T] {
	return &linePass[T]{cmp: cmp, op: op}
}

func (p *linePass[T]) scratch(n int) ([]T, []T) {
	if cap(p.src) < n {
		p.src = make([]T, n)
		p.dst = make([]T, n)
	}
	return p.src[:n], p.dst[:n]
}

// apply replaces buf by its erosion or dilation by l. Pixels closer to the
// buffer edge than the line radius are not exact.
func (p *linePass[T]) apply(buf *ndimage.Image[T], l strel.Line) {
	h, a := l.Half(), l.Steps()
	if h == 0 {
		return
	}
	if a == 1 {
		p.walk(buf, buf, l.Direction, -h, h)
		return
	}

	region := buf.Region()
	if p.acc == nil || !p.acc.Region().Equal(region) {
		p.acc = ndimage.New[T](region)
		p.tmp = ndimage.New[T](region)
	}
	p.acc.Fill(p.cmp.Identity)
	for s := 0; s < a; s++ {
		lo, hi := ceilDiv(-h-s, a), floorDiv(h-s, a)
		if lo > hi {
			continue
		}
		// window anchored on the first pixel of residue s on the line
		p.walk(buf, p.tmp, l.Direction, 0, hi-lo)
		p.combine(p.acc, p.tmp, bresenham.Point(l.Direction, s+lo*a))
	}
	copy(buf.Pix(), p.acc.Pix())
}

// walk runs the window operator along every walk by step through in and
// stores the result in out, which covers the same region.
func (p *linePass[T]) walk(in, out *ndimage.Image[T], step []int, lo, hi int) {
	strides := in.Strides()
	delta := stepOffset(strides, step)
	ipix, opix := in.Pix(), out.Pix()
	sequences(in.Region(), strides, step, func(_ []int, start, n int) {
		src, dst := p.scratch(n)
		for k, off := 0, start; k < n; k, off = k+1, off+delta {
			src[k] = ipix[off]
		}
		p.op.window(src, dst, lo, hi)
		for k, off := 0, start; k < n; k, off = k+1, off+delta {
			opix[off] = dst[k]
		}
	})
}

// combine folds tmp shifted by shift into acc: acc(x) = best(acc(x),
// tmp(x+shift)) wherever x+shift lies inside the region.
func (p *linePass[T]) combine(acc, tmp *ndimage.Image[T], shift []int) {
	region := acc.Region()
	moved := region.Clone()
	for d, s := range shift {
		moved.Index[d] -= s
	}
	r := region.Intersect(moved)
	if r.Empty() {
		return
	}
	delta := stepOffset(acc.Strides(), shift)
	apix, tpix := acc.Pix(), tmp.Pix()
	rows := r.Clone()
	rows.Size[0] = 1
	for idx := range rows.All() {
		off := acc.Offset(idx)
		for i := off; i < off+r.Size[0]; i++ {
			apix[i] = p.cmp.pick(apix[i], tpix[i+delta])
		}
	}
}

// lineEngine is the part shared by the Anchor and VHGW engines: the input
// of a region, padded by the element radius and extended with the boundary
// value, is processed line after line.
type lineEngine[T ndimage.Pixel] struct {
	lines    []strel.Line
	radius   []int
	cmp      Comparator[T]
	boundary T
	newOp    func(Comparator[T]) windowOp[T]
}

func newLineEngine[T ndimage.Pixel](alg Algorithm, se strel.Element, cmp Comparator[T], boundary T, newOp func(Comparator[T]) windowOp[T]) (*lineEngine[T], error) {
	lines, err := se.Lines()
	if err != nil {
		return nil, fmt.Errorf("%w: %v: %v", ErrUnsupportedShape, alg, err)
	}
	return &lineEngine[T]{
		lines:    lines,
		radius:   se.Radius(),
		cmp:      cmp,
		boundary: boundary,
		newOp:    newOp,
	}, nil
}

func (e *lineEngine[T]) ProcessRegion(in, out *ndimage.Image[T], region ndimage.Region) error {
	if err := checkRegion(in, out, region); err != nil {
		return err
	}
	buf := padded(in, region, e.radius, e.boundary)
	pass := newLinePass(e.cmp, e.newOp(e.cmp))
	for _, l := range e.lines {
		pass.apply(buf, l)
	}
	out.CopyFrom(buf, region)
	return nil
}

// padded returns the pixels of in over region grown by radius, those
// outside in set to fill.
func padded[T ndimage.Pixel](in *ndimage.Image[T], region ndimage.Region, radius []int, fill T) *ndimage.Image[T] {
	buf := ndimage.New[T](region.Pad(radius))
	buf.Fill(fill)
	buf.CopyFrom(in, in.Region())
	return buf
}

// maskOutside sets every pixel of buf outside domain to v.
func maskOutside[T ndimage.Pixel](buf *ndimage.Image[T], domain ndimage.Region, v T) {
	keep := ndimage.New[T](buf.Region())
	keep.Fill(v)
	keep.CopyFrom(buf, domain)
	copy(buf.Pix(), keep.Pix())
}
