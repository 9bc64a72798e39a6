package morphology

import (
	"fmt"

	"ndmorph/pkg/histogram"
	"ndmorph/pkg/ndimage"
	"ndmorph/pkg/strel"
)

// anchorLine is the anchor algorithm for running extremes. The anchor is
// the most recent pixel holding the window extreme; while it stays in the
// window only the entering pixel has to be compared with it. When it
// leaves, a histogram of the window takes over until an entering pixel is
// at least as good as everything in the window and becomes the new anchor.
type anchorLine[T ndimage.Pixel] struct {
	cmp  Comparator[T]
	hist histogram.Histogram[T]
}

func newAnchorLine[T ndimage.Pixel](cmp Comparator[T]) windowOp[T] {
	return &anchorLine[T]{cmp: cmp, hist: histogram.New(cmp.Better, cmp.Identity)}
}

func (a *anchorLine[T]) window(src, dst []T, lo, hi int) {
	n := len(src)
	if n == 0 {
		return
	}
	orEqual := a.cmp.BetterOrEqual
	hist := a.hist

	anchor, pos := a.cmp.Identity, minInt
	for j := max(0, lo); j <= min(n-1, hi); j++ {
		if orEqual(src[j], anchor) {
			anchor, pos = src[j], j
		}
	}
	dst[0] = anchor

	histMode := false
	for i := 1; i < n; i++ {
		enter, leave := i+hi, i+lo-1
		entering := enter >= 0 && enter < n

		if histMode {
			if leave >= 0 && leave < n {
				hist.RemovePixel(src[leave])
			}
			switch {
			case entering && orEqual(src[enter], hist.Extreme()):
				anchor, pos, histMode = src[enter], enter, false
			case entering:
				hist.AddPixel(src[enter])
				anchor = hist.Extreme()
			default:
				anchor = hist.Extreme()
			}
			dst[i] = anchor
			continue
		}

		switch {
		case entering && orEqual(src[enter], anchor):
			anchor, pos = src[enter], enter
		case pos < i+lo:
			// the anchor left the window
			hist.Reset()
			for j := max(0, i+lo); j <= min(n-1, i+hi); j++ {
				hist.AddPixel(src[j])
			}
			anchor = hist.Extreme()
			histMode = true
		}
		dst[i] = anchor
	}
}

// AnchorEngine erodes or dilates by a decomposable element with the anchor
// algorithm, one line of the decomposition after the other.
type AnchorEngine[T ndimage.Pixel] struct {
	*lineEngine[T]
}

// NewAnchorEngine creates the anchor engine. It fails with
// ErrUnsupportedShape when se has no line decomposition.
func NewAnchorEngine[T ndimage.Pixel](se strel.Element, cmp Comparator[T], boundary T) (*AnchorEngine[T], error) {
	le, err := newLineEngine(Anchor, se, cmp, boundary, newAnchorLine[T])
	if err != nil {
		return nil, err
	}
	return &AnchorEngine[T]{le}, nil
}

// openLine computes the opening (or closing) by a straight centred line
// along one walk: the anchor erosion, then the running extreme of the
// second stage over a monotonic deque.
type openLine[T ndimage.Pixel] struct {
	first  *anchorLine[T]
	second Comparator[T]
	tmp    []T
	deque  []int
}

// open writes the opening of src by the window [-h, h] to dst. Results of
// the first stage outside [domLo, domHi] are replaced by the identity of the
// second stage, as pixels outside the image are not part of the
// intermediate image.
func (o *openLine[T]) open(src, dst []T, h, domLo, domHi int) {
	n := len(src)
	if cap(o.tmp) < n {
		o.tmp = make([]T, n)
	}
	tmp := o.tmp[:n]
	o.first.window(src, tmp, -h, h)
	for i := range tmp {
		if i < domLo || i > domHi {
			tmp[i] = o.second.Identity
		}
	}

	// indexes of decreasing quality; the head is the window extreme
	dq := o.deque[:0]
	head, next := 0, 0
	for i := 0; i < n; i++ {
		for ; next < n && next <= i+h; next++ {
			for len(dq) > head && o.second.BetterOrEqual(tmp[next], tmp[dq[len(dq)-1]]) {
				dq = dq[:len(dq)-1]
			}
			dq = append(dq, next)
		}
		for len(dq) > head && dq[head] < i-h {
			head++
		}
		if len(dq) > head {
			dst[i] = tmp[dq[head]]
		} else {
			dst[i] = o.second.Identity
		}
	}
	o.deque = dq
}

// AnchorOpeningEngine computes an opening, or a closing, directly. The
// element is decomposed as L1 + ... + Ln; the first stage runs along every
// line but one straight line Lf, then the opening by Lf is computed in a
// single pass per walk, then the second stage runs along the remaining
// lines. Pixels outside the input image take the identity of each stage.
type AnchorOpeningEngine[T ndimage.Pixel] struct {
	lines  []strel.Line
	fused  int // index of the line opened in one pass, -1 if none
	radius []int
	first  Comparator[T]
}

// NewAnchorOpeningEngine creates the one-pass opening engine; first is the
// comparator of the first stage, Erosion for an opening and Dilation for a
// closing.
func NewAnchorOpeningEngine[T ndimage.Pixel](se strel.Element, first Comparator[T]) (*AnchorOpeningEngine[T], error) {
	lines, err := se.Lines()
	if err != nil {
		return nil, fmt.Errorf("%w: %v: %v", ErrUnsupportedShape, Anchor, err)
	}
	fused := -1
	for i := len(lines) - 1; i >= 0; i-- {
		if lines[i].Steps() == 1 {
			fused = i
			break
		}
	}
	radius := se.Radius()
	for d := range radius {
		radius[d] *= 2
	}
	return &AnchorOpeningEngine[T]{lines: lines, fused: fused, radius: radius, first: first}, nil
}

func (e *AnchorOpeningEngine[T]) ProcessRegion(in, out *ndimage.Image[T], region ndimage.Region) error {
	if err := checkRegion(in, out, region); err != nil {
		return err
	}
	second := e.first.Dual()
	domain := in.Region()
	buf := padded(in, region, e.radius, e.first.Identity)

	firstLine := newAnchorLine(e.first).(*anchorLine[T])
	firstPass := newLinePass(e.first, windowOp[T](firstLine))
	secondPass := newLinePass(second, newAnchorLine(second))
	for i, l := range e.lines {
		if i != e.fused {
			firstPass.apply(buf, l)
		}
	}

	if e.fused < 0 {
		maskOutside(buf, domain, second.Identity)
	} else {
		l := e.lines[e.fused]
		ol := &openLine[T]{first: firstLine, second: second}
		bufRegion := buf.Region()
		strides := buf.Strides()
		delta := stepOffset(strides, l.Direction)
		pix := buf.Pix()
		var src, dst []T
		sequences(bufRegion, strides, l.Direction, func(idx []int, start, n int) {
			if cap(src) < n {
				src, dst = make([]T, n), make([]T, n)
			}
			src, dst = src[:n], dst[:n]
			for k, off := 0, start; k < n; k, off = k+1, off+delta {
				src[k] = pix[off]
			}
			lo, hi := stepRange(domain, idx, l.Direction)
			ol.open(src, dst, l.Half(), lo, hi)
			for k, off := 0, start; k < n; k, off = k+1, off+delta {
				pix[off] = dst[k]
			}
		})
	}

	for i, l := range e.lines {
		if i != e.fused {
			secondPass.apply(buf, l)
		}
	}
	out.CopyFrom(buf, region)
	return nil
}
