package morphology

import (
	"ndmorph/pkg/histogram"
	"ndmorph/pkg/ndimage"
	"ndmorph/pkg/strel"
)

// MovingHistogramEngine keeps a histogram of the window and slides it one
// pixel at a time along the axis where the fewest pixels enter and leave the
// window per step.
type MovingHistogramEngine[T ndimage.Pixel] struct {
	offsets  [][]int
	added    [][]int // relative to the new position
	removed  [][]int // relative to the new position
	axis     int
	cmp      Comparator[T]
	boundary T
}

// NewMovingHistogramEngine creates the moving histogram engine. It accepts
// any element.
func NewMovingHistogramEngine[T ndimage.Pixel](se strel.Element, cmp Comparator[T], boundary T) *MovingHistogramEngine[T] {
	se = reflectFor(se, cmp)
	offsets := se.Offsets()
	axis, _ := sweepAxis(offsets, se.Dim())
	added, removed := stepEvents(offsets, axis)
	return &MovingHistogramEngine[T]{
		offsets:  offsets,
		added:    added,
		removed:  removed,
		axis:     axis,
		cmp:      cmp,
		boundary: boundary,
	}
}

// Axis returns the sweep axis.
func (e *MovingHistogramEngine[T]) Axis() int {
	return e.axis
}

func (e *MovingHistogramEngine[T]) ProcessRegion(in, out *ndimage.Image[T], region ndimage.Region) error {
	if err := checkRegion(in, out, region); err != nil {
		return err
	}
	bounds := in.Region()
	hist := histogram.New(e.cmp.Better, e.boundary)
	p := make([]int, region.Dim())

	value := func(idx, o []int, add bool) {
		for d := range p {
			p[d] = idx[d] + o[d]
		}
		inside := bounds.Contains(p)
		switch {
		case inside && add:
			hist.AddPixel(in.At(p))
		case inside:
			hist.RemovePixel(in.At(p))
		case add:
			hist.AddBoundary()
		default:
			hist.RemoveBoundary()
		}
	}

	starts := region.Clone()
	starts.Size[e.axis] = 1
	for start := range starts.All() {
		idx := append([]int(nil), start...)
		hist.Reset()
		for _, o := range e.offsets {
			value(idx, o, true)
		}
		out.Set(idx, hist.Extreme())

		for step := 1; step < region.Size[e.axis]; step++ {
			idx[e.axis]++
			for _, o := range e.removed {
				value(idx, o, false)
			}
			for _, o := range e.added {
				value(idx, o, true)
			}
			out.Set(idx, hist.Extreme())
		}
	}
	return nil
}

// sweepAxis returns the axis along which a one pixel translation of the
// window adds and removes the fewest pixels, and that number of events.
// Ties go to the lowest axis.
func sweepAxis(offsets [][]int, dim int) (axis, events int) {
	events = -1
	for d := 0; d < dim; d++ {
		added, removed := stepEvents(offsets, d)
		if n := len(added) + len(removed); events < 0 || n < events {
			axis, events = d, n
		}
	}
	return axis, events
}

// stepEvents returns, for a translation by one pixel along axis, the
// offsets entering the window and the offsets leaving it, both relative to
// the translated position.
func stepEvents(offsets [][]int, axis int) (added, removed [][]int) {
	set := make(map[string]bool, len(offsets))
	for _, o := range offsets {
		set[key(o)] = true
	}
	q := make([]int, 0, 8)
	for _, o := range offsets {
		q = append(q[:0], o...)
		q[axis]++
		if !set[key(q)] {
			added = append(added, o)
		}
		q[axis] -= 2
		if !set[key(q)] {
			removed = append(removed, append([]int(nil), q...))
		}
	}
	return added, removed
}

func key(o []int) string {
	b := make([]byte, 0, 4*len(o))
	for _, v := range o {
		b = append(b, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
	}
	return string(b)
}
