package morphology

import (
	"fmt"
	"strings"

	"ndmorph/pkg/ndimage"
	"ndmorph/pkg/strel"
)

// Operator is the signature shared by the morphological operators.
type Operator[T ndimage.Pixel] func(img *ndimage.Image[T], se strel.Element, opts Options[T]) (*ndimage.Image[T], error)

// Erode returns the erosion of img by se: every pixel becomes the minimum
// over the element placed on it.
func Erode[T ndimage.Pixel](img *ndimage.Image[T], se strel.Element, opts Options[T]) (*ndimage.Image[T], error) {
	return singlePass(img, se, Erosion[T](), opts)
}

// Dilate returns the dilation of img by se: every pixel becomes the maximum
// over the reflected element placed on it.
func Dilate[T ndimage.Pixel](img *ndimage.Image[T], se strel.Element, opts Options[T]) (*ndimage.Image[T], error) {
	return singlePass(img, se, Dilation[T](), opts)
}

// Opening returns the dilation of the erosion of img by se.
func Opening[T ndimage.Pixel](img *ndimage.Image[T], se strel.Element, opts Options[T]) (*ndimage.Image[T], error) {
	return openClose(img, se, Erosion[T](), opts)
}

// Closing returns the erosion of the dilation of img by se.
func Closing[T ndimage.Pixel](img *ndimage.Image[T], se strel.Element, opts Options[T]) (*ndimage.Image[T], error) {
	return openClose(img, se, Dilation[T](), opts)
}

// MorphologicalGradient returns the dilation minus the erosion of img.
func MorphologicalGradient[T ndimage.Pixel](img *ndimage.Image[T], se strel.Element, opts Options[T]) (*ndimage.Image[T], error) {
	d, err := Dilate(img, se, opts)
	if err != nil {
		return nil, err
	}
	e, err := Erode(img, se, opts)
	if err != nil {
		return nil, err
	}
	return subtract(d, e), nil
}

// WhiteTopHat returns img minus its opening.
func WhiteTopHat[T ndimage.Pixel](img *ndimage.Image[T], se strel.Element, opts Options[T]) (*ndimage.Image[T], error) {
	o, err := Opening(img, se, opts)
	if err != nil {
		return nil, err
	}
	x, err := img.Crop(o.Region())
	if err != nil {
		return nil, err
	}
	return subtract(x, o), nil
}

// BlackTopHat returns the closing of img minus img.
func BlackTopHat[T ndimage.Pixel](img *ndimage.Image[T], se strel.Element, opts Options[T]) (*ndimage.Image[T], error) {
	c, err := Closing(img, se, opts)
	if err != nil {
		return nil, err
	}
	x, err := img.Crop(c.Region())
	if err != nil {
		return nil, err
	}
	return subtract(c, x), nil
}

// Iterate applies op n times, each time to the previous result.
func Iterate[T ndimage.Pixel](img *ndimage.Image[T], se strel.Element, op Operator[T], n int, opts Options[T]) (*ndimage.Image[T], error) {
	if n < 1 {
		return nil, fmt.Errorf("iteration count %d must be positive", n)
	}
	cur := img
	for i := 0; i < n; i++ {
		next, err := op(cur, se, opts)
		if err != nil {
			return nil, fmt.Errorf("iteration %d: %w", i+1, err)
		}
		cur = next
	}
	return cur, nil
}

// Operation names a morphological operator.
type Operation int

const (
	OpErode Operation = iota
	OpDilate
	OpOpening
	OpClosing
	OpGradient
	OpWhiteTopHat
	OpBlackTopHat
)

var operationNames = [...]string{"erode", "dilate", "opening", "closing", "gradient", "whitetophat", "blacktophat"}

func (op Operation) String() string {
	if op < 0 || int(op) >= len(operationNames) {
		return fmt.Sprintf("Operation(%d)", int(op))
	}
	return operationNames[op]
}

// ParseOperation converts an operation name to an Operation. "open" and
// "close" are accepted as well.
func ParseOperation(s string) (Operation, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "open":
		return OpOpening, nil
	case "close":
		return OpClosing, nil
	}
	for i, name := range operationNames {
		if name == s {
			return Operation(i), nil
		}
	}
	return OpErode, fmt.Errorf("unknown operation %q", s)
}

// OperatorFor returns the function implementing op.
func OperatorFor[T ndimage.Pixel](op Operation) (Operator[T], error) {
	switch op {
	case OpErode:
		return Erode[T], nil
	case OpDilate:
		return Dilate[T], nil
	case OpOpening:
		return Opening[T], nil
	case OpClosing:
		return Closing[T], nil
	case OpGradient:
		return MorphologicalGradient[T], nil
	case OpWhiteTopHat:
		return WhiteTopHat[T], nil
	case OpBlackTopHat:
		return BlackTopHat[T], nil
	}
	return nil, fmt.Errorf("unknown operation %v", op)
}

// outputRegion validates se and the requested region against img.
func outputRegion[T ndimage.Pixel](img *ndimage.Image[T], se strel.Element, opts Options[T]) (ndimage.Region, error) {
	if se.Dim() != img.Dim() {
		return ndimage.Region{}, fmt.Errorf("%w: element has %d axes, image has %d", strel.ErrShape, se.Dim(), img.Dim())
	}
	if opts.Region == nil {
		return img.Region(), nil
	}
	region := opts.Region.Clone()
	switch {
	case region.Dim() != img.Dim():
		return region, fmt.Errorf("%w: region %v has %d axes, image has %d", ErrRegion, region, region.Dim(), img.Dim())
	case region.Empty():
		return region, fmt.Errorf("%w: region %v is empty", ErrRegion, region)
	case !region.IsInside(img.Region()):
		return region, fmt.Errorf("%w: region %v is not inside image %v", ErrRegion, region, img.Region())
	}
	return region, nil
}

func singlePass[T ndimage.Pixel](img *ndimage.Image[T], se strel.Element, cmp Comparator[T], opts Options[T]) (*ndimage.Image[T], error) {
	region, err := outputRegion(img, se, opts)
	if err != nil {
		return nil, err
	}
	boundary := cmp.Identity
	if opts.Boundary != nil {
		boundary = *opts.Boundary
	}
	return stage(img, se, cmp, boundary, region, opts)
}

// stage runs one erosion or dilation over region.
func stage[T ndimage.Pixel](img *ndimage.Image[T], se strel.Element, cmp Comparator[T], boundary T, region ndimage.Region, opts Options[T]) (*ndimage.Image[T], error) {
	alg, err := Resolve(opts.Algorithm, se, false)
	if err != nil {
		return nil, err
	}
	opts.logger().Debug().
		Stringer("algorithm", alg).
		Stringer("element", se).
		Bool("dilation", cmp.IsDilation()).
		Msg("selected algorithm")
	eng, err := NewEngine(alg, se, cmp, boundary)
	if err != nil {
		return nil, err
	}
	return run(eng, img, region, opts)
}

// openClose computes an opening when first is Erosion and a closing when it
// is Dilation.
func openClose[T ndimage.Pixel](img *ndimage.Image[T], se strel.Element, first Comparator[T], opts Options[T]) (*ndimage.Image[T], error) {
	region, err := outputRegion(img, se, opts)
	if err != nil {
		return nil, err
	}
	alg, err := Resolve(opts.Algorithm, se, true)
	if err != nil {
		return nil, err
	}

	src := img
	if opts.SafeBorder {
		src = img.Pad(se.Radius(), first.Identity)
	}

	if alg == Anchor {
		opts.logger().Debug().
			Stringer("element", se).
			Bool("closing", first.IsDilation()).
			Msg("direct anchor opening")
		eng, err := NewAnchorOpeningEngine(se, first)
		if err != nil {
			return nil, err
		}
		return run(eng, src, region, opts)
	}

	opts.Algorithm = alg
	second := first.Dual()
	mid := region.Pad(se.Radius()).Intersect(src.Region())
	tmp, err := stage(src, se, first, first.Identity, mid, opts)
	if err != nil {
		return nil, err
	}
	return stage(tmp, se, second, second.Identity, region, opts)
}

// subtract returns a - b pixel by pixel; both cover the same region.
func subtract[T ndimage.Pixel](a, b *ndimage.Image[T]) *ndimage.Image[T] {
	out := ndimage.New[T](a.Region())
	pa, pb, po := a.Pix(), b.Pix(), out.Pix()
	for i := range po {
		po[i] = pa[i] - pb[i]
	}
	return out
}
