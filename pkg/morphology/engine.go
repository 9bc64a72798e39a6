// Package morphology computes grayscale erosion, dilation and the operators
// built from them over N-dimensional images.
//
// Four engines compute the same result with different costs: Basic scans
// the full window, Histogram slides a window histogram along one axis, and
// Anchor and VHGW run one-dimensional algorithms along the lines of a
// decomposable structuring element. Pixels outside the input image take a
// boundary value, by default the identity of the operation, which amounts
// to ignoring them.
package morphology

import (
	"fmt"

	"ndmorph/internal/partition"
	"ndmorph/pkg/ndimage"
	"ndmorph/pkg/strel"
)

// Engine computes one pass of a morphological operator.
//
// ProcessRegion writes the result for the pixels of region into out, reading
// in. It keeps no state between calls and writes only inside region, so
// calls on disjoint regions may run concurrently.
type Engine[T ndimage.Pixel] interface {
	ProcessRegion(in, out *ndimage.Image[T], region ndimage.Region) error
}

// NewEngine returns the erosion or dilation engine for alg, which must not
// be Auto. Dilation engines use the reflected element.
func NewEngine[T ndimage.Pixel](alg Algorithm, se strel.Element, cmp Comparator[T], boundary T) (Engine[T], error) {
	switch alg {
	case Basic:
		return NewNaiveEngine(se, cmp, boundary), nil
	case Histogram:
		return NewMovingHistogramEngine(se, cmp, boundary), nil
	case Anchor:
		eng, err := NewAnchorEngine(se, cmp, boundary)
		if err != nil {
			return nil, err
		}
		return eng, nil
	case VHGW:
		eng, err := NewVHGWEngine(se, cmp, boundary)
		if err != nil {
			return nil, err
		}
		return eng, nil
	}
	return nil, fmt.Errorf("no engine for algorithm %v", alg)
}

// checkRegion validates a region passed to ProcessRegion.
func checkRegion[T ndimage.Pixel](in, out *ndimage.Image[T], region ndimage.Region) error {
	if !region.IsInside(in.Region()) {
		return fmt.Errorf("%w: %v is not inside input %v", ErrRegion, region, in.Region())
	}
	if !region.IsInside(out.Region()) {
		return fmt.Errorf("%w: %v is not inside output %v", ErrRegion, region, out.Region())
	}
	return nil
}

// run splits region into slabs and hands them to the engine concurrently.
func run[T ndimage.Pixel](eng Engine[T], in *ndimage.Image[T], region ndimage.Region, opts Options[T]) (*ndimage.Image[T], error) {
	out := ndimage.New[T](region)
	slabs := partition.Split(region, opts.workers())
	opts.logger().Debug().
		Stringer("region", region).
		Int("slabs", len(slabs)).
		Msg("processing region")
	err := partition.Run(slabs, opts.workers(), func(r ndimage.Region) error {
		return eng.ProcessRegion(in, out, r)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// reflectFor returns the element a pass of cmp must scan: the element itself
// for erosion, its reflection for dilation.
func reflectFor[T ndimage.Pixel](se strel.Element, cmp Comparator[T]) strel.Element {
	if cmp.IsDilation() {
		return se.Reflect()
	}
	return se
}

// stepOffset returns the distance in a pixel slice with the given strides
// covered by one step of v.
func stepOffset(strides, v []int) int {
	off := 0
	for d, s := range v {
		off += s * strides[d]
	}
	return off
}
