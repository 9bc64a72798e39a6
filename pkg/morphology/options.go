package morphology

import (
	"runtime"

	"github.com/rs/zerolog"

	"ndmorph/pkg/ndimage"
)

// Options configures the morphology operators. The zero value selects the
// algorithm automatically, processes the whole image with one worker per
// CPU and injects the comparator identity for out-of-image neighbours.
type Options[T ndimage.Pixel] struct {
	// Algorithm forces an engine. Auto picks one from the element.
	Algorithm Algorithm

	// SafeBorder pads the input by the element radius with the neutral
	// value of the first stage before an opening or closing, and crops the
	// result, so that structures touching the image edge are kept.
	SafeBorder bool

	// Boundary overrides the value of out-of-image neighbours for Erode,
	// Dilate and MorphologicalGradient.
	Boundary *T

	// Region restricts the output to a sub-region of the input.
	Region *ndimage.Region

	// Workers is the number of regions processed concurrently.
	Workers int

	// Logger receives debug events. Nil disables logging.
	Logger *zerolog.Logger
}

func (o Options[T]) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.NumCPU()
}

func (o Options[T]) logger() *zerolog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	nop := zerolog.Nop()
	return &nop
}
