package morphology

import "errors"

var (
	// ErrUnsupportedShape is returned when a line based algorithm is asked
	// to process an element without a line decomposition.
	ErrUnsupportedShape = errors.New("algorithm does not support this structuring element")

	// ErrRegion reports an output region that is empty, of the wrong
	// dimension or not inside the input image.
	ErrRegion = errors.New("invalid region")
)
