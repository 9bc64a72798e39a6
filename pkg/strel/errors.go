package strel

import "errors"

var (
	// ErrShape reports invalid structuring element parameters.
	ErrShape = errors.New("invalid structuring element")

	// ErrNotDecomposable is returned when line decomposition is requested on
	// an element that only has a mask.
	ErrNotDecomposable = errors.New("structuring element is not decomposable")
)
