package morphology

import (
	"fmt"
	"strings"

	"ndmorph/pkg/strel"
)

// Algorithm names one of the erosion/dilation engines.
type Algorithm int

const (
	// Auto lets the operators pick the fastest applicable engine.
	Auto Algorithm = iota
	// Basic scans the whole window for every pixel.
	Basic
	// Histogram slides a histogram of the window along one axis.
	Histogram
	// Anchor runs the anchor algorithm along each decomposition line.
	Anchor
	// VHGW runs the van Herk/Gil-Werman algorithm along each decomposition
	// line.
	VHGW
)

var algorithmNames = map[Algorithm]string{
	Auto:      "auto",
	Basic:     "basic",
	Histogram: "histogram",
	Anchor:    "anchor",
	VHGW:      "vhgw",
}

func (a Algorithm) String() string {
	if s, ok := algorithmNames[a]; ok {
		return s
	}
	return fmt.Sprintf("Algorithm(%d)", int(a))
}

// ParseAlgorithm converts a name such as "vhgw" to an Algorithm. The empty
// string selects Auto.
func ParseAlgorithm(s string) (Algorithm, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Auto, nil
	}
	for a, name := range algorithmNames {
		if name == s {
			return a, nil
		}
	}
	return Auto, fmt.Errorf("unknown algorithm %q", s)
}

// Algorithms lists the explicit algorithms in order.
func Algorithms() []Algorithm {
	return []Algorithm{Basic, Histogram, Anchor, VHGW}
}

// Resolve returns the engine used for alg with se. Auto picks VHGW for
// decomposable elements, or Anchor when direct is set since the anchor
// engine computes openings and closings in one pass. Elements without
// lines use the moving histogram when its per-step update is cheaper than
// a full window scan, the basic engine otherwise. Explicit line algorithms
// on elements without lines fail with ErrUnsupportedShape.
func Resolve(alg Algorithm, se strel.Element, direct bool) (Algorithm, error) {
	switch alg {
	case Auto:
		if se.IsDecomposable() {
			if direct {
				return Anchor, nil
			}
			return VHGW, nil
		}
		offsets := se.Offsets()
		if _, events := sweepAxis(offsets, se.Dim()); events < len(offsets) {
			return Histogram, nil
		}
		return Basic, nil
	case Basic, Histogram:
		return alg, nil
	case Anchor, VHGW:
		if !se.IsDecomposable() {
			return alg, fmt.Errorf("%w: %v needs a decomposable element, got %v", ErrUnsupportedShape, alg, se.Kind())
		}
		return alg, nil
	}
	return alg, fmt.Errorf("unknown algorithm %v", alg)
}
