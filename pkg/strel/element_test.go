package strel

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ndmorph/pkg/ndimage"
)

// TestBoxDecomposition verifies the box lines and its dense raster
func TestBoxDecomposition(t *testing.T) {
	se, err := Box([]int{2, 1, 3})
	if err != nil {
		t.Fatalf("Failed to create box: %v", err)
	}
	if !se.IsDecomposable() {
		t.Fatalf("Expected box to be decomposable")
	}

	lines, err := se.Lines()
	if err != nil {
		t.Fatalf("Failed to get lines: %v", err)
	}
	want := []Line{
		{Direction: []int{1, 0, 0}, Length: 5},
		{Direction: []int{0, 1, 0}, Length: 3},
		{Direction: []int{0, 0, 1}, Length: 7},
	}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Errorf("Unexpected lines (-want +got):\n%s", diff)
	}

	mask := se.Rasterize()
	wantRegion := ndimage.NewRegion([]int{-2, -1, -3}, []int{5, 3, 7})
	if !mask.Region().Equal(wantRegion) {
		t.Errorf("Expected raster region %v, got %v", wantRegion, mask.Region())
	}
	for i, v := range mask.Pix() {
		if v != 1 {
			t.Fatalf("Expected a dense box, pixel %d is %d", i, v)
		}
	}
	if se.NumActive() != 5*3*7 {
		t.Errorf("Expected %d active offsets, got %d", 5*3*7, se.NumActive())
	}
}

// TestShapeErrors checks invalid constructor arguments
func TestShapeErrors(t *testing.T) {
	cases := []struct {
		name string
		make func() (Element, error)
	}{
		{"box zero radius", func() (Element, error) { return Box([]int{2, 0}) }},
		{"ball negative radius", func() (Element, error) { return Ball([]int{-1}) }},
		{"cross no axis", func() (Element, error) { return Cross(nil) }},
		{"annulus thickness", func() (Element, error) { return Annulus([]int{3, 3}, 0, false) }},
		{"poly odd 2-D count", func() (Element, error) { return Poly([]int{5, 5}, 3) }},
		{"poly anisotropic", func() (Element, error) { return Poly([]int{5, 4}, 4) }},
		{"poly 3-D count", func() (Element, error) { return Poly([]int{3, 3, 3}, 5) }},
		{"poly 4-D", func() (Element, error) { return Poly([]int{2, 2, 2, 2}, 0) }},
		{"poly too many lines", func() (Element, error) { return Poly([]int{5, 5}, 200) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.make()
			if !errors.Is(err, ErrShape) {
				t.Errorf("Expected ErrShape, got %v", err)
			}
		})
	}
}

// TestNotDecomposable checks that mask elements refuse to decompose
func TestNotDecomposable(t *testing.T) {
	ball, err := Ball([]int{3, 3})
	if err != nil {
		t.Fatalf("Failed to create ball: %v", err)
	}
	if ball.IsDecomposable() {
		t.Errorf("Ball must not be decomposable")
	}
	if _, err := ball.Lines(); !errors.Is(err, ErrNotDecomposable) {
		t.Errorf("Expected ErrNotDecomposable, got %v", err)
	}
}

// TestBallAndCross checks a few known pixels of the mask shapes
func TestBallAndCross(t *testing.T) {
	ball, _ := Ball([]int{2, 2})
	mask := ball.Rasterize()
	if mask.At([]int{2, 0}) != 1 || mask.At([]int{1, 1}) != 1 {
		t.Errorf("Expected axis and diagonal neighbours inside the ball")
	}
	if mask.At([]int{2, 2}) != 0 || mask.At([]int{-2, 2}) != 0 {
		t.Errorf("Expected far corners outside the ball")
	}

	cross, _ := Cross([]int{2, 1})
	if got := cross.NumActive(); got != 5+3-1 {
		t.Errorf("Expected 7 active offsets in the cross, got %d", got)
	}

	ring, _ := Annulus([]int{3, 3}, 1, false)
	if ring.Rasterize().At([]int{0, 0}) != 0 {
		t.Errorf("Expected the annulus centre to be empty")
	}
	if ring.Rasterize().At([]int{3, 0}) != 1 {
		t.Errorf("Expected the annulus rim to be set")
	}
	withCentre, _ := Annulus([]int{3, 3}, 1, true)
	if withCentre.Rasterize().At([]int{0, 0}) != 1 {
		t.Errorf("Expected the centre when includeCenter is set")
	}
}

// TestFromMaskAndReflect builds an asymmetric mask and reflects it
func TestFromMaskAndReflect(t *testing.T) {
	img, err := ndimage.FromSlice(ndimage.RegionOfSize(3, 3), []int32{
		0, 0, 0,
		0, 7, 7,
		0, 0, 7,
	})
	if err != nil {
		t.Fatalf("Failed to build mask image: %v", err)
	}
	se, err := FromMask(img, 7)
	if err != nil {
		t.Fatalf("Failed to create element: %v", err)
	}

	want := [][]int{{0, 0}, {1, 0}, {1, 1}}
	if diff := cmp.Diff(want, se.Offsets()); diff != "" {
		t.Errorf("Unexpected offsets (-want +got):\n%s", diff)
	}

	wantReflected := [][]int{{-1, -1}, {-1, 0}, {0, 0}}
	if diff := cmp.Diff(wantReflected, se.Reflect().Offsets()); diff != "" {
		t.Errorf("Unexpected reflected offsets (-want +got):\n%s", diff)
	}

	even, _ := ndimage.FromSlice(ndimage.RegionOfSize(2, 3), make([]int32, 6))
	if _, err := FromMask(even, 1); !errors.Is(err, ErrShape) {
		t.Errorf("Expected ErrShape for an even sized mask, got %v", err)
	}
	empty, _ := ndimage.FromSlice(ndimage.RegionOfSize(3), make([]int32, 3))
	if _, err := FromMask(empty, 1); !errors.Is(err, ErrShape) {
		t.Errorf("Expected ErrShape for a mask without foreground, got %v", err)
	}
}

// TestPolyInsideDisc verifies that the rasterized polygon stays inside the
// disc of radius r+0.5, is symmetric under a quarter turn and uses
// non-parallel lines
func TestPolyInsideDisc(t *testing.T) {
	for _, r := range []int{1, 2, 5, 9, 17} {
		for _, n := range []int{0, 2, 4, 6, 8} {
			t.Run(fmt.Sprintf("r%d_n%d", r, n), func(t *testing.T) {
				se, err := Poly([]int{r, r}, n)
				if err != nil {
					t.Fatalf("Failed to create poly: %v", err)
				}
				lines, _ := se.Lines()
				want := n
				if n == 0 {
					want = DefaultPolyLines(2, r)
				}
				if len(lines) != want {
					t.Errorf("Expected %d lines, got %d", want, len(lines))
				}
				if err := checkNonParallel(lines); err != nil {
					t.Errorf("Lines are not pairwise non-parallel: %v", err)
				}
				for _, l := range lines {
					if l.Steps()%2 == 0 {
						t.Errorf("Line %v has an even dominant component", l)
					}
				}

				mask := se.Rasterize()
				limit := float64(r) + 0.5
				for idx := range mask.Region().All() {
					if mask.At(idx) == 0 {
						continue
					}
					x, y := float64(idx[0]), float64(idx[1])
					if x*x+y*y > limit*limit {
						t.Errorf("Pixel %v lies outside radius %.1f", idx, limit)
					}
					if mask.At([]int{-idx[1], idx[0]}) == 0 {
						t.Errorf("Raster is not invariant under a quarter turn at %v", idx)
					}
				}
			})
		}
	}
}

// TestPoly3D checks the 3-D direction sets
func TestPoly3D(t *testing.T) {
	for _, n := range []int{3, 7, 9, 13} {
		se, err := Poly([]int{4, 4, 4}, n)
		if err != nil {
			t.Fatalf("Failed to create %d-line poly: %v", n, err)
		}
		lines, _ := se.Lines()
		if len(lines) != n {
			t.Errorf("Expected %d lines, got %d", n, len(lines))
		}
		mask := se.Rasterize()
		for idx := range mask.Region().All() {
			if mask.At(idx) == 0 {
				continue
			}
			n2 := idx[0]*idx[0] + idx[1]*idx[1] + idx[2]*idx[2]
			if n2 > 4*4+4 {
				t.Errorf("Pixel %v lies outside radius 4.5", idx)
			}
		}
	}

	se, _ := Poly([]int{6}, 0)
	if diff := cmp.Diff([]int{6}, se.Radius()); diff != "" {
		t.Errorf("Unexpected 1-D radius (-want +got):\n%s", diff)
	}
}
