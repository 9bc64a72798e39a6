package histogram

import (
	"math/rand/v2"
	"testing"
)

func less[T int8 | uint8 | int16 | uint16 | float32](a, b T) bool    { return a < b }
func greater[T int8 | uint8 | int16 | uint16 | float32](a, b T) bool { return a > b }

// TestSelection verifies the backend chosen for each pixel type
func TestSelection(t *testing.T) {
	if _, ok := New(less[uint8], 255).(*Vector[uint8]); !ok {
		t.Errorf("Expected a vector histogram for uint8")
	}
	if _, ok := New(less[int16], 0).(*Vector[int16]); !ok {
		t.Errorf("Expected a vector histogram for int16")
	}
	if _, ok := New(less[float32], 0).(*OrderedMap[float32]); !ok {
		t.Errorf("Expected an ordered map histogram for float32")
	}
	if _, ok := New(func(a, b int32) bool { return a < b }, 0).(*OrderedMap[int32]); !ok {
		t.Errorf("Expected an ordered map histogram for int32")
	}
}

// TestEmptyIsIdentity checks the value reported by an empty histogram
func TestEmptyIsIdentity(t *testing.T) {
	if v := NewVector(less[uint8], 0).Extreme(); v != 255 {
		t.Errorf("Expected empty min histogram to report 255, got %d", v)
	}
	if v := NewVector(greater[int8], 0).Extreme(); v != -128 {
		t.Errorf("Expected empty max histogram to report -128, got %d", v)
	}
	if v := NewOrderedMap(less[int16], 0).Extreme(); v != 32767 {
		t.Errorf("Expected empty min map to report 32767, got %d", v)
	}
}

// TestBoundary adds and removes the configured boundary value
func TestBoundary(t *testing.T) {
	for _, h := range []Histogram[uint8]{NewVector(less[uint8], 7), NewOrderedMap(less[uint8], 7)} {
		h.AddPixel(9)
		h.AddBoundary()
		if v := h.Extreme(); v != 7 {
			t.Errorf("%T: expected boundary 7 to be the minimum, got %d", h, v)
		}
		h.RemoveBoundary()
		if v := h.Extreme(); v != 9 {
			t.Errorf("%T: expected 9 after removing the boundary, got %d", h, v)
		}
		h.SetBoundary(3)
		h.AddBoundary()
		if v := h.Extreme(); v != 3 {
			t.Errorf("%T: expected new boundary 3, got %d", h, v)
		}
		h.Reset()
		if v := h.Extreme(); v != 255 {
			t.Errorf("%T: expected identity after reset, got %d", h, v)
		}
	}
}

// TestBackendsAgree runs the same random sliding window through both
// backends and a brute force scan
func TestBackendsAgree(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	for _, cmp := range []struct {
		name   string
		better func(a, b int16) bool
	}{
		{"min", less[int16]},
		{"max", greater[int16]},
	} {
		t.Run(cmp.name, func(t *testing.T) {
			vec := NewVector(cmp.better, 0)
			tree := NewOrderedMap(cmp.better, 0)

			values := make([]int16, 500)
			for i := range values {
				values[i] = int16(rng.IntN(200) - 100)
			}

			const window = 7
			for i, v := range values {
				vec.AddPixel(v)
				tree.AddPixel(v)
				if i >= window {
					vec.RemovePixel(values[i-window])
					tree.RemovePixel(values[i-window])
				}

				want := values[max(0, i-window+1)]
				for _, w := range values[max(0, i-window+1) : i+1] {
					if cmp.better(w, want) {
						want = w
					}
				}
				if got := vec.Extreme(); got != want {
					t.Fatalf("Step %d: vector reports %d, want %d", i, got, want)
				}
				if got := tree.Extreme(); got != want {
					t.Fatalf("Step %d: ordered map reports %d, want %d", i, got, want)
				}
			}
		})
	}
}

// TestOrderedMapPruning checks that emptied buckets at the front are dropped
// on query
func TestOrderedMapPruning(t *testing.T) {
	h := NewOrderedMap(less[float32], 0)
	for _, v := range []float32{1.5, 2.5, 3.5} {
		h.AddPixel(v)
	}
	h.RemovePixel(1.5)
	h.RemovePixel(2.5)
	if h.Len() != 3 {
		t.Errorf("Expected removal to keep 3 buckets, got %d", h.Len())
	}
	if v := h.Extreme(); v != 3.5 {
		t.Errorf("Expected 3.5, got %v", v)
	}
	if h.Len() != 1 {
		t.Errorf("Expected pruning to leave 1 bucket, got %d", h.Len())
	}
}
