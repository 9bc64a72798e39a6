package visualization

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"ndmorph/pkg/ndimage"
	"ndmorph/pkg/strel"
)

// testVolume returns a volume whose voxel (x, y, z) holds x + 10*y + 50*z
func testVolume(width, height, depth int) *ndimage.Image[uint8] {
	vol := ndimage.New[uint8](ndimage.RegionOfSize(width, height, depth))
	for idx := range vol.Region().All() {
		vol.Set(idx, uint8(idx[0]+10*idx[1]+50*idx[2]))
	}
	return vol
}

// TestNewViewer verifies that viewers accept 2-D and 3-D images only
func TestNewViewer(t *testing.T) {
	if _, err := NewViewer(testVolume(4, 3, 2)); err != nil {
		t.Errorf("Failed to view a volume: %v", err)
	}
	if _, err := NewViewer(ndimage.New[uint8](ndimage.RegionOfSize(4, 3))); err != nil {
		t.Errorf("Failed to view a plane: %v", err)
	}
	if _, err := NewViewer(ndimage.New[uint8](ndimage.RegionOfSize(4))); err == nil {
		t.Errorf("Expected an error for a 1-D image")
	}
}

// TestExtractSlice verifies that slices are correctly extracted along each axis
func TestExtractSlice(t *testing.T) {
	width, height, depth := 5, 4, 3
	viewer, err := NewViewer(testVolume(width, height, depth))
	if err != nil {
		t.Fatalf("Failed to create viewer: %v", err)
	}

	tests := []struct {
		axis       string
		pos        int
		w, h       int
		x, y, want int
	}{
		{"z", 2, width, height, 3, 1, 3 + 10 + 100},
		{"y", 1, width, depth, 4, 2, 4 + 10 + 100},
		{"x", 3, depth, height, 1, 2, 3 + 20 + 50},
	}
	for _, tc := range tests {
		img, err := viewer.ExtractSlice(tc.axis, tc.pos)
		if err != nil {
			t.Fatalf("Failed to extract %s slice at position %d: %v", tc.axis, tc.pos, err)
		}
		b := img.Bounds()
		if b.Dx() != tc.w || b.Dy() != tc.h {
			t.Errorf("Expected %s slice of %dx%d, got %dx%d", tc.axis, tc.w, tc.h, b.Dx(), b.Dy())
		}
		if got := int(img.GrayAt(tc.x, tc.y).Y); got != tc.want {
			t.Errorf("%s slice at (%d, %d): expected %d, got %d", tc.axis, tc.x, tc.y, tc.want, got)
		}
	}

	if _, err := viewer.ExtractSlice("z", depth); err == nil {
		t.Errorf("Expected an error for a position outside the volume")
	}
	if _, err := viewer.ExtractSlice("w", 0); err == nil {
		t.Errorf("Expected an error for an invalid axis")
	}
}

// TestSaveSliceSequence verifies that one file is written per slice
func TestSaveSliceSequence(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping file output test in short mode")
	}

	tempDir, err := os.MkdirTemp("", "viewer_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	viewer, err := NewViewer(testVolume(5, 4, 3))
	if err != nil {
		t.Fatalf("Failed to create viewer: %v", err)
	}
	for axis, n := range map[string]int{"x": 5, "y": 4, "z": 3} {
		dir := filepath.Join(tempDir, axis)
		if err := viewer.SaveSliceSequence(axis, dir, "png"); err != nil {
			t.Fatalf("Failed to save %s slices: %v", axis, err)
		}
		for pos := 0; pos < n; pos++ {
			name := filepath.Join(dir, fmt.Sprintf("slice_%s_%03d.png", axis, pos))
			if _, err := os.Stat(name); err != nil {
				t.Errorf("Expected slice file %s: %v", name, err)
			}
		}
	}
}

// TestElementImage checks the drawing of 2-D and 3-D elements
func TestElementImage(t *testing.T) {
	cross, err := strel.Cross([]int{1, 1})
	if err != nil {
		t.Fatalf("Failed to create cross: %v", err)
	}
	img, err := ElementImage(cross, 2)
	if err != nil {
		t.Fatalf("Failed to draw cross: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 6 || b.Dy() != 6 {
		t.Fatalf("Expected a 6x6 image, got %dx%d", b.Dx(), b.Dy())
	}
	if img.GrayAt(0, 0).Y != 0 || img.GrayAt(2, 0).Y != 255 || img.GrayAt(3, 3).Y != 255 {
		t.Errorf("Unexpected cross drawing")
	}

	ones := ndimage.New[uint8](ndimage.RegionOfSize(3, 1, 3))
	ones.Fill(1)
	flat, err := strel.FromMask(ones, 1)
	if err != nil {
		t.Fatalf("Failed to create flat element: %v", err)
	}
	img, err = ElementImage(flat, 1)
	if err != nil {
		t.Fatalf("Failed to draw flat element: %v", err)
	}
	// three planes of 3x1 separated by one black column
	if b := img.Bounds(); b.Dx() != 11 || b.Dy() != 1 {
		t.Fatalf("Expected an 11x1 image, got %dx%d", b.Dx(), b.Dy())
	}
	if img.GrayAt(3, 0).Y != 0 || img.GrayAt(4, 0).Y != 255 {
		t.Errorf("Unexpected plane layout")
	}

	path := filepath.Join(t.TempDir(), "kernel", "cross.png")
	if err := SaveElement(cross, path, 4); err != nil {
		t.Fatalf("Failed to save element: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Expected element file: %v", err)
	}
}
