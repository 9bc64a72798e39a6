package volume

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/google/go-cmp/cmp"

	"ndmorph/pkg/ndimage"
)

func uniformGray(w, h int, v uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

// TestLoadSlicesOrdersByNumber verifies that slices are stacked in the order
// of the numbers in their file names, not lexical order
func TestLoadSlicesOrdersByNumber(t *testing.T) {
	dir, err := os.MkdirTemp("", "volume_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(dir)

	slices := map[string]uint8{
		"slice_10.png": 30,
		"slice_2.png":  20,
		"slice_1.png":  10,
	}
	for name, v := range slices {
		if err := imaging.Save(uniformGray(4, 3, v), filepath.Join(dir, name)); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	// not an image
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to write notes: %v", err)
	}

	files, err := SliceFiles(dir)
	if err != nil {
		t.Fatalf("SliceFiles failed: %v", err)
	}
	if diff := cmp.Diff([]string{"slice_1.png", "slice_2.png", "slice_10.png"}, files); diff != "" {
		t.Errorf("Unexpected slice order (-want +got):\n%s", diff)
	}

	vol, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if diff := cmp.Diff([]int{4, 3, 3}, vol.Region().Size); diff != "" {
		t.Fatalf("Unexpected volume size (-want +got):\n%s", diff)
	}
	for z, want := range []uint8{10, 20, 30} {
		if got := vol.At([]int{2, 1, z}); got != want {
			t.Errorf("Slice %d: expected %d, got %d", z, want, got)
		}
	}
}

// TestLoadSlicesSizeMismatch rejects stacks of differently sized slices
func TestLoadSlicesSizeMismatch(t *testing.T) {
	dir := t.TempDir()
	if err := imaging.Save(uniformGray(4, 3, 1), filepath.Join(dir, "a1.png")); err != nil {
		t.Fatalf("Failed to write slice: %v", err)
	}
	if err := imaging.Save(uniformGray(5, 3, 1), filepath.Join(dir, "a2.png")); err != nil {
		t.Fatalf("Failed to write slice: %v", err)
	}
	if _, err := LoadSlices(dir); err == nil {
		t.Errorf("Expected an error for slices of different sizes")
	}
	if _, err := LoadSlices(t.TempDir()); err == nil {
		t.Errorf("Expected an error for an empty directory")
	}
}

// TestSaveLoadRoundTrip writes images and volumes as PNG and reads them back
func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	img := ndimage.New[uint8](ndimage.RegionOfSize(6, 5))
	for i := range img.Pix() {
		img.Pix()[i] = uint8(i * 7)
	}
	path := filepath.Join(dir, "out", "plane.png")
	if err := Save(img, path, "png"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if diff := cmp.Diff(img.Pix(), back.Pix()); diff != "" {
		t.Errorf("2-D round trip changed pixels (-want +got):\n%s", diff)
	}

	vol := ndimage.New[uint8](ndimage.RegionOfSize(3, 2, 12))
	for i := range vol.Pix() {
		vol.Pix()[i] = uint8(i)
	}
	volDir := filepath.Join(dir, "stack")
	if err := Save(vol, volDir, "png"); err != nil {
		t.Fatalf("Save volume failed: %v", err)
	}
	volBack, err := Load(volDir)
	if err != nil {
		t.Fatalf("Load volume failed: %v", err)
	}
	if diff := cmp.Diff(vol.Pix(), volBack.Pix()); diff != "" {
		t.Errorf("3-D round trip changed voxels (-want +got):\n%s", diff)
	}
}

// TestExtractNumber checks the number extraction from file names
func TestExtractNumber(t *testing.T) {
	tests := map[string]int{
		"slice_007.png":   7,
		"/tmp/a12b3.jpg":  123,
		"background.tiff": 0,
	}
	for name, want := range tests {
		if got := extractNumber(name); got != want {
			t.Errorf("extractNumber(%q): expected %d, got %d", name, want, got)
		}
	}
}
