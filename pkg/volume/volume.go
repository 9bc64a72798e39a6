// Package volume reads and writes the images processed by ndmorph. A single
// image file becomes a 2-D image, a directory of numbered slices becomes a
// 3-D volume with the slice number along axis 2.
package volume

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"

	"ndmorph/pkg/ndimage"
)

// imageExtensions lists the file types recognised as slices.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
}

// Load reads path as a 2-D image when it is a file, or as a stack of slices
// when it is a directory.
func Load(path string) (*ndimage.Image[uint8], error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return LoadSlices(path)
	}
	return LoadImage(path)
}

// LoadImage decodes an image file and converts it to 8-bit gray.
func LoadImage(path string) (*ndimage.Image[uint8], error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load image %s: %w", path, err)
	}
	return ndimage.FromGray(toGray(img)), nil
}

// LoadSlices reads every image of dir, ordered by the number in the file
// name, into a volume of size width x height x slices. All slices must
// have the same size.
func LoadSlices(dir string) (*ndimage.Image[uint8], error) {
	files, err := SliceFiles(dir)
	if err != nil {
		return nil, err
	}

	var vol *ndimage.Image[uint8]
	var width, height int
	for z, name := range files {
		slice, err := LoadImage(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		size := slice.Region().Size
		if vol == nil {
			width, height = size[0], size[1]
			vol = ndimage.New[uint8](ndimage.RegionOfSize(width, height, len(files)))
		} else if size[0] != width || size[1] != height {
			return nil, fmt.Errorf("slice %s is %dx%d, expected %dx%d", name, size[0], size[1], width, height)
		}
		copy(vol.Pix()[z*width*height:(z+1)*width*height], slice.Pix())
	}
	return vol, nil
}

// SliceFiles returns the image files of dir sorted by the number in their
// names.
func SliceFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if imageExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			files = append(files, e.Name())
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no images found in %s", dir)
	}

	sort.SliceStable(files, func(i, j int) bool {
		return extractNumber(files[i]) < extractNumber(files[j])
	})
	return files, nil
}

// Save writes a 2-D image to path, the format following the extension. A
// 3-D volume is written as a directory of slices along axis 2.
func Save(img *ndimage.Image[uint8], path, format string) error {
	switch img.Dim() {
	case 2:
		gray, err := ndimage.ToGray(img)
		if err != nil {
			return err
		}
		if dir := filepath.Dir(path); dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return err
			}
		}
		if err := imaging.Save(gray, path, imaging.JPEGQuality(95)); err != nil {
			return fmt.Errorf("failed to save %s: %w", path, err)
		}
		return nil
	case 3:
		return SaveSlices(img, path, format)
	}
	return fmt.Errorf("cannot save a %d-D image", img.Dim())
}

// SaveSlices writes the slices of a volume along axis 2 to dir as
// slice_000.<format>, slice_001.<format>, ...
func SaveSlices(vol *ndimage.Image[uint8], dir, format string) error {
	if vol.Dim() != 3 {
		return fmt.Errorf("expected a 3-D volume, got %d axes", vol.Dim())
	}
	if format == "" {
		format = "png"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	r := vol.Region()
	plane := r.Size[0] * r.Size[1]
	for z := 0; z < r.Size[2]; z++ {
		slice, err := ndimage.FromSlice(ndimage.NewRegion(r.Index[:2], r.Size[:2]), vol.Pix()[z*plane:(z+1)*plane])
		if err != nil {
			return err
		}
		name := filepath.Join(dir, fmt.Sprintf("slice_%03d.%s", z, format))
		if err := Save(slice, name, format); err != nil {
			return err
		}
	}
	return nil
}

// toGray converts any image to 8-bit gray with imaging's luminance weights.
func toGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	nrgba := imaging.Grayscale(img)
	b := nrgba.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		row := nrgba.Pix[y*nrgba.Stride:]
		for x := 0; x < b.Dx(); x++ {
			gray.Pix[y*gray.Stride+x] = row[4*x]
		}
	}
	return gray
}

// extractNumber returns the digits of a file name as a number, 0 if there
// are none.
func extractNumber(filename string) int {
	base := filepath.Base(filename)
	var digits strings.Builder
	for _, c := range base {
		if c >= '0' && c <= '9' {
			digits.WriteRune(c)
		}
	}
	if digits.Len() == 0 {
		return 0
	}
	num, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0
	}
	return num
}
