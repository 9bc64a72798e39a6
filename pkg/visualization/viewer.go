// Package visualization renders images and structuring elements as 2-D
// pictures: planes of a volume, or the active pixels of an element.
package visualization

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"ndmorph/pkg/ndimage"
	"ndmorph/pkg/strel"
)

// Viewer extracts planes from a 2-D or 3-D image.
type Viewer struct {
	// volume holds the image; a 2-D image is a volume of depth 1
	volume *ndimage.Image[uint8]
	size   [3]int
}

// NewViewer creates a viewer over img, which must have 2 or 3 axes.
func NewViewer(img *ndimage.Image[uint8]) (*Viewer, error) {
	r := img.Region()
	switch img.Dim() {
	case 2:
		return &Viewer{volume: img, size: [3]int{r.Size[0], r.Size[1], 1}}, nil
	case 3:
		return &Viewer{volume: img, size: [3]int{r.Size[0], r.Size[1], r.Size[2]}}, nil
	}
	return nil, fmt.Errorf("cannot view a %d-D image", img.Dim())
}

// parseAxis maps "x", "y" and "z" to axes 0, 1 and 2.
func parseAxis(axis string) (int, error) {
	switch strings.ToLower(axis) {
	case "x":
		return 0, nil
	case "y":
		return 1, nil
	case "z":
		return 2, nil
	}
	return 0, fmt.Errorf("invalid axis: %s (must be x, y, or z)", axis)
}

// ExtractSlice returns the plane of the volume orthogonal to axis at
// position. Planes orthogonal to x are laid out z by y, planes orthogonal
// to y x by z and planes orthogonal to z x by y.
func (v *Viewer) ExtractSlice(axis string, position int) (*image.Gray, error) {
	a, err := parseAxis(axis)
	if err != nil {
		return nil, err
	}
	if position < 0 || position >= v.size[a] {
		return nil, fmt.Errorf("position %d outside [0, %d) along %s", position, v.size[a], axis)
	}

	// image axes (u, w) in volume coordinates
	var u, w int
	switch a {
	case 0:
		u, w = 2, 1
	case 1:
		u, w = 0, 2
	default:
		u, w = 0, 1
	}

	img := image.NewGray(image.Rect(0, 0, v.size[u], v.size[w]))
	origin := v.volume.Region().Index
	idx := make([]int, v.volume.Dim())
	p := [3]int{}
	p[a] = position
	for y := 0; y < v.size[w]; y++ {
		for x := 0; x < v.size[u]; x++ {
			p[u], p[w] = x, y
			for d := range idx {
				idx[d] = origin[d] + p[d]
			}
			img.Pix[y*img.Stride+x] = v.volume.At(idx)
		}
	}
	return img, nil
}

// SaveSlice writes a plane to filename, the format following the extension.
func (v *Viewer) SaveSlice(img image.Image, filename string) error {
	return imaging.Save(img, filename, imaging.JPEGQuality(90))
}

// SaveSliceSequence writes every plane orthogonal to axis to outputDir as
// slice_<axis>_000.<ext>, slice_<axis>_001.<ext>, ...
func (v *Viewer) SaveSliceSequence(axis, outputDir, ext string) error {
	a, err := parseAxis(axis)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}
	if ext == "" {
		ext = "png"
	}

	for pos := 0; pos < v.size[a]; pos++ {
		img, err := v.ExtractSlice(axis, pos)
		if err != nil {
			return err
		}
		filename := filepath.Join(outputDir, fmt.Sprintf("slice_%s_%03d.%s", axis, pos, ext))
		if err := v.SaveSlice(img, filename); err != nil {
			return err
		}
	}
	return nil
}

// ElementImage draws the active pixels of a 1-D, 2-D or 3-D structuring
// element in white on black, each pixel scaled to a square of scale
// pixels. The planes of a 3-D element are laid side by side.
func ElementImage(se strel.Element, scale int) (*image.Gray, error) {
	if scale < 1 {
		scale = 1
	}
	if se.Dim() > 3 {
		return nil, fmt.Errorf("cannot draw a %d-D element", se.Dim())
	}
	mask := se.Rasterize()
	size := [3]int{1, 1, 1}
	copy(size[:], mask.Region().Size)

	gap := 0
	if size[2] > 1 {
		gap = 1
	}
	width := (size[0]*size[2] + gap*(size[2]-1)) * scale
	img := image.NewGray(image.Rect(0, 0, width, size[1]*scale))

	pix := mask.Pix()
	for z := 0; z < size[2]; z++ {
		left := z * (size[0] + gap) * scale
		for y := 0; y < size[1]; y++ {
			for x := 0; x < size[0]; x++ {
				if pix[(z*size[1]+y)*size[0]+x] == 0 {
					continue
				}
				for dy := 0; dy < scale; dy++ {
					row := img.Pix[(y*scale+dy)*img.Stride+left+x*scale:]
					for dx := 0; dx < scale; dx++ {
						row[dx] = 255
					}
				}
			}
		}
	}
	return img, nil
}

// SaveElement draws se with ElementImage and writes it to filename.
func SaveElement(se strel.Element, filename string, scale int) error {
	img, err := ElementImage(se, scale)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(filename); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return imaging.Save(img, filename)
}
