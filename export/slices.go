package export

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

var (
	filled = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	empty  = color.NRGBA{A: 255}
)

// Slice renders layer z of v as a dim x dim image. Occupied voxels are white;
// y grows upwards, so row 0 of the image is the top row of the layer.
func Slice(v Volume, z uint32) *image.NRGBA {
	dim := int(v.Dimension())
	img := imaging.New(dim, dim, empty)
	for y := 0; y < dim; y++ {
		for x := 0; x < dim; x++ {
			if v.IsSet(uint32(x), uint32(y), z) {
				img.SetNRGBA(x, dim-1-y, filled)
			}
		}
	}
	return img
}

// WriteSlices writes one PNG per z layer into dir, named 0000.png, 0001.png and
// so on. It returns the number of files written.
func WriteSlices(dir string, v Volume) (int, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, errors.Wrapf(err, "create %s", dir)
	}
	dim := v.Dimension()
	for z := uint32(0); z < dim; z++ {
		path := filepath.Join(dir, fmt.Sprintf("%04d.png", z))
		if err := imaging.Save(Slice(v, z), path); err != nil {
			return int(z), errors.Wrapf(err, "save %s", path)
		}
	}
	return int(dim), nil
}
