package export

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// Axis is the direction the preview camera looks along.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// ParseAxis accepts "x", "y" or "z".
func ParseAxis(s string) (Axis, error) {
	switch s {
	case "x", "X":
		return AxisX, nil
	case "y", "Y":
		return AxisY, nil
	case "z", "Z", "":
		return AxisZ, nil
	}
	return 0, errors.Errorf("unknown axis %q", s)
}

// voxel maps image column a, row b and depth d to grid coordinates.
func (ax Axis) voxel(a, b, d uint32) (x, y, z uint32) {
	switch ax {
	case AxisX:
		return d, b, a
	case AxisY:
		return a, d, b
	default:
		return a, b, d
	}
}

// Render casts one orthographic ray per pixel along the positive axis and
// shades the first occupied voxel by depth: near voxels are bright, far ones
// dark. Pixels whose ray hits nothing stay transparent. When size is positive
// and differs from the grid dimension the image is scaled to size x size with
// nearest-neighbour sampling.
func Render(v Volume, axis Axis, size int) *image.NRGBA {
	dim := v.Dimension()
	img := image.NewNRGBA(image.Rect(0, 0, int(dim), int(dim)))
	for b := uint32(0); b < dim; b++ {
		for a := uint32(0); a < dim; a++ {
			for d := uint32(0); d < dim; d++ {
				if !v.IsSet(axis.voxel(a, b, d)) {
					continue
				}
				shade := uint8(255 - 191*uint64(d)/uint64(dim))
				img.SetNRGBA(int(a), int(dim-1-b), color.NRGBA{R: shade, G: shade, B: shade, A: 255})
				break
			}
		}
	}
	if size > 0 && size != int(dim) {
		return imaging.Resize(img, size, size, imaging.NearestNeighbor)
	}
	return img
}

// WriteRender renders v and saves it to path. The format follows the file
// extension.
func WriteRender(path string, v Volume, axis Axis, size int) error {
	if err := imaging.Save(Render(v, axis, size), path); err != nil {
		return errors.Wrapf(err, "save %s", path)
	}
	return nil
}
