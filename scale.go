package facecrop

import (
	"image"

	"github.com/disintegration/imaging"
	"github.com/esimov/facecrop/utils"
)

// Dimension is the bounding box the scaled profile picture has to fit in.
type Dimension struct {
	Width  int
	Height int
}

// DefaultDimension returns the default output size.
func DefaultDimension() Dimension {
	return Dimension{Width: 150, Height: 150}
}

func (d Dimension) valid() bool {
	return d.Width > 0 && d.Height > 0
}

// scaledSize fits a srcW x srcH image into the dimension, keeping its aspect ratio.
// Landscape images take the target width, all the others the target height.
func scaledSize(srcW, srcH int, dim Dimension) (int, int) {
	width, height := dim.Width, dim.Height
	if srcW > srcH {
		factor := float64(srcH) / float64(srcW)
		height = int(float64(width) * factor)
	} else {
		factor := float64(srcW) / float64(srcH)
		width = int(float64(height) * factor)
	}
	return utils.Max(width, 1), utils.Max(height, 1)
}

// scaleImage resizes the image with bilinear interpolation to fit the dimension.
// The result is always an NRGBA image, carrying an alpha channel.
func scaleImage(src image.Image, dim Dimension) *image.NRGBA {
	if src.Bounds().Empty() {
		return &image.NRGBA{}
	}
	width, height := scaledSize(src.Bounds().Dx(), src.Bounds().Dy(), dim)
	return imaging.Resize(src, width, height, imaging.Linear)
}
