package facecrop

import (
	"image"
)

// Grayscale converts the image to a single channel pixel array by averaging
// the red, green and blue intensities of each pixel. The alpha channel is ignored.
func Grayscale(src *image.NRGBA) []uint8 {
	dx, dy := src.Bounds().Dx(), src.Bounds().Dy()
	gray := make([]uint8, dx*dy)

	for y := 0; y < dy; y++ {
		i := src.PixOffset(src.Rect.Min.X, src.Rect.Min.Y+y)
		for x := 0; x < dx; x++ {
			r, g, b := int(src.Pix[i]), int(src.Pix[i+1]), int(src.Pix[i+2])
			gray[y*dx+x] = uint8((r + g + b) / 3)
			i += 4
		}
	}
	return gray
}
