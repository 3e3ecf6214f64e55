package facecrop

import (
	"fmt"
	"image"
	"image/color"

	"github.com/esimov/facecrop/imop"
	"github.com/esimov/facecrop/utils"
)

// ShapeType is the outline of the generated profile picture.
type ShapeType string

const (
	Square ShapeType = "square"
	Circle ShapeType = "circle"
)

// ParseShape validates a shape name.
func ParseShape(s string) (ShapeType, error) {
	switch shape := ShapeType(s); shape {
	case Square, Circle:
		return shape, nil
	case "":
		return Square, nil
	}
	return "", fmt.Errorf("unsupported shape type: %q", s)
}

// circleMask cuts the largest centered circle out of the image.
// The pixels outside of the circle become fully transparent.
func circleMask(src image.Image) *image.NRGBA {
	img := imgToNRGBA(src)
	bounds := img.Bounds()
	dx, dy := bounds.Dx(), bounds.Dy()

	mask := image.NewNRGBA(bounds)
	cx, cy := float64(dx)/2, float64(dy)/2
	r := utils.Min(cx, cy)
	opaque := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

	for y := 0; y < dy; y++ {
		for x := 0; x < dx; x++ {
			// Sample the pixel center.
			px, py := float64(x)+0.5-cx, float64(y)+0.5-cy
			if px*px+py*py <= r*r {
				mask.SetNRGBA(x, y, opaque)
			}
		}
	}

	op := imop.InitOp()
	// DstIn keeps the photo only where the mask is opaque.
	op.Set(imop.DstIn)

	bmp := imop.NewBitmap(bounds)
	op.Draw(bmp, mask, img)

	return bmp.Img
}
