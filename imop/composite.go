// Package imop implements the Porter-Duff composition operations needed to
// shape the profile pictures, like cutting a circular avatar out of a square one.
// The image/draw core package implements only the source-over-destination and source.
package imop

import (
	"fmt"
	"image"
	"math"
)

const (
	Clear   = "clear"
	Copy    = "copy"
	SrcOver = "src_over"
	SrcIn   = "src_in"
	DstIn   = "dst_in"
	DstOut  = "dst_out"
)

// Bitmap holds the result of a composition.
type Bitmap struct {
	Img *image.NRGBA
}

// NewBitmap creates an empty, fully transparent bitmap.
func NewBitmap(rect image.Rectangle) *Bitmap {
	return &Bitmap{
		Img: image.NewNRGBA(rect),
	}
}

// Composite holds the active composition operation.
type Composite struct {
	current string
	ops     []string
}

// InitOp returns a Composite with SrcOver as the active operation.
func InitOp() *Composite {
	return &Composite{
		current: SrcOver,
		ops:     []string{Clear, Copy, SrcOver, SrcIn, DstIn, DstOut},
	}
}

// Set activates one of the supported composition operations.
func (op *Composite) Set(cop string) error {
	for _, o := range op.ops {
		if o == cop {
			op.current = cop
			return nil
		}
	}
	return fmt.Errorf("unsupported composite operation: %q", cop)
}

// Get returns the active composition operation.
func (op *Composite) Get() string {
	return op.current
}

// factors returns the Porter-Duff source and destination fractions.
func (op *Composite) factors(as, ad float64) (float64, float64) {
	switch op.current {
	case Clear:
		return 0, 0
	case Copy:
		return 1, 0
	case SrcIn:
		return ad, 0
	case DstIn:
		return 0, as
	case DstOut:
		return 0, 1 - as
	default:
		return 1, 1 - as
	}
}

// Draw composes src over dst into the bitmap. The pixels are matched relative
// to the top-left corner of each image; only the common area is drawn.
func (op *Composite) Draw(bitmap *Bitmap, src, dst *image.NRGBA) {
	if bitmap == nil {
		bitmap = NewBitmap(src.Bounds())
	}
	dx := minInt(src.Bounds().Dx(), dst.Bounds().Dx(), bitmap.Img.Bounds().Dx())
	dy := minInt(src.Bounds().Dy(), dst.Bounds().Dy(), bitmap.Img.Bounds().Dy())

	for y := 0; y < dy; y++ {
		si := src.PixOffset(src.Rect.Min.X, src.Rect.Min.Y+y)
		di := dst.PixOffset(dst.Rect.Min.X, dst.Rect.Min.Y+y)
		bi := bitmap.Img.PixOffset(bitmap.Img.Rect.Min.X, bitmap.Img.Rect.Min.Y+y)

		for x := 0; x < dx; x++ {
			as := float64(src.Pix[si+3]) / 255
			ad := float64(dst.Pix[di+3]) / 255
			fa, fb := op.factors(as, ad)

			// Apply the composition formula over premultiplied values.
			ao := fa*as + fb*ad
			for c := 0; c < 3; c++ {
				var v float64
				if ao > 0 {
					cs := float64(src.Pix[si+c]) / 255
					cd := float64(dst.Pix[di+c]) / 255
					v = (fa*as*cs + fb*ad*cd) / ao
				}
				bitmap.Img.Pix[bi+c] = toByte(v)
			}
			bitmap.Img.Pix[bi+3] = toByte(ao)

			si += 4
			di += 4
			bi += 4
		}
	}
}

func toByte(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

func minInt(vals ...int) int {
	m := vals[0]
	for _, v := range vals[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
