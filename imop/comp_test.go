package imop

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComp_Basic(t *testing.T) {
	assert := assert.New(t)

	op := InitOp()
	assert.Equal(SrcOver, op.Get())

	assert.NoError(op.Set(DstIn))
	assert.Equal(DstIn, op.Get())

	assert.Error(op.Set("unsupported_composite_operation"))
	assert.Equal(DstIn, op.Get())
}

func TestComp_Ops(t *testing.T) {
	assert := assert.New(t)
	op := InitOp()

	transparent := color.NRGBA{R: 0, G: 0, B: 0, A: 0}
	cyan := color.NRGBA{R: 33, G: 150, B: 243, A: 255}
	magenta := color.NRGBA{R: 233, G: 30, B: 99, A: 255}

	rect := image.Rect(0, 0, 10, 10)
	bmp := NewBitmap(rect)
	source := image.NewNRGBA(rect)
	backdrop := image.NewNRGBA(rect)

	draw.Draw(source, image.Rect(0, 4, 6, 10), &image.Uniform{cyan}, image.Point{}, draw.Src)
	draw.Draw(backdrop, image.Rect(4, 0, 10, 6), &image.Uniform{magenta}, image.Point{}, draw.Src)

	cases := []struct {
		op         string
		topRight   color.NRGBA
		bottomLeft color.NRGBA
		center     color.NRGBA
	}{
		{SrcOver, magenta, cyan, cyan},
		{Clear, transparent, transparent, transparent},
		{Copy, transparent, cyan, cyan},
		{SrcIn, transparent, transparent, cyan},
		{DstIn, transparent, transparent, magenta},
		{DstOut, magenta, transparent, transparent},
	}

	for _, c := range cases {
		t.Run(c.op, func(t *testing.T) {
			assert.NoError(op.Set(c.op))
			op.Draw(bmp, source, backdrop)

			// Pick three representative pixels: one covered by the backdrop only,
			// one by the source only and one by both of them.
			assert.EqualValues(c.topRight, bmp.Img.At(9, 0))
			assert.EqualValues(c.bottomLeft, bmp.Img.At(0, 9))
			assert.EqualValues(c.center, bmp.Img.At(5, 5))
		})
	}
}

func TestComp_DstInKeepsBackdropColor(t *testing.T) {
	op := InitOp()
	assert.NoError(t, op.Set(DstIn))

	rect := image.Rect(0, 0, 1, 1)
	mask := image.NewNRGBA(rect)
	mask.SetNRGBA(0, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 128})
	photo := image.NewNRGBA(rect)
	photo.SetNRGBA(0, 0, color.NRGBA{R: 200, G: 100, B: 50, A: 255})

	bmp := NewBitmap(rect)
	op.Draw(bmp, mask, photo)

	assert.Equal(t, color.NRGBA{R: 200, G: 100, B: 50, A: 128}, bmp.Img.NRGBAAt(0, 0))
}
