package facecrop

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCrop_FitPadding(t *testing.T) {
	cases := []struct {
		name          string
		face          Rect
		width, height int
		padding, want int
	}{
		{"centered", Rect{X: 400, Y: 400, Width: 100, Height: 100}, 1000, 1000, 40, 40},
		{"top left corner", Rect{X: 10, Y: 10, Width: 50, Height: 50}, 1000, 1000, 40, 10},
		{"bottom right corner", Rect{X: 900, Y: 920, Width: 90, Height: 60}, 1000, 1000, 40, 10},
		{"touching the border", Rect{X: 0, Y: 30, Width: 20, Height: 20}, 100, 100, 40, 0},
		{"no padding", Rect{X: 30, Y: 30, Width: 20, Height: 20}, 100, 100, 0, 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, fitPadding(c.face, c.width, c.height, c.padding))
		})
	}
}

// The padded region must stay inside the image and use the largest possible padding.
func TestCrop_PaddedRegionIsMaximalAndContained(t *testing.T) {
	const maxPadding = 6

	for width := 1; width <= 8; width++ {
		for height := 1; height <= 8; height++ {
			bounds := image.Rect(0, 0, width, height)

			for x := 0; x < width; x++ {
				for y := 0; y < height; y++ {
					for w := 1; x+w <= width; w++ {
						for h := 1; y+h <= height; h++ {
							face := Rect{X: x, Y: y, Width: w, Height: h}

							for padding := 0; padding <= maxPadding; padding++ {
								got := fitPadding(face, width, height, padding)
								if got < 0 || got > padding {
									t.Fatalf("%v in %dx%d: padding %d out of [0, %d]", face, width, height, got, padding)
								}
								if !padRect(face, got).In(bounds) {
									t.Fatalf("%v in %dx%d: padding %d leaves the image", face, width, height, got)
								}
								for larger := got + 1; larger <= padding; larger++ {
									if padRect(face, larger).In(bounds) {
										t.Fatalf("%v in %dx%d: padding %d fits but %d was chosen", face, width, height, larger, got)
									}
								}
							}
						}
					}
				}
			}
		}
	}
}

func TestCrop_PadRect(t *testing.T) {
	face := Rect{X: 400, Y: 400, Width: 100, Height: 100}

	assert.Equal(t, image.Rect(360, 360, 540, 540), padRect(face, 40))
	assert.Equal(t, face.Bounds(), padRect(face, 0))
}

func TestCrop_SkipCrop(t *testing.T) {
	cfg := DefaultCropConfig()

	assert.True(t, skipCrop(Rect{Width: 60, Height: 60}, 100, 100, cfg))
	assert.False(t, skipCrop(Rect{Width: 50, Height: 50}, 100, 100, cfg))
	assert.False(t, skipCrop(Rect{Width: 50, Height: 50}, 100, 100, CropConfig{NoCropMultiplier: 4}))
	assert.True(t, skipCrop(Rect{Width: 50, Height: 50}, 100, 100, CropConfig{NoCropMultiplier: 5}))
}

func TestCrop_InBounds(t *testing.T) {
	assert.True(t, inBounds(Rect{X: 0, Y: 0, Width: 10, Height: 10}, 10, 10))
	assert.False(t, inBounds(Rect{X: 1, Y: 0, Width: 10, Height: 10}, 10, 10))
	assert.False(t, inBounds(Rect{X: -1, Y: 0, Width: 5, Height: 5}, 10, 10))
	assert.False(t, inBounds(Rect{X: 0, Y: 0, Width: -1, Height: 5}, 10, 10))
}

func TestCrop_Validate(t *testing.T) {
	assert.NoError(t, DefaultCropConfig().validate())
	assert.NoError(t, CropConfig{NoCropMultiplier: 1}.validate())
	assert.ErrorIs(t, CropConfig{NoCropMultiplier: 0, AdditionalPadding: 10}.validate(), ErrInvalidConfig)
	assert.ErrorIs(t, CropConfig{NoCropMultiplier: 3, AdditionalPadding: -1}.validate(), ErrInvalidConfig)
}
