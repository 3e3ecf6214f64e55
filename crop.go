package facecrop

import (
	"fmt"
	"image"
)

// CropConfig holds the settings used to cut the profile picture out of the source image.
//
// The crop is skipped when the face area multiplied by NoCropMultiplier exceeds
// the image area. Otherwise the face is extended by at most AdditionalPadding
// pixels on each side.
type CropConfig struct {
	NoCropMultiplier  int
	AdditionalPadding int
}

// DefaultCropConfig returns the default crop settings.
func DefaultCropConfig() CropConfig {
	return CropConfig{
		NoCropMultiplier:  3,
		AdditionalPadding: 40,
	}
}

func (c CropConfig) validate() error {
	if c.NoCropMultiplier <= 0 || c.AdditionalPadding < 0 {
		return fmt.Errorf("%w: no crop multiplier %d, padding %d", ErrInvalidConfig, c.NoCropMultiplier, c.AdditionalPadding)
	}
	return nil
}

// inBounds reports whether the face lies within a width x height image.
// The padding search relies on it to always find a fitting padding.
func inBounds(face Rect, width, height int) bool {
	return face.Width >= 0 && face.Height >= 0 &&
		face.X >= 0 && face.Y >= 0 &&
		face.X+face.Width <= width &&
		face.Y+face.Height <= height
}

// skipCrop reports whether the face is large enough to keep the whole image.
func skipCrop(face Rect, width, height int, cfg CropConfig) bool {
	return face.Area()*cfg.NoCropMultiplier > width*height
}

// fitPadding shrinks the padding one pixel at a time until the padded face
// fits inside a width x height image. Zero is the floor.
func fitPadding(face Rect, width, height, padding int) int {
	for padding > 0 &&
		(face.X+face.Width+padding > width ||
			face.Y+face.Height+padding > height ||
			face.X-padding < 0 ||
			face.Y-padding < 0) {
		padding--
	}
	return padding
}

// padRect extends the face by padding pixels on all four sides.
func padRect(face Rect, padding int) image.Rectangle {
	return face.Bounds().Inset(-padding)
}
