package facecrop

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"

	pigo "github.com/esimov/pigo/core"
)

// Rect is a candidate face region in image coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Bounds returns the rectangle as an image.Rectangle.
func (r Rect) Bounds() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Area returns the number of pixels covered by the rectangle.
func (r Rect) Area() int {
	return r.Width * r.Height
}

func (r Rect) String() string {
	return fmt.Sprintf("(x=%d,y=%d,w=%d,h=%d)", r.X, r.Y, r.Width, r.Height)
}

// Detector returns the candidate face rectangles found in an image.
// The candidates are returned in detection order, without any clustering.
type Detector interface {
	Detect(img image.Image, cfg DetectionConfig) ([]Rect, error)
}

// DetectionConfig holds the settings of a single detection run.
//
// MinScale and MaxScale define the inclusive range of scale factors; at scale s
// the cascade is evaluated over windows of s*WindowSize pixels. ShiftFactor is the
// window step relative to its size and Angle the in-plane rotation of the
// cascade (0.0 is 0 radians and 1.0 is 2*pi radians).
type DetectionConfig struct {
	MinScale    int
	MaxScale    int
	WindowSize  int
	ShiftFactor float64
	Angle       float64
	Cascade     []byte
}

// DefaultDetectionConfig returns the default detection settings without a cascade.
func DefaultDetectionConfig() DetectionConfig {
	return DetectionConfig{
		MinScale:    1,
		MaxScale:    30,
		WindowSize:  20,
		ShiftFactor: 0.1,
	}
}

func (c DetectionConfig) validate() error {
	if c.MinScale < 1 || c.MaxScale < c.MinScale {
		return fmt.Errorf("%w: min %d, max %d", ErrInvalidScale, c.MinScale, c.MaxScale)
	}
	if c.WindowSize < 1 || c.ShiftFactor <= 0 || c.ShiftFactor > 1 || c.Angle < 0 || c.Angle > 1 {
		return fmt.Errorf("%w: size %d, shift %v, angle %v", ErrInvalidWindow, c.WindowSize, c.ShiftFactor, c.Angle)
	}
	if len(c.Cascade) == 0 {
		return ErrMissingCascade
	}
	return nil
}

// PigoDetector runs the pigo pixel intensity comparison cascade over the image.
type PigoDetector struct {
	cascade    []byte
	classifier *pigo.Pigo
}

var _ Detector = (*PigoDetector)(nil)

// NewPigoDetector creates a detector backed by pigo.
func NewPigoDetector() *PigoDetector {
	return &PigoDetector{}
}

// Detect implements the Detector interface. The image is converted to grayscale,
// then the cascade is run once per scale, from MinScale up to MaxScale.
func (d *PigoDetector) Detect(img image.Image, cfg DetectionConfig) (rects []Rect, err error) {
	// The pigo unpacker and classifier index the raw cascade data without
	// bounds checks, so a malformed cascade surfaces as a runtime panic.
	defer func() {
		if r := recover(); r != nil {
			d.cascade, d.classifier = nil, nil
			rects = nil
			err = detectionErr("cascade", fmt.Errorf("%w: %v", ErrMalformedCascade, r))
		}
	}()

	if err := cfg.validate(); err != nil {
		return nil, detectionErr("config", err)
	}
	if img == nil || img.Bounds().Empty() {
		return nil, detectionErr("image", ErrEmptyImage)
	}

	classifier, err := d.unpack(cfg.Cascade)
	if err != nil {
		return nil, detectionErr("cascade", err)
	}

	src := imgToNRGBA(img)
	cols, rows := src.Bounds().Dx(), src.Bounds().Dy()

	cParams := pigo.CascadeParams{
		ShiftFactor: cfg.ShiftFactor,
		// A single pass per scale: the window size doubles right after the first one.
		ScaleFactor: 2,
		ImageParams: pigo.ImageParams{
			Pixels: Grayscale(src),
			Rows:   rows,
			Cols:   cols,
			Dim:    cols,
		},
	}

	for scale := cfg.MinScale; scale <= cfg.MaxScale; scale++ {
		size := scale * cfg.WindowSize
		if size > cols || size > rows {
			break
		}
		cParams.MinSize, cParams.MaxSize = size, size

		// The result contains quadruplets representing the row, column, scale and detection score.
		for _, det := range classifier.RunCascade(cParams, cfg.Angle) {
			rects = append(rects, Rect{
				X:      det.Col - det.Scale/2,
				Y:      det.Row - det.Scale/2,
				Width:  det.Scale,
				Height: det.Scale,
			})
		}
	}
	return rects, nil
}

// unpack returns the classifier for the cascade, reusing the last one when the data is unchanged.
func (d *PigoDetector) unpack(cascade []byte) (*pigo.Pigo, error) {
	if d.classifier != nil && bytes.Equal(d.cascade, cascade) {
		return d.classifier, nil
	}
	// The header holds 8 reserved bytes, the tree depth and the number of trees.
	if len(cascade) < 16 {
		return nil, fmt.Errorf("%w: truncated header", ErrMalformedCascade)
	}
	if binary.LittleEndian.Uint32(cascade[12:16]) == 0 {
		return nil, fmt.Errorf("%w: no trees", ErrMalformedCascade)
	}
	// Unpack the binary file. This will return the number of cascade trees,
	// the tree depth, the threshold and the prediction from tree's leaf nodes.
	classifier, err := pigo.NewPigo().Unpack(cascade)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCascade, err)
	}
	d.cascade = append(d.cascade[:0], cascade...)
	d.classifier = classifier

	return classifier, nil
}
