//go:build gocv

package facecrop

import (
	"fmt"
	"image"
	"os"

	"gocv.io/x/gocv"
)

// GocvDetector runs an OpenCV Haar or LBP cascade, described in the OpenCV XML
// format, through gocv. It is only available when building with the gocv tag.
// ShiftFactor and Angle are not used by this detector.
type GocvDetector struct {
	// ScaleStep is the pyramid step OpenCV uses inside one scale window.
	ScaleStep float64
}

var _ Detector = (*GocvDetector)(nil)

// NewGocvDetector creates a detector backed by OpenCV.
func NewGocvDetector() *GocvDetector {
	return &GocvDetector{ScaleStep: 1.1}
}

// Detect implements the Detector interface.
func (d *GocvDetector) Detect(img image.Image, cfg DetectionConfig) ([]Rect, error) {
	if err := cfg.validate(); err != nil {
		return nil, detectionErr("config", err)
	}
	if img == nil || img.Bounds().Empty() {
		return nil, detectionErr("image", ErrEmptyImage)
	}

	// gocv loads the classifiers only from the file system.
	path, err := writeCascade(cfg.Cascade)
	if err != nil {
		return nil, detectionErr("cascade", err)
	}
	defer os.Remove(path)

	classifier := gocv.NewCascadeClassifier()
	defer classifier.Close()

	if !classifier.Load(path) {
		return nil, detectionErr("cascade", ErrMalformedCascade)
	}

	src := imgToNRGBA(img)
	cols, rows := src.Bounds().Dx(), src.Bounds().Dy()

	gray, err := gocv.NewMatFromBytes(rows, cols, gocv.MatTypeCV8U, Grayscale(src))
	if err != nil {
		return nil, detectionErr("image", err)
	}
	defer gray.Close()

	var rects []Rect
	for scale := cfg.MinScale; scale <= cfg.MaxScale; scale++ {
		size := scale * cfg.WindowSize
		if size > cols || size > rows {
			break
		}
		window := image.Pt(size, size)

		// A zero minNeighbors value disables the grouping of overlapping candidates.
		found := classifier.DetectMultiScaleWithParams(gray, d.ScaleStep, 0, 0, window, window)
		for _, r := range found {
			rects = append(rects, Rect{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()})
		}
	}
	return rects, nil
}

func writeCascade(data []byte) (string, error) {
	f, err := os.CreateTemp("", "cascade*.xml")
	if err != nil {
		return "", fmt.Errorf("unable to create temporary cascade file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("unable to write the cascade file: %w", err)
	}
	return f.Name(), nil
}
