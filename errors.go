package facecrop

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCascade is returned when no cascade data has been provided.
	ErrMissingCascade = errors.New("missing cascade classifier")
	// ErrMalformedCascade is returned when the cascade data could not be unpacked.
	ErrMalformedCascade = errors.New("malformed cascade classifier")
	// ErrEmptyImage is returned for a nil or zero sized source image.
	ErrEmptyImage = errors.New("empty source image")
	// ErrInvalidScale is returned when the scale range is not 1 <= min <= max.
	ErrInvalidScale = errors.New("invalid detection scale range")
	// ErrInvalidWindow is returned for invalid detection window settings.
	ErrInvalidWindow = errors.New("invalid detection window")
	// ErrFaceOutOfBounds is returned when the selected face is not contained in the image.
	ErrFaceOutOfBounds = errors.New("face rectangle outside of the image bounds")
	// ErrInvalidConfig is returned by the setters for out of range values.
	ErrInvalidConfig = errors.New("invalid configuration value")
)

// DetectionError wraps any failure raised while running the face detection.
type DetectionError struct {
	Op  string
	Err error
}

func (e *DetectionError) Error() string {
	return fmt.Sprintf("face detection failed (%s): %v", e.Op, e.Err)
}

func (e *DetectionError) Unwrap() error {
	return e.Err
}

func detectionErr(op string, err error) error {
	var de *DetectionError
	if errors.As(err, &de) {
		return err
	}
	return &DetectionError{Op: op, Err: err}
}
