package facecrop

import (
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"
)

// FaceImage detects a face in a source image and derives a cropped and padded
// profile picture, plus a scaled version of it, from the detection result.
//
// The derived images are computed lazily and cached. The setters fall in two groups:
//
//   - lazy: SetMinScale, SetMaxScale, SetNoCropMultiplier and SetAdditionalPadding
//     only mark the profile as dirty. The profile is cut again on the next
//     ProfileFace call. The scale setters take effect on the next detection run.
//   - eager: SetCascadeSource runs the detection right away, and SetDimension
//     computes the scaled image right away when none is cached.
//
// The scaled image is not invalidated by the setters: once built it is kept
// until Update or InvalidateScaled is called, even if the dimension changes.
//
// A FaceImage is not safe for concurrent use.
type FaceImage struct {
	detector Detector
	selector Selector
	log      logrus.FieldLogger

	detection DetectionConfig
	crop      CropConfig
	dimension Dimension

	original image.Image
	src      *image.NRGBA
	face     Rect
	found    bool

	profile      image.Image
	scaled       image.Image
	profileDirty bool
	scaledDirty  bool
}

// Option configures a FaceImage.
type Option func(*FaceImage)

// WithDetector replaces the default pigo detector.
func WithDetector(d Detector) Option {
	return func(f *FaceImage) {
		f.detector = d
	}
}

// WithSelector replaces the FirstCandidate selection strategy.
func WithSelector(s Selector) Option {
	return func(f *FaceImage) {
		f.selector = s
	}
}

// WithLogger sets the logger used for the debug output. By default nothing is logged.
func WithLogger(l logrus.FieldLogger) Option {
	return func(f *FaceImage) {
		f.log = l
	}
}

// WithCascade sets the cascade classifier data.
func WithCascade(cascade []byte) Option {
	return func(f *FaceImage) {
		f.detection.Cascade = cascade
	}
}

// WithDetectionConfig replaces the detection settings.
// The current cascade is kept when cfg carries none.
func WithDetectionConfig(cfg DetectionConfig) Option {
	return func(f *FaceImage) {
		if len(cfg.Cascade) == 0 {
			cfg.Cascade = f.detection.Cascade
		}
		f.detection = cfg
	}
}

// WithCropConfig replaces the crop settings.
func WithCropConfig(cfg CropConfig) Option {
	return func(f *FaceImage) {
		f.crop = cfg
	}
}

// WithDimension sets the size of the scaled profile picture.
func WithDimension(d Dimension) Option {
	return func(f *FaceImage) {
		f.dimension = d
	}
}

// New creates a FaceImage and runs the face detection over img.
func New(img image.Image, opts ...Option) (*FaceImage, error) {
	f := &FaceImage{
		detector:  NewPigoDetector(),
		selector:  FirstCandidate,
		log:       discardLogger(),
		detection: DefaultDetectionConfig(),
		crop:      DefaultCropConfig(),
		dimension: DefaultDimension(),
	}
	for _, opt := range opts {
		opt(f)
	}
	if err := f.crop.validate(); err != nil {
		return nil, err
	}
	if !f.dimension.valid() {
		return nil, fmt.Errorf("%w: dimension %dx%d", ErrInvalidConfig, f.dimension.Width, f.dimension.Height)
	}
	if err := f.Update(img); err != nil {
		return nil, err
	}
	return f, nil
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Update replaces the source image, drops the cached images and runs the detection.
// Not finding a face is not an error: check FoundFace.
func (f *FaceImage) Update(img image.Image) error {
	f.original = img
	f.src = nil
	if img != nil && !img.Bounds().Empty() {
		f.src = imgToNRGBA(img)
	}
	f.reset()

	return f.findFace()
}

// reset forgets the face and the derived images.
func (f *FaceImage) reset() {
	f.face, f.found = Rect{}, false
	f.profile, f.scaled = nil, nil
	f.profileDirty = true
	f.scaledDirty = false
}

func (f *FaceImage) findFace() error {
	var src image.Image
	if f.src != nil {
		src = f.src
	}
	candidates, err := f.detector.Detect(src, f.detection)
	if err != nil {
		f.reset()
		return detectionErr("detect", err)
	}

	face, ok := f.selector(candidates)
	if !ok {
		f.face, f.found = Rect{}, false
		f.log.Debug("no face found")
		return nil
	}
	if f.src == nil {
		f.reset()
		return detectionErr("select", ErrEmptyImage)
	}
	if !inBounds(face, f.src.Bounds().Dx(), f.src.Bounds().Dy()) {
		f.reset()
		return detectionErr("select", fmt.Errorf("%w: %v", ErrFaceOutOfBounds, face))
	}
	f.face, f.found = face, true

	f.log.WithFields(logrus.Fields{
		"candidates": len(candidates),
		"face":       face.String(),
	}).Debug("face found")

	return nil
}

// OriginalFace returns the source image unchanged.
func (f *FaceImage) OriginalFace() image.Image {
	return f.original
}

// FoundFace reports whether the last detection run produced a face.
func (f *FaceImage) FoundFace() bool {
	return f.found
}

// FaceRect returns the selected face rectangle.
func (f *FaceImage) FaceRect() (Rect, bool) {
	return f.face, f.found
}

// ProfileFace returns the face cut out of the source image with padding.
// It is recomputed when the settings changed since the last call. If no
// face was found it returns the previously cached image, which is nil
// right after an Update: check FoundFace first.
func (f *FaceImage) ProfileFace() image.Image {
	if (f.profileDirty || f.profile == nil) && f.found {
		f.cutFace()
	}
	return f.profile
}

// cutFace computes the profile picture. Faces covering a large part of the
// image are not cropped at all.
func (f *FaceImage) cutFace() {
	width, height := f.src.Bounds().Dx(), f.src.Bounds().Dy()

	if skipCrop(f.face, width, height, f.crop) {
		f.profile = f.original
		f.log.Debug("face covers the image, crop skipped")
	} else {
		padding := fitPadding(f.face, width, height, f.crop.AdditionalPadding)
		region := padRect(f.face, padding)
		f.profile = imaging.Crop(f.src, region)

		f.log.WithFields(logrus.Fields{
			"padding": padding,
			"region":  region.String(),
		}).Debug("profile cropped")
	}
	f.profileDirty = false
}

// ScaledProfileFace returns the profile picture scaled to fit the dimension.
// It is nil when there is no profile picture.
func (f *FaceImage) ScaledProfileFace() image.Image {
	if !f.hasScaled() {
		f.updateScaled()
	}
	return f.scaled
}

// InvalidateScaled drops the cached scaled image. It is the only way, besides
// Update, to make a dimension change apply to an already scaled image.
func (f *FaceImage) InvalidateScaled() {
	f.scaledDirty = true
}

func (f *FaceImage) hasScaled() bool {
	return f.scaled != nil && !f.scaledDirty
}

func (f *FaceImage) updateScaled() {
	profile := f.ProfileFace()
	if profile == nil {
		f.scaled = nil
		return
	}
	scaled := scaleImage(profile, f.dimension)
	f.scaled, f.scaledDirty = scaled, false

	f.log.WithFields(logrus.Fields{
		"width":  scaled.Bounds().Dx(),
		"height": scaled.Bounds().Dy(),
	}).Debug("profile scaled")
}

// SetMinScale sets the finest detection scale. A scale factor of 1
// corresponds to the cascade window at full image resolution.
func (f *FaceImage) SetMinScale(scale int) error {
	if scale < 1 {
		return fmt.Errorf("%w: min scale %d", ErrInvalidConfig, scale)
	}
	f.detection.MinScale = scale
	f.profileDirty = true
	return nil
}

// SetMaxScale sets the coarsest detection scale.
func (f *FaceImage) SetMaxScale(scale int) error {
	if scale < 1 {
		return fmt.Errorf("%w: max scale %d", ErrInvalidConfig, scale)
	}
	f.detection.MaxScale = scale
	f.profileDirty = true
	return nil
}

// SetNoCropMultiplier sets the threshold multiplier above which the image is not cropped.
func (f *FaceImage) SetNoCropMultiplier(multiplier int) error {
	if multiplier <= 0 {
		return fmt.Errorf("%w: no crop multiplier %d", ErrInvalidConfig, multiplier)
	}
	f.crop.NoCropMultiplier = multiplier
	f.profileDirty = true
	return nil
}

// SetAdditionalPadding sets the padding added around the face.
func (f *FaceImage) SetAdditionalPadding(padding int) error {
	if padding < 0 {
		return fmt.Errorf("%w: padding %d", ErrInvalidConfig, padding)
	}
	f.crop.AdditionalPadding = padding
	f.profileDirty = true
	return nil
}

// SetCascadeSource reads a new cascade classifier and runs the detection again.
func (f *FaceImage) SetCascadeSource(r io.Reader) error {
	cascade, err := io.ReadAll(r)
	if err != nil {
		f.reset()
		return detectionErr("cascade", err)
	}
	f.detection.Cascade = cascade
	f.profileDirty = true

	return f.findFace()
}

// SetDimension sets the size of the scaled profile picture. The scaled image
// is computed right away only if none is cached yet.
func (f *FaceImage) SetDimension(width, height int) error {
	dim := Dimension{Width: width, Height: height}
	if !dim.valid() {
		return fmt.Errorf("%w: dimension %dx%d", ErrInvalidConfig, width, height)
	}
	f.dimension = dim
	if !f.hasScaled() {
		f.updateScaled()
	}
	return nil
}

// DetectionConfig returns the current detection settings.
func (f *FaceImage) DetectionConfig() DetectionConfig {
	return f.detection
}

// CropConfig returns the current crop settings.
func (f *FaceImage) CropConfig() CropConfig {
	return f.crop
}

// Dimension returns the current output size.
func (f *FaceImage) Dimension() Dimension {
	return f.dimension
}
