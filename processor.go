package facecrop

import (
	"image"
	"io"

	"github.com/esimov/facecrop/utils"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ErrNoFace is returned by the Processor when the image does not contain a face.
var ErrNoFace = errors.New("no face found in the image")

// Processor options
type Processor struct {
	// Cascade is the classifier data handed over to the detector.
	Cascade []byte
	// NewDetector creates the detector used for one image. Defaults to NewPigoDetector.
	NewDetector func() Detector
	Selector    Selector
	Logger      logrus.FieldLogger
	Spinner     *utils.Spinner

	Detection DetectionConfig
	Crop      CropConfig
	Dimension Dimension
	Shape     ShapeType
	NoScale   bool
}

// NewProcessor returns a Processor with the default settings.
func NewProcessor(cascade []byte) *Processor {
	return &Processor{
		Cascade:   cascade,
		Selector:  FirstCandidate,
		Detection: DefaultDetectionConfig(),
		Crop:      DefaultCropConfig(),
		Dimension: DefaultDimension(),
		Shape:     Square,
	}
}

func (p *Processor) options() []Option {
	detector := Detector(NewPigoDetector())
	if p.NewDetector != nil {
		detector = p.NewDetector()
	}
	opts := []Option{
		WithDetector(detector),
		WithDetectionConfig(p.Detection),
		WithCascade(p.Cascade),
		WithCropConfig(p.Crop),
		WithDimension(p.Dimension),
	}
	if p.Selector != nil {
		opts = append(opts, WithSelector(p.Selector))
	}
	if p.Logger != nil {
		opts = append(opts, WithLogger(p.Logger))
	}
	return opts
}

// Render detects the face in the image and returns the profile picture
// together with the selected face rectangle.
func (p *Processor) Render(img image.Image) (image.Image, Rect, error) {
	face, err := New(img, p.options()...)
	if err != nil {
		return nil, Rect{}, err
	}
	if !face.FoundFace() {
		return nil, Rect{}, ErrNoFace
	}

	var out image.Image
	if p.NoScale {
		out = face.ProfileFace()
	} else {
		out = face.ScaledProfileFace()
	}
	if p.Shape == Circle {
		out = circleMask(out)
	}
	rect, _ := face.FaceRect()

	return out, rect, nil
}

// Process decodes the source image and encodes the profile picture into an io.Writer.
// We are using the io package, since we can provide different input and output types,
// as long as they implement the io.Reader and io.Writer interface.
func (p *Processor) Process(r io.Reader, w io.Writer) error {
	src, err := decodeImg(r)
	if err != nil {
		return err
	}

	out, rect, err := p.Render(src)
	if err != nil {
		return errors.Wrap(err, "could not create the profile picture")
	}

	if p.Logger != nil {
		p.Logger.WithFields(logrus.Fields{
			"face":   rect.String(),
			"width":  out.Bounds().Dx(),
			"height": out.Bounds().Dy(),
		}).Debug("profile picture rendered")
	}

	// Transparent corners need a format supporting the alpha channel.
	fallback := ".jpg"
	if p.Shape == Circle {
		fallback = ".png"
	}
	return encodeImg(w, out, fallback)
}
