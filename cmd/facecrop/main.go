package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/esimov/facecrop"
	"github.com/esimov/facecrop/utils"
	"github.com/sirupsen/logrus"
)

const HelpBanner = `
┌─┐┌─┐┌─┐┌─┐┌─┐┬─┐┌─┐┌─┐
├┤ ├─┤│  ├┤ │  ├┬┘│ │├─┘
└  ┴ ┴└─┘└─┘└─┘┴└─└─┘┴

Face detection based profile picture generator.
    Version: %s

`

// pipeName is the file name that indicates stdin/stdout is being used.
const pipeName = "-"

// Version indicates the current build version.
var Version string

// newDetector is replaced by the OpenCV based detector in gocv builds.
var newDetector func() facecrop.Detector

var (
	// Flags
	source        = flag.String("in", pipeName, "Source image, directory or URL")
	destination   = flag.String("out", pipeName, "Destination image or directory")
	cascade       = flag.String("cc", "", "Cascade classifier")
	minScale      = flag.Int("minscale", 1, "The finest detection scale")
	maxScale      = flag.Int("maxscale", 30, "The coarsest detection scale")
	windowSize    = flag.Int("window", 20, "Detection window size at scale 1")
	shiftFactor   = flag.Float64("shift", 0.1, "Detection window shift factor")
	faceAngle     = flag.Float64("angle", 0.0, "Plane rotated faces angle")
	noCrop        = flag.Int("nocrop", 3, "Threshold multiplier above which the image is not cropped")
	padding       = flag.Int("padding", 40, "Additional padding around the face")
	newWidth      = flag.Int("width", 150, "Profile picture width")
	newHeight     = flag.Int("height", 150, "Profile picture height")
	noScale       = flag.Bool("noscale", false, "Keep the cropped profile picture unscaled")
	selectionType = flag.String("select", "first", "Face selection strategy: first, largest")
	shapeType     = flag.String("shape", "square", "Profile picture shape: square, circle")
	workers       = flag.Int("conc", runtime.NumCPU(), "Number of files to process concurrently")
	debug         = flag.Bool("debug", false, "Show the debug messages")
)

func main() {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, HelpBanner, Version)
		flag.PrintDefaults()
	}
	flag.Parse()

	if *debug {
		log.SetLevel(logrus.DebugLevel)
	}

	if len(*cascade) == 0 {
		flag.Usage()
		log.Fatal(utils.DecorateText("Please specify a face classifier with the -cc flag!", utils.ErrorMessage))
	}

	classifier, err := os.ReadFile(*cascade)
	if err != nil {
		log.Fatalf(utils.DecorateText("Error reading the cascade file: %v", utils.ErrorMessage), err)
	}

	shape, err := facecrop.ParseShape(*shapeType)
	if err != nil {
		log.Fatal(utils.DecorateText(err.Error(), utils.ErrorMessage))
	}

	var selector facecrop.Selector
	switch *selectionType {
	case "first":
		selector = facecrop.FirstCandidate
	case "largest":
		selector = facecrop.LargestCandidate
	default:
		log.Fatalf(utils.DecorateText("Unsupported selection strategy: %s", utils.ErrorMessage), *selectionType)
	}

	proc := facecrop.NewProcessor(classifier)
	proc.NewDetector = newDetector
	proc.Selector = selector
	proc.Logger = log
	proc.Shape = shape
	proc.NoScale = *noScale
	proc.Detection = facecrop.DetectionConfig{
		MinScale:    *minScale,
		MaxScale:    *maxScale,
		WindowSize:  *windowSize,
		ShiftFactor: *shiftFactor,
		Angle:       *faceAngle,
	}
	proc.Crop = facecrop.CropConfig{
		NoCropMultiplier:  *noCrop,
		AdditionalPadding: *padding,
	}
	proc.Dimension = facecrop.Dimension{
		Width:  *newWidth,
		Height: *newHeight,
	}

	op := &facecrop.Ops{
		Src:      *source,
		Dst:      *destination,
		PipeName: pipeName,
		Workers:  *workers,
	}
	if err := proc.Execute(op); err != nil {
		log.Fatal(utils.DecorateText(err.Error(), utils.ErrorMessage))
	}
}
