//go:build gocv

package main

import "github.com/esimov/facecrop"

// With the gocv tag the -cc flag expects an OpenCV cascade in XML format.
func init() {
	newDetector = func() facecrop.Detector {
		return facecrop.NewGocvDetector()
	}
}
