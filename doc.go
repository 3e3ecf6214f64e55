/*
Package facecrop generates profile pictures from portraits. It finds a face in the source image
with the pigo cascade classifier, cuts it out with some padding around it and scales the result
to the requested size.

The package provides a command line interface, supporting various flags for tuning the detection,
the crop and the output. To check the supported commands type:

	$ facecrop --help

In case you wish to integrate the API in a self constructed environment here is a simple example:

	package main

	import (
		"fmt"
		"os"

		"github.com/esimov/facecrop"
	)

	func main() {
		cascade, err := os.ReadFile("facefinder")
		if err != nil {
			fmt.Printf("Error reading the cascade file: %s", err.Error())
			return
		}

		face, err := facecrop.New(img, facecrop.WithCascade(cascade))
		if err != nil {
			fmt.Printf("Error detecting the face: %s", err.Error())
			return
		}
		if face.FoundFace() {
			avatar := face.ScaledProfileFace()
			// Encode the avatar.
		}
	}
*/
package facecrop
