// Package testdata builds synthetic camera frames for tests.
package testdata

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// Sensor window size produced by the camera after cropping.
const (
	FrameWidth  = 160
	FrameHeight = 120
)

// Swatch colours, chosen so that the first matching class in the default
// table is the one named.
var (
	// OliveGreen lands in pH7 first (pH8..pH10 also match).
	OliveGreen = color.RGBA{R: 120, G: 140, B: 40, A: 255}
	// BrickRed lands in pH1 first (pH2..pH4 also match).
	BrickRed = color.RGBA{R: 200, G: 40, B: 40, A: 255}
	// Black matches no class.
	Black = color.RGBA{A: 255}
)

// SwatchFrame returns a black BGR frame with patch painted in c.
// The caller must Close the returned Mat.
func SwatchFrame(patch image.Rectangle, c color.RGBA) gocv.Mat {
	frame := gocv.NewMatWithSize(FrameHeight, FrameWidth, gocv.MatTypeCV8UC3)
	patch = patch.Intersect(image.Rect(0, 0, FrameWidth, FrameHeight))
	if patch.Empty() {
		return frame
	}

	roi := frame.Region(patch)
	roi.SetTo(gocv.NewScalar(float64(c.B), float64(c.G), float64(c.R), 0))
	roi.Close()

	return frame
}

// SwatchSequence returns n copies of the same swatch frame.
func SwatchSequence(n int, patch image.Rectangle, c color.RGBA) []*gocv.Mat {
	frames := make([]*gocv.Mat, 0, n)
	for i := 0; i < n; i++ {
		f := SwatchFrame(patch, c)
		frames = append(frames, &f)
	}
	return frames
}

// CloseAll releases every frame in frames.
func CloseAll(frames []*gocv.Mat) {
	for _, f := range frames {
		if f != nil {
			f.Close()
		}
	}
}
