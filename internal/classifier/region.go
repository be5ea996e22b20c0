package classifier

import (
	"fmt"
	"image"
)

// Region is a group of matching pixels found inside the search window.
// Coordinates are in frame space. A Region is only meaningful for the frame
// it was found in.
type Region struct {
	Rect     image.Rectangle `json:"rect"`
	Centroid image.Point     `json:"centroid"`
	Pixels   int             `json:"pixels"`
}

// Area is the bounding-box area, the ranking metric between candidates.
func (r Region) Area() int {
	return r.Rect.Dx() * r.Rect.Dy()
}

func (r Region) String() string {
	return fmt.Sprintf("%v c=%v px=%d area=%d", r.Rect, r.Centroid, r.Pixels, r.Area())
}

// LabImage is a window of a frame in OpenCV 8-bit Lab encoding: three bytes
// per pixel, row-major, L scaled to 0..255 and A/B offset by 128.
type LabImage struct {
	Origin image.Point // frame coordinates of the first pixel
	Width  int
	Height int
	Pix    []uint8
}

// NewLabImage allocates a zeroed Lab window at origin.
func NewLabImage(origin image.Point, width, height int) *LabImage {
	return &LabImage{
		Origin: origin,
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*3),
	}
}

// Bounds returns the window in frame coordinates.
func (m *LabImage) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.Width, m.Height).Add(m.Origin)
}

// At returns the Lab bytes at window-local (x, y).
func (m *LabImage) At(x, y int) (l, a, b uint8) {
	i := (y*m.Width + x) * 3
	return m.Pix[i], m.Pix[i+1], m.Pix[i+2]
}

// Fill paints r (frame coordinates, clipped to the window) with one Lab value.
func (m *LabImage) Fill(r image.Rectangle, l, a, b uint8) {
	r = r.Intersect(m.Bounds()).Sub(m.Origin)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			i := (y*m.Width + x) * 3
			m.Pix[i], m.Pix[i+1], m.Pix[i+2] = l, a, b
		}
	}
}
