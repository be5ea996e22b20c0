package render

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/ayusman/litmus/internal/classifier"
	"github.com/ayusman/litmus/internal/colorclass"
	"gocv.io/x/gocv"
)

// HUD colours
var (
	White  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Gray   = color.RGBA{R: 100, G: 100, B: 100, A: 255}
	Green  = color.RGBA{G: 255, A: 255}
	Yellow = color.RGBA{R: 255, G: 255, A: 255}
	Red    = color.RGBA{R: 255, A: 255}
)

// Status is the detection state shown in the HUD corner.
type Status int

const (
	StatusNone Status = iota
	StatusDetecting
	StatusStable
)

// StatusOf picks the HUD status. A stable streak wins over a plain match.
func StatusOf(stable, matched bool) Status {
	switch {
	case stable:
		return StatusStable
	case matched:
		return StatusDetecting
	default:
		return StatusNone
	}
}

func (s Status) String() string {
	switch s {
	case StatusStable:
		return "Stable"
	case StatusDetecting:
		return "Detecting"
	default:
		return "None"
	}
}

// Color returns the status colour: green, yellow or red.
func (s Status) Color() color.RGBA {
	switch s {
	case StatusStable:
		return Green
	case StatusDetecting:
		return Yellow
	default:
		return Red
	}
}

// DrawDetection outlines the region in the class colour, marks its
// centroid and writes the class label above it.
func DrawDetection(o Overlay, c colorclass.Class, r classifier.Region) {
	col := c.Display.RGBA()
	o.Rectangle(r.Rect, col, 2)
	o.Cross(r.Centroid, col, 6)
	o.Text(image.Pt(max(0, r.Rect.Min.X-5), max(12, r.Rect.Min.Y-4)), c.Label(), col, 0.4)
}

// StableText returns the large overlay text for a class id, "pH: 7" for "pH7".
func StableText(id string) string {
	return "pH: " + strings.TrimPrefix(id, "pH")
}

// DrawStable writes the stable reading large at the bottom centre of a
// frame of the given size.
func DrawStable(o Overlay, c colorclass.Class, size image.Point) {
	o.Text(image.Pt(size.X/2-35, size.Y-8), StableText(c.ID), c.Display.RGBA(), 0.8)
}

// Info is the per-frame HUD content.
type Info struct {
	Size   image.Point
	FPS    float64
	Status Status
	Window image.Rectangle
	// Region and Lab are drawn only when a region matched.
	Region *classifier.Region
	Lab    [3]float64
}

// DrawHUD draws the frame rate, status word, search window outline and,
// with a region, its area and centre Lab value.
func DrawHUD(o Overlay, info Info) {
	o.Text(image.Pt(5, 14), fmt.Sprintf("FPS: %.1f", info.FPS), White, 0.4)
	o.Text(image.Pt(info.Size.X-70, 14), info.Status.String(), info.Status.Color(), 0.4)
	o.Rectangle(info.Window, Gray, 1)

	if info.Region == nil {
		return
	}
	o.Text(image.Pt(5, info.Size.Y-22), fmt.Sprintf("Area: %d", info.Region.Area()), White, 0.35)
	o.Text(image.Pt(5, info.Size.Y-36), LabText(info.Lab), White, 0.35)
}

// LabText formats a Lab triple as "L:55 A:-21 B:48".
func LabText(lab [3]float64) string {
	return fmt.Sprintf("L:%.0f A:%.0f B:%.0f", lab[0], lab[1], lab[2])
}

// SampleLab reads the BGR pixel at p and converts it to Lab. It returns
// false when p is outside the frame.
func SampleLab(frame *gocv.Mat, p image.Point) ([3]float64, bool) {
	if frame == nil || frame.Empty() || !p.In(image.Rect(0, 0, frame.Cols(), frame.Rows())) {
		return [3]float64{}, false
	}
	v := frame.GetVecbAt(p.Y, p.X)
	l, a, b := colorclass.LabOf(color.RGBA{R: v[2], G: v[1], B: v[0], A: 255})
	return [3]float64{l, a, b}, true
}
