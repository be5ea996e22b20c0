// Package render draws detection overlays and the status HUD on frames.
package render

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// Overlay draws on the current frame.
type Overlay interface {
	Rectangle(r image.Rectangle, c color.RGBA, thickness int)
	Cross(center image.Point, c color.RGBA, size int)
	Text(pos image.Point, text string, c color.RGBA, scale float64)
}

// MatOverlay draws onto a gocv Mat.
type MatOverlay struct {
	mat *gocv.Mat
}

// NewMatOverlay wraps mat. The Mat stays owned by the caller.
func NewMatOverlay(mat *gocv.Mat) *MatOverlay {
	return &MatOverlay{mat: mat}
}

func (o *MatOverlay) Rectangle(r image.Rectangle, c color.RGBA, thickness int) {
	gocv.Rectangle(o.mat, r, c, thickness)
}

func (o *MatOverlay) Cross(center image.Point, c color.RGBA, size int) {
	h := size / 2
	gocv.Line(o.mat, image.Pt(center.X-h, center.Y), image.Pt(center.X+h, center.Y), c, 1)
	gocv.Line(o.mat, image.Pt(center.X, center.Y-h), image.Pt(center.X, center.Y+h), c, 1)
}

// Text draws with the Hershey simplex font. pos is the baseline origin.
func (o *MatOverlay) Text(pos image.Point, text string, c color.RGBA, scale float64) {
	thickness := 1
	if scale >= 1 {
		thickness = 2
	}
	gocv.PutText(o.mat, text, pos, gocv.FontHersheySimplex, scale, c, thickness)
}

// Nop discards all drawing.
type Nop struct{}

func (Nop) Rectangle(image.Rectangle, color.RGBA, int)    {}
func (Nop) Cross(image.Point, color.RGBA, int)            {}
func (Nop) Text(image.Point, string, color.RGBA, float64) {}

// Op is one recorded drawing call.
type Op struct {
	Kind  string
	Rect  image.Rectangle
	Point image.Point
	Text  string
	Color color.RGBA
	Scale float64
}

// Recorder keeps every drawing call, for tests.
type Recorder struct {
	Ops []Op
}

func (r *Recorder) Rectangle(rect image.Rectangle, c color.RGBA, thickness int) {
	r.Ops = append(r.Ops, Op{Kind: "rect", Rect: rect, Color: c})
}

func (r *Recorder) Cross(center image.Point, c color.RGBA, size int) {
	r.Ops = append(r.Ops, Op{Kind: "cross", Point: center, Color: c})
}

func (r *Recorder) Text(pos image.Point, text string, c color.RGBA, scale float64) {
	r.Ops = append(r.Ops, Op{Kind: "text", Point: pos, Text: text, Color: c, Scale: scale})
}

// Texts returns the recorded strings in draw order.
func (r *Recorder) Texts() []string {
	var out []string
	for _, op := range r.Ops {
		if op.Kind == "text" {
			out = append(out, op.Text)
		}
	}
	return out
}

// Reset drops all recorded calls.
func (r *Recorder) Reset() {
	r.Ops = r.Ops[:0]
}
