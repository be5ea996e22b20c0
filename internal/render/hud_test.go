package render

import (
	"image"
	"testing"

	"github.com/ayusman/litmus/internal/classifier"
	"github.com/ayusman/litmus/internal/colorclass"
	"github.com/ayusman/litmus/testdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

var yellow = colorclass.Class{
	ID:        "pH5",
	Name:      "yellow",
	Signature: colorclass.Sig(45, 80, -10, 90, 50, 130),
	Display:   colorclass.RGB{R: 255, G: 200},
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		stable, matched bool
		want            Status
		word            string
	}{
		{true, true, StatusStable, "Stable"},
		{true, false, StatusStable, "Stable"},
		{false, true, StatusDetecting, "Detecting"},
		{false, false, StatusNone, "None"},
	}
	for _, tt := range tests {
		got := StatusOf(tt.stable, tt.matched)
		assert.Equal(t, tt.want, got)
		assert.Equal(t, tt.word, got.String())
	}
	assert.Equal(t, Green, StatusStable.Color())
	assert.Equal(t, Yellow, StatusDetecting.Color())
	assert.Equal(t, Red, StatusNone.Color())
}

func TestDrawDetection(t *testing.T) {
	rec := &Recorder{}
	region := classifier.Region{Rect: image.Rect(40, 30, 60, 50), Centroid: image.Pt(50, 40), Pixels: 400}

	DrawDetection(rec, yellow, region)

	require.Len(t, rec.Ops, 3)
	assert.Equal(t, "rect", rec.Ops[0].Kind)
	assert.Equal(t, region.Rect, rec.Ops[0].Rect)
	assert.Equal(t, yellow.Display.RGBA(), rec.Ops[0].Color)
	assert.Equal(t, "cross", rec.Ops[1].Kind)
	assert.Equal(t, image.Pt(50, 40), rec.Ops[1].Point)
	assert.Equal(t, []string{"pH5 (yellow)"}, rec.Texts())
}

func TestDrawDetection_LabelClampedToFrame(t *testing.T) {
	rec := &Recorder{}
	DrawDetection(rec, yellow, classifier.Region{Rect: image.Rect(2, 3, 20, 20)})

	pos := rec.Ops[2].Point
	assert.Equal(t, 0, pos.X)
	assert.Equal(t, 12, pos.Y)
}

func TestDrawStable(t *testing.T) {
	rec := &Recorder{}
	DrawStable(rec, yellow, image.Pt(160, 120))

	assert.Equal(t, []string{"pH: 5"}, rec.Texts())
	assert.Equal(t, "pH: 14", StableText("pH14"))
}

func TestDrawHUD(t *testing.T) {
	rec := &Recorder{}
	DrawHUD(rec, Info{
		Size:   image.Pt(160, 120),
		FPS:    12.34,
		Status: StatusDetecting,
		Window: image.Rect(20, 10, 140, 110),
	})
	assert.Equal(t, []string{"FPS: 12.3", "Detecting"}, rec.Texts())
	assert.Equal(t, image.Rect(20, 10, 140, 110), rec.Ops[2].Rect)

	rec.Reset()
	region := classifier.Region{Rect: image.Rect(0, 0, 10, 12)}
	DrawHUD(rec, Info{
		Size:   image.Pt(160, 120),
		Status: StatusStable,
		Region: &region,
		Lab:    [3]float64{55.2, -21.4, 47.6},
	})
	assert.Equal(t, []string{"FPS: 0.0", "Stable", "Area: 120", "L:55 A:-21 B:48"}, rec.Texts())
}

func TestSampleLab(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	frame := testdata.SwatchFrame(image.Rect(40, 40, 60, 60), testdata.OliveGreen)
	defer frame.Close()

	lab, ok := SampleLab(&frame, image.Pt(50, 50))
	require.True(t, ok)
	assert.InDelta(t, 55, lab[0], 1.5)
	assert.InDelta(t, -21, lab[1], 1.5)
	assert.InDelta(t, 48, lab[2], 1.5)

	_, ok = SampleLab(&frame, image.Pt(500, 50))
	assert.False(t, ok)
}

func TestMatOverlay_Draws(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	frame := gocv.NewMatWithSize(120, 160, gocv.MatTypeCV8UC3)
	defer frame.Close()

	o := NewMatOverlay(&frame)
	o.Rectangle(image.Rect(10, 10, 30, 30), Green, 1)
	o.Cross(image.Pt(80, 60), Red, 6)
	o.Text(image.Pt(5, 14), "FPS: 9.0", White, 0.4)

	// Top-left corner of the rectangle is green in BGR.
	v := frame.GetVecbAt(10, 10)
	assert.Equal(t, []uint8{0, 255, 0}, []uint8{v[0], v[1], v[2]})
	// The cross centre is red.
	v = frame.GetVecbAt(60, 80)
	assert.Equal(t, []uint8{0, 0, 255}, []uint8{v[0], v[1], v[2]})
}
