package capture

import (
	"errors"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
)

func writeSwatch(t *testing.T, path string, w, h int, c color.NRGBA) {
	t.Helper()
	img := imaging.New(w, h, c)
	if err := imaging.Save(img, path); err != nil {
		t.Fatalf("save %s: %v", path, err)
	}
}

func TestReplayCamera_EmptyDir(t *testing.T) {
	cam := NewReplayCamera(t.TempDir(), 160, 120)

	err := cam.ResetAndConfigure()
	if !errors.Is(err, ErrAcquisition) {
		t.Errorf("ResetAndConfigure() error = %v, want ErrAcquisition", err)
	}
	if cam.IsOpen() {
		t.Error("camera should stay closed")
	}
}

func TestReplayCamera_NotOpen(t *testing.T) {
	cam := NewReplayCamera(t.TempDir(), 160, 120)
	if _, err := cam.NextFrame(); !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("NextFrame() error = %v, want ErrCameraNotOpen", err)
	}
}

func TestReplayCamera_Playback(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	dir := t.TempDir()
	writeSwatch(t, filepath.Join(dir, "a.png"), 320, 240, color.NRGBA{R: 200, G: 40, B: 40, A: 255})
	writeSwatch(t, filepath.Join(dir, "b.png"), 160, 120, color.NRGBA{R: 120, G: 140, B: 40, A: 255})

	cam := NewReplayCamera(dir, 160, 120)
	if err := cam.ResetAndConfigure(); err != nil {
		t.Fatalf("ResetAndConfigure() error = %v", err)
	}
	defer cam.Close()

	// a.png, b.png, then back to a.png.
	wantBGR := [][3]uint8{{40, 40, 200}, {40, 140, 120}, {40, 40, 200}}
	for i, want := range wantBGR {
		frame, err := cam.NextFrame()
		if err != nil {
			t.Fatalf("NextFrame() %d error = %v", i, err)
		}
		if frame.Cols() != 160 || frame.Rows() != 120 {
			t.Errorf("frame %d size = %dx%d, want 160x120", i, frame.Cols(), frame.Rows())
		}
		v := frame.GetVecbAt(60, 80)
		for ch := 0; ch < 3; ch++ {
			if d := int(v[ch]) - int(want[ch]); d < -2 || d > 2 {
				t.Errorf("frame %d centre BGR = %v, want %v", i, v, want)
				break
			}
		}
		frame.Close()
	}
}

func TestListImages_Sorted(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"c.jpg", "a.png", "b.JPEG", "skip.gif"} {
		writeSwatch(t, filepath.Join(dir, name), 4, 4, color.NRGBA{A: 255})
	}

	files, err := listImages(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"a.png", "b.JPEG", "c.jpg"}
	if len(files) != len(want) {
		t.Fatalf("got %d files, want %d", len(files), len(want))
	}
	for i, f := range files {
		if filepath.Base(f) != want[i] {
			t.Errorf("files[%d] = %s, want %s", i, filepath.Base(f), want[i])
		}
	}
}
