package capture

import (
	"errors"
	"testing"

	"gocv.io/x/gocv"
)

func TestMockCamera_Playback(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	// Create test frames
	frame1 := gocv.NewMatWithSize(120, 160, gocv.MatTypeCV8UC3)
	defer frame1.Close()
	frame2 := gocv.NewMatWithSize(120, 160, gocv.MatTypeCV8UC3)
	defer frame2.Close()

	cam := NewMockCamera([]*gocv.Mat{&frame1, &frame2}, false)

	if err := cam.ResetAndConfigure(); err != nil {
		t.Fatalf("ResetAndConfigure() error = %v", err)
	}
	defer cam.Close()

	// Read both frames
	for i := 0; i < 2; i++ {
		f, err := cam.NextFrame()
		if err != nil {
			t.Fatalf("NextFrame() %d error = %v", i, err)
		}
		f.Close()
	}

	// Third read should fail (no loop)
	_, err := cam.NextFrame()
	if !errors.Is(err, ErrAcquisition) {
		t.Errorf("expected ErrAcquisition after all frames consumed, got %v", err)
	}
}

func TestMockCamera_Loop(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	frame := gocv.NewMatWithSize(120, 160, gocv.MatTypeCV8UC3)
	defer frame.Close()

	cam := NewMockCamera([]*gocv.Mat{&frame}, true)
	cam.ResetAndConfigure()
	defer cam.Close()

	// Should loop indefinitely
	for i := 0; i < 5; i++ {
		f, err := cam.NextFrame()
		if err != nil {
			t.Fatalf("NextFrame() iteration %d error = %v", i, err)
		}
		f.Close()
	}
}

func TestMockCamera_NotOpen(t *testing.T) {
	cam := NewMockCamera(nil, false)

	_, err := cam.NextFrame()
	if !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("NextFrame() error = %v, want ErrCameraNotOpen", err)
	}
}

func TestMockCamera_FailuresAndResets(t *testing.T) {
	cam := NewMockCamera(nil, true)
	if err := cam.ResetAndConfigure(); err != nil {
		t.Fatal(err)
	}

	boom := errors.New("usb unplugged")
	cam.FailReads(boom)
	if _, err := cam.NextFrame(); !errors.Is(err, boom) {
		t.Errorf("NextFrame() error = %v, want injected error", err)
	}

	// A reset clears the read failure.
	cam.ResetAndConfigure()
	if _, err := cam.NextFrame(); errors.Is(err, boom) {
		t.Error("read failure should clear after reset")
	}

	cam.FailResets(boom)
	if err := cam.ResetAndConfigure(); !errors.Is(err, boom) {
		t.Errorf("ResetAndConfigure() error = %v, want injected error", err)
	}

	if got := cam.Resets(); got != 3 {
		t.Errorf("Resets() = %d, want 3", got)
	}
}
