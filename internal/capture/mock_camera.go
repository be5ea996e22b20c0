package capture

import (
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// MockCamera plays back pre-recorded frames for testing
type MockCamera struct {
	frames  []*gocv.Mat
	index   int
	loop    bool
	mu      sync.Mutex
	running bool

	resets   int
	readErr  error
	resetErr error
}

// NewMockCamera creates a MockCamera over frames. The frames stay owned by
// the caller.
func NewMockCamera(frames []*gocv.Mat, loop bool) *MockCamera {
	return &MockCamera{
		frames: frames,
		loop:   loop,
	}
}

// ResetAndConfigure opens the mock and rewinds playback.
func (c *MockCamera) ResetAndConfigure() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resets++
	if c.resetErr != nil {
		return c.resetErr
	}
	c.running = true
	c.index = 0
	c.readErr = nil
	return nil
}

func (c *MockCamera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = false
	return nil
}

// NextFrame returns a clone of the next frame.
func (c *MockCamera) NextFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return nil, ErrCameraNotOpen
	}
	if c.readErr != nil {
		return nil, c.readErr
	}

	if len(c.frames) == 0 {
		return nil, fmt.Errorf("%w: no frames available", ErrAcquisition)
	}

	if c.index >= len(c.frames) {
		if c.loop {
			c.index = 0
		} else {
			return nil, fmt.Errorf("%w: no more frames", ErrAcquisition)
		}
	}

	// Clone the frame so the original isn't modified
	frame := c.frames[c.index].Clone()
	c.index++

	return &frame, nil
}

func (c *MockCamera) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// SetFrames replaces the frame sequence
func (c *MockCamera) SetFrames(frames []*gocv.Mat) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = frames
	c.index = 0
}

// FailReads makes NextFrame return err until the next successful reset.
func (c *MockCamera) FailReads(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.readErr = err
}

// FailResets makes ResetAndConfigure return err. Pass nil to clear.
func (c *MockCamera) FailResets(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetErr = err
}

// Resets returns how many times ResetAndConfigure was called.
func (c *MockCamera) Resets() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resets
}
