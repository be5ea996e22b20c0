// Package capture acquires BGR frames from a camera using GoCV (OpenCV).
package capture

import (
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/ayusman/litmus/internal/monitoring"
	"gocv.io/x/gocv"
)

// Default camera settings
const (
	DefaultWidth  = 320
	DefaultHeight = 240
	DefaultFormat = "MJPG"
)

// V4L2 value for aperture-priority auto exposure.
const autoExposureOn = 3

var (
	// ErrCameraNotOpen is returned when trying to read from a camera that is not open.
	ErrCameraNotOpen = errors.New("camera is not open")
	// ErrAcquisition is returned when a frame could not be read.
	ErrAcquisition = errors.New("frame acquisition failed")
)

// Camera is the frame source of the pipeline.
type Camera interface {
	// ResetAndConfigure (re)opens and configures the device, then waits for
	// it to settle. It is safe to call repeatedly.
	ResetAndConfigure() error
	// NextFrame blocks until a frame is available. The caller must Close
	// the returned Mat.
	NextFrame() (*gocv.Mat, error)
	Close() error
	IsOpen() bool
}

// Config describes the camera device and its settings.
type Config struct {
	Device int    `yaml:"device"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Format string `yaml:"format"`
	// Window is the sensor crop applied to every frame, in capture
	// coordinates. An empty window keeps the full frame.
	Window image.Rectangle `yaml:"-"`
	// StartupSettle and ResetSettle are how long frames are discarded after
	// the first and later configurations.
	StartupSettle time.Duration `yaml:"startup_settle"`
	ResetSettle   time.Duration `yaml:"reset_settle"`
	// Light asks for the fill light. Plain UVC devices have none.
	Light bool `yaml:"light"`
}

// DefaultConfig returns QVGA capture with a centred 160x120 sensor window.
func DefaultConfig() Config {
	return Config{
		Device:        0,
		Width:         DefaultWidth,
		Height:        DefaultHeight,
		Format:        DefaultFormat,
		Window:        image.Rect(80, 60, 240, 180),
		StartupSettle: 2 * time.Second,
		ResetSettle:   time.Second,
	}
}

// cameraImpl manages video capture from a camera device using GoCV.
type cameraImpl struct {
	cfg        Config
	capture    *gocv.VideoCapture
	mu         sync.Mutex
	running    bool
	configured int
}

// NewCamera creates a Camera for the configured device. The device is not
// opened until ResetAndConfigure.
func NewCamera(cfg Config) Camera {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = DefaultWidth, DefaultHeight
	}
	if cfg.Format == "" {
		cfg.Format = DefaultFormat
	}
	return &cameraImpl{cfg: cfg}
}

// ResetAndConfigure closes any open capture, reopens the device, applies
// format and auto exposure, gain and white balance, and discards frames
// for the settle duration.
func (c *cameraImpl) ResetAndConfigure() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.capture != nil {
		c.capture.Close()
		c.capture = nil
		c.running = false
	}

	capture, err := gocv.OpenVideoCapture(c.cfg.Device)
	if err != nil {
		return fmt.Errorf("open camera %d: %w", c.cfg.Device, err)
	}

	capture.Set(gocv.VideoCaptureFOURCC, float64(capture.ToCodec(c.cfg.Format)))
	capture.Set(gocv.VideoCaptureFrameWidth, float64(c.cfg.Width))
	capture.Set(gocv.VideoCaptureFrameHeight, float64(c.cfg.Height))
	capture.Set(gocv.VideoCaptureAutoExposure, autoExposureOn)
	capture.Set(gocv.VideoCaptureAutoWB, 1)
	capture.Set(gocv.VideoCaptureGain, -1)

	if c.cfg.Light {
		monitoring.Logf("capture: fill light requested but device %d has no light control", c.cfg.Device)
	}

	c.capture = capture
	c.running = true

	settle := c.cfg.ResetSettle
	if c.configured == 0 {
		settle = c.cfg.StartupSettle
	}
	c.configured++

	c.discard(settle)
	return nil
}

// discard reads and drops frames until d has elapsed.
func (c *cameraImpl) discard(d time.Duration) {
	if d <= 0 {
		return
	}
	mat := gocv.NewMat()
	defer mat.Close()

	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if !c.capture.Read(&mat) {
			time.Sleep(10 * time.Millisecond)
		}
	}
}

// Close closes the camera and releases resources.
func (c *cameraImpl) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		c.running = false
		return nil
	}

	err := c.capture.Close()
	c.capture = nil
	c.running = false

	return err
}

// NextFrame reads one frame and crops it to the sensor window.
// The caller is responsible for closing the returned Mat.
func (c *cameraImpl) NextFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		return nil, ErrCameraNotOpen
	}

	mat := gocv.NewMat()
	if ok := c.capture.Read(&mat); !ok {
		mat.Close()
		return nil, fmt.Errorf("%w: read failed on device %d", ErrAcquisition, c.cfg.Device)
	}

	if mat.Empty() {
		mat.Close()
		return nil, fmt.Errorf("%w: empty frame", ErrAcquisition)
	}

	cropped, err := Crop(&mat, c.cfg.Window)
	mat.Close()
	if err != nil {
		return nil, err
	}
	return cropped, nil
}

// IsOpen returns true if the camera is currently open and running.
func (c *cameraImpl) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.running
}

// Crop returns a copy of window out of frame. An empty window copies the
// whole frame. The window is clipped to the frame.
func Crop(frame *gocv.Mat, window image.Rectangle) (*gocv.Mat, error) {
	if window.Empty() {
		out := frame.Clone()
		return &out, nil
	}

	bounds := image.Rect(0, 0, frame.Cols(), frame.Rows())
	win := window.Intersect(bounds)
	if win.Empty() {
		return nil, fmt.Errorf("%w: sensor window %v outside %v", ErrAcquisition, window, bounds)
	}

	roi := frame.Region(win)
	out := roi.Clone()
	roi.Close()
	return &out, nil
}
