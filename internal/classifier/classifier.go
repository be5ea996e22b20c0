// Package classifier finds the best-matching colour class inside a fixed
// search window of a frame.
package classifier

import (
	"errors"
	"fmt"
	"image"

	"github.com/ayusman/litmus/internal/colorclass"
	"gocv.io/x/gocv"
)

var (
	// ErrEmptyFrame is returned when the frame has no pixels.
	ErrEmptyFrame = errors.New("frame is empty")
	// ErrWindow is returned when the search window misses the frame entirely.
	ErrWindow = errors.New("search window outside frame")
)

// Config holds the detection parameters.
type Config struct {
	// MinPixels is the minimum number of matching pixels in a region.
	MinPixels int
	// MinArea is the minimum bounding-box area of a region.
	MinArea int
	// Step is the x/y stride of the pixel scan; 1 tests every pixel. A match
	// covers its whole step x step cell in the region box, so MinArea does not
	// depend on Step.
	Step int
	// MergeMargin grows boxes before adjacent groups are merged.
	MergeMargin int
	// Window is the search window in frame coordinates.
	Window image.Rectangle
}

// DefaultConfig returns the tuned defaults for a 160x120 sensor window.
func DefaultConfig() Config {
	return Config{
		MinPixels:   15,
		MinArea:     50,
		Step:        1,
		MergeMargin: 1,
		Window:      image.Rect(20, 10, 140, 110),
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.MinPixels < 0 || c.MinArea < 0 {
		return fmt.Errorf("thresholds must be non-negative (min_pixels=%d, min_area=%d)", c.MinPixels, c.MinArea)
	}
	if c.Step < 1 {
		return fmt.Errorf("step must be at least 1, got %d", c.Step)
	}
	if c.MergeMargin < 0 {
		return fmt.Errorf("merge margin must be non-negative, got %d", c.MergeMargin)
	}
	if c.Window.Empty() {
		return fmt.Errorf("search window %v is empty", c.Window)
	}
	return nil
}

// Result is the outcome of classifying one frame. Both fields are nil when
// nothing matched.
type Result struct {
	Class  *colorclass.Class
	Region *Region
}

// Matched reports whether the result carries a class and region.
func (r Result) Matched() bool {
	return r.Class != nil && r.Region != nil
}

// Label returns the matched class id, or "" for no match.
func (r Result) Label() string {
	if !r.Matched() {
		return ""
	}
	return r.Class.ID
}

// Match builds a matched result. It copies both arguments.
func Match(c colorclass.Class, r Region) Result {
	return Result{Class: &c, Region: &r}
}

// RegionClassifier classifies one frame over a search window.
type RegionClassifier interface {
	Classify(frame *gocv.Mat, window image.Rectangle) (Result, error)
}

// ClassifyLab runs every class over img in order and returns the class with
// the largest eligible region. A later class replaces the running best only
// with a strictly larger area, so ties go to the earlier class.
func ClassifyLab(img *LabImage, classes []colorclass.Class, cfg Config) Result {
	var best Result
	bestArea := 0

	for i := range classes {
		region, ok := largestEligible(FindBlobs(img, classes[i].Signature.CVRange(), cfg.Step, cfg.MergeMargin), cfg)
		if !ok {
			continue
		}
		if area := region.Area(); area > bestArea {
			best = Match(classes[i], region)
			bestArea = area
		}
	}

	return best
}

// largestEligible drops regions below the pixel or area threshold and
// returns the largest survivor by area, first found on ties.
func largestEligible(regions []Region, cfg Config) (Region, bool) {
	var best Region
	found := false
	for _, r := range regions {
		if r.Pixels < cfg.MinPixels || r.Area() < cfg.MinArea {
			continue
		}
		if !found || r.Area() > best.Area() {
			best = r
			found = true
		}
	}
	return best, found
}

// Classifier classifies BGR frames against a class registry.
type Classifier struct {
	classes []colorclass.Class
	cfg     Config
}

// New creates a Classifier over the registry.
func New(set *colorclass.Set, cfg Config) *Classifier {
	return &Classifier{
		classes: set.All(),
		cfg:     cfg,
	}
}

// Config returns the classifier's configuration.
func (c *Classifier) Config() Config {
	return c.cfg
}

// Classify converts the window of frame to Lab and picks the best class.
func (c *Classifier) Classify(frame *gocv.Mat, window image.Rectangle) (Result, error) {
	lab, err := LabFromMat(frame, window)
	if err != nil {
		return Result{}, err
	}
	return ClassifyLab(lab, c.classes, c.cfg), nil
}

// LabFromMat crops window out of a BGR frame and converts it to Lab. The
// window is clipped to the frame.
func LabFromMat(frame *gocv.Mat, window image.Rectangle) (*LabImage, error) {
	if frame == nil || frame.Empty() {
		return nil, ErrEmptyFrame
	}
	if frame.Channels() != 3 {
		return nil, fmt.Errorf("expected a 3-channel BGR frame, got %d channels", frame.Channels())
	}

	bounds := image.Rect(0, 0, frame.Cols(), frame.Rows())
	win := window.Intersect(bounds)
	if win.Empty() {
		return nil, fmt.Errorf("%w: %v not in %v", ErrWindow, window, bounds)
	}

	roi := frame.Region(win)
	defer roi.Close()

	lab := gocv.NewMat()
	defer lab.Close()
	gocv.CvtColor(roi, &lab, gocv.ColorBGRToLab)

	return &LabImage{
		Origin: win.Min,
		Width:  lab.Cols(),
		Height: lab.Rows(),
		Pix:    lab.ToBytes(),
	}, nil
}
