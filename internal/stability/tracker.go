// Package stability debounces per-frame classification results into a
// stable reading.
package stability

import (
	"fmt"

	"github.com/ayusman/litmus/internal/classifier"
)

// Config holds the debounce parameters.
type Config struct {
	// Threshold is the number of repeated frames, after the first frame of a
	// label, needed before the label is stable.
	Threshold int `yaml:"threshold"`
	// MaxMissedFrames is how many consecutive misses are tolerated before the
	// streak is dropped.
	MaxMissedFrames int `yaml:"max_missed_frames"`
}

// DefaultConfig returns threshold 3 and a miss tolerance of 10 frames.
func DefaultConfig() Config {
	return Config{
		Threshold:       3,
		MaxMissedFrames: 10,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Threshold < 1 {
		return fmt.Errorf("stability threshold must be at least 1, got %d", c.Threshold)
	}
	if c.MaxMissedFrames < 0 {
		return fmt.Errorf("max missed frames must be non-negative, got %d", c.MaxMissedFrames)
	}
	return nil
}

// Phase summarises the tracker state.
type Phase int

const (
	// Unseen means nothing has matched since start or Reset.
	Unseen Phase = iota
	// Tracking means a label is accumulating matches.
	Tracking
	// Stable means the streak has reached the threshold.
	Stable
	// Degraded means the miss limit was exceeded. The label is cleared and
	// StableLabel is kept.
	Degraded
)

func (p Phase) String() string {
	switch p {
	case Unseen:
		return "unseen"
	case Tracking:
		return "tracking"
	case Stable:
		return "stable"
	case Degraded:
		return "degraded"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// State is the tracker memory carried between frames.
type State struct {
	LastLabel          string
	ConsecutiveMatches int
	MissStreak         int
	StableLabel        string
	LastRegion         *classifier.Region
	// Seen is set by the first match and cleared only by Reset.
	Seen bool
}

// Output is the per-frame view of the tracker.
type Output struct {
	CurrentLabel  string
	CurrentRegion *classifier.Region
	// Progress is ConsecutiveMatches/Threshold, in [0, 1].
	Progress float64
	IsStable bool
	// StableLabel is the last label that reached the threshold. It survives
	// a dropped streak.
	StableLabel string
	// StableRegion is set only when this frame matched and the streak is stable.
	StableRegion *classifier.Region
	Phase        Phase
}

// Tracker is the debounce state machine. It is not safe for concurrent use;
// the frame loop owns it.
type Tracker struct {
	cfg   Config
	state State
}

// New creates a Tracker. Non-positive values in cfg fall back to defaults.
func New(cfg Config) *Tracker {
	def := DefaultConfig()
	if cfg.Threshold < 1 {
		cfg.Threshold = def.Threshold
	}
	if cfg.MaxMissedFrames < 0 {
		cfg.MaxMissedFrames = def.MaxMissedFrames
	}
	return &Tracker{cfg: cfg}
}

// Config returns the tracker configuration.
func (t *Tracker) Config() Config {
	return t.cfg
}

// State returns a copy of the current state.
func (t *Tracker) State() State {
	return t.state
}

// Reset clears all state, the stable label included.
func (t *Tracker) Reset() {
	t.state = State{}
}

// Update advances the state machine by one frame.
func (t *Tracker) Update(res classifier.Result) Output {
	s := &t.state

	if res.Matched() {
		label := res.Class.ID
		s.Seen = true
		s.MissStreak = 0
		if label == s.LastLabel {
			if s.ConsecutiveMatches < t.cfg.Threshold {
				s.ConsecutiveMatches++
			}
		} else {
			s.LastLabel = label
			s.ConsecutiveMatches = 0
		}
		region := *res.Region
		s.LastRegion = &region

		out := t.output(label, &region)
		if out.IsStable {
			s.StableLabel = label
			out.StableLabel = label
			out.StableRegion = &region
		}
		return out
	}

	s.MissStreak++
	if s.MissStreak > t.cfg.MaxMissedFrames {
		s.ConsecutiveMatches = 0
		s.LastLabel = ""
		s.LastRegion = nil
	}
	return t.output(s.LastLabel, nil)
}

func (t *Tracker) output(label string, region *classifier.Region) Output {
	s := t.state
	out := Output{
		CurrentLabel:  label,
		CurrentRegion: region,
		Progress:      float64(s.ConsecutiveMatches) / float64(t.cfg.Threshold),
		IsStable:      s.ConsecutiveMatches >= t.cfg.Threshold,
		StableLabel:   s.StableLabel,
	}

	switch {
	case s.Seen && s.MissStreak > t.cfg.MaxMissedFrames:
		out.Phase = Degraded
	case s.LastLabel == "":
		out.Phase = Unseen
	case out.IsStable:
		out.Phase = Stable
	default:
		out.Phase = Tracking
	}
	return out
}
