// Package watchdog decides when degraded frame throughput calls for a
// camera reset.
package watchdog

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// Config holds the watchdog parameters.
type Config struct {
	// MinFPS is the rate below which a reset is requested.
	MinFPS float64 `yaml:"min_fps"`
	// Alpha is the smoothing factor of the reported FPS estimate.
	Alpha float64 `yaml:"alpha"`
	// Window is the number of recent observations kept for Health.
	Window int `yaml:"window"`
}

// DefaultConfig returns a 5 FPS floor.
func DefaultConfig() Config {
	return Config{
		MinFPS: 5,
		Alpha:  0.2,
		Window: 30,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.MinFPS <= 0 {
		return fmt.Errorf("min fps must be positive, got %v", c.MinFPS)
	}
	if c.Alpha <= 0 || c.Alpha > 1 {
		return fmt.Errorf("alpha must be in (0, 1], got %v", c.Alpha)
	}
	if c.Window < 1 {
		return fmt.Errorf("window must be at least 1, got %d", c.Window)
	}
	return nil
}

// Decision is the outcome of one observation.
type Decision int

const (
	// Continue means throughput is acceptable.
	Continue Decision = iota
	// ResetRequired means the caller should reset the camera.
	ResetRequired
)

func (d Decision) String() string {
	if d == ResetRequired {
		return "reset_required"
	}
	return "continue"
}

// Health summarises recent throughput.
type Health struct {
	Last      float64 `json:"last"`
	Smoothed  float64 `json:"smoothed"`
	Mean      float64 `json:"mean"`
	StdDev    float64 `json:"stddev"`
	LowStreak int     `json:"low_streak"`
	Samples   int     `json:"samples"`
	Resets    int     `json:"resets"`
}

// Watchdog tracks frame throughput. It is owned by the frame loop.
type Watchdog struct {
	cfg Config

	last      float64
	smoothed  float64
	primed    bool
	lowStreak int
	resets    int

	ring []float64
	next int
	full bool
}

// New creates a Watchdog. Invalid fields fall back to defaults.
func New(cfg Config) *Watchdog {
	def := DefaultConfig()
	if cfg.MinFPS <= 0 {
		cfg.MinFPS = def.MinFPS
	}
	if cfg.Alpha <= 0 || cfg.Alpha > 1 {
		cfg.Alpha = def.Alpha
	}
	if cfg.Window < 1 {
		cfg.Window = def.Window
	}
	return &Watchdog{
		cfg:  cfg,
		ring: make([]float64, cfg.Window),
	}
}

// Observe records the instantaneous rate and decides. A rate of zero means
// no measurement yet and never triggers a reset.
func (w *Watchdog) Observe(fps float64) Decision {
	w.last = fps
	w.push(fps)

	if !w.primed {
		w.smoothed = fps
		w.primed = true
	} else {
		w.smoothed = w.cfg.Alpha*fps + (1-w.cfg.Alpha)*w.smoothed
	}

	if fps > 0 && fps < w.cfg.MinFPS {
		w.lowStreak++
		w.resets++
		return ResetRequired
	}
	w.lowStreak = 0
	return Continue
}

// Reset clears the smoothing state after the caller has remediated. The
// reset count is kept.
func (w *Watchdog) Reset() {
	w.last = 0
	w.smoothed = 0
	w.primed = false
	w.lowStreak = 0
	w.next = 0
	w.full = false
}

// Health returns the current throughput summary.
func (w *Watchdog) Health() Health {
	samples := w.samples()
	h := Health{
		Last:      w.last,
		Smoothed:  w.smoothed,
		LowStreak: w.lowStreak,
		Samples:   len(samples),
		Resets:    w.resets,
	}
	switch len(samples) {
	case 0:
	case 1:
		h.Mean = samples[0]
	default:
		h.Mean, h.StdDev = stat.MeanStdDev(samples, nil)
	}
	return h
}

func (w *Watchdog) push(v float64) {
	w.ring[w.next] = v
	w.next = (w.next + 1) % len(w.ring)
	if w.next == 0 {
		w.full = true
	}
}

func (w *Watchdog) samples() []float64 {
	if w.full {
		out := make([]float64, len(w.ring))
		copy(out, w.ring)
		return out
	}
	return append([]float64(nil), w.ring[:w.next]...)
}
