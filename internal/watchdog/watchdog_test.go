package watchdog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWatchdog_Observe(t *testing.T) {
	tests := []struct {
		name string
		fps  float64
		want Decision
	}{
		{"no measurement", 0, Continue},
		{"very low", 0.5, ResetRequired},
		{"just below floor", 4.99, ResetRequired},
		{"at floor", 5, Continue},
		{"healthy", 28.4, Continue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := New(DefaultConfig())
			if got := w.Observe(tt.fps); got != tt.want {
				t.Errorf("Observe(%v) = %v, want %v", tt.fps, got, tt.want)
			}
		})
	}
}

func TestWatchdog_ZeroNeverResets(t *testing.T) {
	w := New(DefaultConfig())
	for i := 0; i < 100; i++ {
		if w.Observe(0) != Continue {
			t.Fatalf("observation %d of 0 fps requested a reset", i)
		}
	}
	assert.Equal(t, 0, w.Health().Resets)
}

func TestWatchdog_Smoothing(t *testing.T) {
	w := New(Config{MinFPS: 5, Alpha: 0.5, Window: 4})
	w.Observe(10)
	w.Observe(20)

	h := w.Health()
	assert.InDelta(t, 15.0, h.Smoothed, 1e-9)
	assert.InDelta(t, 15.0, h.Mean, 1e-9)
	assert.Equal(t, 20.0, h.Last)
	assert.Equal(t, 2, h.Samples)
	assert.Greater(t, h.StdDev, 0.0)
}

func TestWatchdog_WindowWraps(t *testing.T) {
	w := New(Config{MinFPS: 1, Alpha: 1, Window: 3})
	for _, v := range []float64{100, 100, 100, 10, 10, 10} {
		w.Observe(v)
	}
	h := w.Health()
	assert.Equal(t, 3, h.Samples)
	assert.InDelta(t, 10.0, h.Mean, 1e-9)
	assert.InDelta(t, 0.0, h.StdDev, 1e-9)
}

func TestWatchdog_LowStreakAndReset(t *testing.T) {
	w := New(DefaultConfig())
	w.Observe(2)
	w.Observe(3)
	assert.Equal(t, 2, w.Health().LowStreak)

	w.Observe(30)
	assert.Equal(t, 0, w.Health().LowStreak)

	w.Observe(1)
	w.Reset()
	h := w.Health()
	assert.Equal(t, 0, h.Samples)
	assert.Equal(t, 0.0, h.Smoothed)
	assert.Equal(t, 0, h.LowStreak)
	assert.Equal(t, 3, h.Resets)
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.Error(t, Config{MinFPS: 0, Alpha: 0.2, Window: 1}.Validate())
	assert.Error(t, Config{MinFPS: 5, Alpha: 1.5, Window: 1}.Validate())
	assert.Error(t, Config{MinFPS: 5, Alpha: 0.2, Window: 0}.Validate())
}

func TestNew_FallsBackToDefaults(t *testing.T) {
	w := New(Config{})
	assert.Equal(t, DefaultConfig(), w.cfg)
}
