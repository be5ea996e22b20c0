package stability

import (
	"image"
	"testing"

	"github.com/ayusman/litmus/internal/classifier"
	"github.com/ayusman/litmus/internal/colorclass"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hit(id string, x int) classifier.Result {
	return classifier.Match(
		colorclass.Class{ID: id, Name: id},
		classifier.Region{Rect: image.Rect(x, 10, x+10, 20), Centroid: image.Pt(x+5, 15), Pixels: 100},
	)
}

var miss = classifier.Result{}

func TestTracker_FirstFrameCountsZero(t *testing.T) {
	tr := New(DefaultConfig())

	wantProgress := []float64{0, 1.0 / 3, 2.0 / 3, 1}
	wantStable := []bool{false, false, false, true}

	for i := range wantProgress {
		out := tr.Update(hit("pH5", 40))
		assert.InDelta(t, wantProgress[i], out.Progress, 1e-9, "frame %d progress", i+1)
		assert.Equal(t, wantStable[i], out.IsStable, "frame %d stable", i+1)
		assert.Equal(t, "pH5", out.CurrentLabel)
	}

	s := tr.State()
	assert.Equal(t, "pH5", s.StableLabel)
	assert.Equal(t, 3, s.ConsecutiveMatches)
}

func TestTracker_StreakSaturates(t *testing.T) {
	tr := New(DefaultConfig())
	for i := 0; i < 20; i++ {
		out := tr.Update(hit("pH5", 40))
		require.LessOrEqual(t, out.Progress, 1.0)
	}
	assert.Equal(t, 3, tr.State().ConsecutiveMatches)
}

func TestTracker_LabelChangeResetsStreak(t *testing.T) {
	tr := New(DefaultConfig())
	for i := 0; i < 4; i++ {
		tr.Update(hit("pH5", 40))
	}

	out := tr.Update(hit("pH6", 40))
	assert.False(t, out.IsStable)
	assert.Equal(t, 0.0, out.Progress)
	assert.Equal(t, "pH6", out.CurrentLabel)
	// The previous stable label is kept until pH6 reaches the threshold.
	assert.Equal(t, "pH5", out.StableLabel)
	assert.Nil(t, out.StableRegion)
	assert.Equal(t, Tracking, out.Phase)
}

func TestTracker_StableRegionIsCurrentFrame(t *testing.T) {
	tr := New(DefaultConfig())
	var out Output
	for x := 30; x < 34; x++ {
		out = tr.Update(hit("pH7", x))
	}
	require.True(t, out.IsStable)
	require.NotNil(t, out.StableRegion)
	assert.Equal(t, image.Rect(33, 10, 43, 20), out.StableRegion.Rect)
	assert.Equal(t, out.CurrentRegion, out.StableRegion)
}

func TestTracker_MissesWithinTolerance(t *testing.T) {
	tr := New(DefaultConfig())
	for i := 0; i < 4; i++ {
		tr.Update(hit("pH5", 40))
	}

	for i := 1; i <= 10; i++ {
		out := tr.Update(miss)
		assert.True(t, out.IsStable, "miss %d", i)
		assert.Nil(t, out.StableRegion, "miss %d", i)
		assert.Equal(t, "pH5", out.CurrentLabel, "miss %d", i)
		assert.Nil(t, out.CurrentRegion, "miss %d", i)
		assert.Equal(t, "pH5", out.StableLabel)
		assert.Equal(t, Stable, out.Phase, "miss %d", i)
	}

	// A hit after the misses continues the streak.
	out := tr.Update(hit("pH5", 40))
	assert.True(t, out.IsStable)
	assert.Equal(t, Stable, out.Phase)
	assert.Equal(t, 0, tr.State().MissStreak)
}

func TestTracker_MissOverflowClearsStreak(t *testing.T) {
	tr := New(DefaultConfig())
	for i := 0; i < 4; i++ {
		tr.Update(hit("pH5", 40))
	}
	var out Output
	for i := 0; i < 11; i++ {
		out = tr.Update(miss)
	}

	assert.False(t, out.IsStable)
	assert.Equal(t, Degraded, out.Phase)
	assert.Empty(t, out.CurrentLabel)
	assert.Equal(t, "pH5", out.StableLabel)

	want := State{MissStreak: 11, StableLabel: "pH5", Seen: true}
	if diff := cmp.Diff(want, tr.State()); diff != "" {
		t.Errorf("state mismatch (-want +got):\n%s", diff)
	}

	// The same label must rebuild the full streak.
	out = tr.Update(hit("pH5", 40))
	assert.False(t, out.IsStable)
	assert.Equal(t, 0.0, out.Progress)
	assert.Equal(t, Tracking, out.Phase)
}

func TestTracker_MissesWhileTracking(t *testing.T) {
	tr := New(DefaultConfig())
	tr.Update(hit("pH9", 40))
	tr.Update(hit("pH9", 40))

	out := tr.Update(miss)
	assert.Equal(t, Tracking, out.Phase)
	assert.Equal(t, "pH9", out.CurrentLabel)
	assert.InDelta(t, 1.0/3, out.Progress, 1e-9)

	for i := 0; i < 10; i++ {
		out = tr.Update(miss)
	}
	// Never stable, but a label was seen before the limit was exceeded.
	assert.Equal(t, Degraded, out.Phase)
	assert.Empty(t, out.StableLabel)
}

func TestTracker_StableLabelOnlyChangesAtThreshold(t *testing.T) {
	tr := New(DefaultConfig())
	seq := []string{"pH1", "pH2", "pH1", "pH2", "pH3", "pH3", "pH3"}
	for _, id := range seq {
		out := tr.Update(hit(id, 40))
		assert.Empty(t, out.StableLabel, "after %s", id)
	}
	out := tr.Update(hit("pH3", 40))
	assert.Equal(t, "pH3", out.StableLabel)
}

func TestTracker_Reset(t *testing.T) {
	tr := New(DefaultConfig())
	for i := 0; i < 4; i++ {
		tr.Update(hit("pH5", 40))
	}
	tr.Reset()

	if diff := cmp.Diff(State{}, tr.State()); diff != "" {
		t.Errorf("state after Reset (-want +got):\n%s", diff)
	}
}

func TestTracker_UnseenOnMissFromStart(t *testing.T) {
	tr := New(DefaultConfig())
	out := tr.Update(miss)
	assert.Equal(t, Unseen, out.Phase)
	assert.False(t, out.IsStable)
	assert.Equal(t, 1, tr.State().MissStreak)

	for i := 0; i < 20; i++ {
		out = tr.Update(miss)
	}
	assert.Equal(t, Unseen, out.Phase)
	assert.Empty(t, out.CurrentLabel)
}

func TestTracker_UnseenAfterReset(t *testing.T) {
	tr := New(DefaultConfig())
	for i := 0; i < 4; i++ {
		tr.Update(hit("pH5", 40))
	}
	tr.Reset()

	var out Output
	for i := 0; i < 12; i++ {
		out = tr.Update(miss)
	}
	assert.Equal(t, Unseen, out.Phase)
	assert.Empty(t, out.StableLabel)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", DefaultConfig(), false},
		{"zero threshold", Config{Threshold: 0, MaxMissedFrames: 10}, true},
		{"negative misses", Config{Threshold: 3, MaxMissedFrames: -1}, true},
		{"no tolerance", Config{Threshold: 1, MaxMissedFrames: 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPhase_String(t *testing.T) {
	assert.Equal(t, "stable", Stable.String())
	assert.Equal(t, "phase(9)", Phase(9).String())
}
