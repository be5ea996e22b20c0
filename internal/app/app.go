// Package app runs the frame loop that turns camera frames into stable
// readings.
package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/ayusman/litmus/internal/capture"
	"github.com/ayusman/litmus/internal/classifier"
	"github.com/ayusman/litmus/internal/colorclass"
	"github.com/ayusman/litmus/internal/monitoring"
	"github.com/ayusman/litmus/internal/stability"
	"github.com/ayusman/litmus/internal/status"
	"github.com/ayusman/litmus/internal/store"
	"github.com/ayusman/litmus/internal/transport"
	"github.com/ayusman/litmus/internal/watchdog"
)

// ErrResetFailed is returned when the camera could not be reset. The loop
// cannot continue after it.
var ErrResetFailed = errors.New("camera reset failed")

// Config holds the collaborators and settings of the frame loop.
type Config struct {
	Camera     capture.Camera
	Classifier classifier.RegionClassifier
	// Window is the search window in frame coordinates.
	Window    image.Rectangle
	Stability stability.Config
	Watchdog  watchdog.Config
	// Sender receives stable readings. Nil discards them.
	Sender transport.Sender
	// Store records history. Nil disables it.
	Store *store.Store
	// Source names the frame source in the history.
	Source string
	// Hub receives a snapshot per frame. Nil disables publishing.
	Hub *status.Hub
	// Stream draws overlays and publishes JPEG frames to the hub.
	Stream bool
	// Clock measures the frame rate. Nil uses the wall clock.
	Clock *capture.Clock
	// Quiet drops the per-frame console line.
	Quiet bool
}

// App is the frame loop. Step and Run must be called from one goroutine;
// SetEnabled and Enabled are safe from any.
type App struct {
	config   Config
	tracker  *stability.Tracker
	watchdog *watchdog.Watchdog
	clock    *capture.Clock
	session  *store.Session

	mu        sync.RWMutex
	enabled   bool
	callbacks []func(transport.Record)

	frames       uint64
	stableClass  colorclass.Class
	lastRecorded string
}

// New creates a new App with the given configuration.
func New(config Config) *App {
	if config.Sender == nil {
		config.Sender = transport.Nop{}
	}
	clock := config.Clock
	if clock == nil {
		clock = capture.NewClock()
	}

	enabled := true
	if config.Store != nil {
		enabled = config.Store.Settings().Bool(store.SettingDetectionEnabled, true)
	}

	return &App{
		config:   config,
		tracker:  stability.New(config.Stability),
		watchdog: watchdog.New(config.Watchdog),
		clock:    clock,
		enabled:  enabled,
	}
}

// SetEnabled enables or disables classification. Frames keep flowing
// while disabled so the watchdog and status stay live.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	a.enabled = enabled
	a.mu.Unlock()

	if a.config.Store != nil {
		if err := a.config.Store.Settings().SetBool(store.SettingDetectionEnabled, enabled); err != nil {
			monitoring.Logf("failed to persist detection setting: %v", err)
		}
	}
}

// Enabled returns whether classification is currently enabled.
func (a *App) Enabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// RegisterReadingCallback registers a function called whenever the stable
// class changes.
func (a *App) RegisterReadingCallback(fn func(transport.Record)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.callbacks = append(a.callbacks, fn)
}

// Tracker returns the stability tracker.
func (a *App) Tracker() *stability.Tracker {
	return a.tracker
}

// Watchdog returns the throughput watchdog.
func (a *App) Watchdog() *watchdog.Watchdog {
	return a.watchdog
}

// Session returns the history session, or nil before Start or without a
// store.
func (a *App) Session() *store.Session {
	return a.session
}

// Start configures the camera and opens a history session. Run calls it.
func (a *App) Start() error {
	if err := a.config.Camera.ResetAndConfigure(); err != nil {
		return fmt.Errorf("%w: %v", ErrResetFailed, err)
	}

	if a.config.Store != nil && a.session == nil {
		sess, err := a.config.Store.Sessions().Start(a.config.Source)
		if err != nil {
			monitoring.Logf("failed to start history session: %v", err)
		} else {
			a.session = sess
		}
	}

	a.clock.Reset()
	monitoring.Logf("frame loop started (source %s)", a.config.Source)
	return nil
}

// Run starts the loop and steps until ctx is done or the camera cannot be
// reset. A failed frame read gets one reset attempt.
func (a *App) Run(ctx context.Context) error {
	if err := a.Start(); err != nil {
		return err
	}
	defer a.config.Camera.Close()

	for {
		select {
		case <-ctx.Done():
			monitoring.Logf("frame loop stopped after %d frames", a.frames)
			return nil
		default:
		}

		_, err := a.Step()
		if err == nil {
			continue
		}
		if errors.Is(err, ErrResetFailed) {
			return err
		}

		monitoring.Logf("frame acquisition failed, resetting camera: %v", err)
		if err := a.resetCamera(store.ResetAcquisition, 0); err != nil {
			return err
		}
	}
}

// resetCamera runs the full pipeline reset: camera, frame clock and
// watchdog smoothing.
func (a *App) resetCamera(reason store.ResetReason, fps float64) error {
	if a.config.Store != nil && a.session != nil {
		rs := &store.Reset{SessionID: a.session.ID, Reason: reason, FPS: fps}
		if err := a.config.Store.Resets().Create(rs); err != nil {
			monitoring.Logf("failed to record reset: %v", err)
		}
	}

	if err := a.config.Camera.ResetAndConfigure(); err != nil {
		return fmt.Errorf("%w: %v", ErrResetFailed, err)
	}
	a.clock.Reset()
	a.watchdog.Reset()
	return nil
}

func (a *App) notify(rec transport.Record) {
	a.mu.RLock()
	callbacks := append([]func(transport.Record){}, a.callbacks...)
	a.mu.RUnlock()

	for _, fn := range callbacks {
		fn(rec)
	}
}
