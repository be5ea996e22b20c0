// Package tray shows the latest stable reading in the system tray and lets
// the user pause detection or quit.
package tray

import (
	"sync"

	"github.com/ayusman/litmus/internal/transport"
	"github.com/getlantern/systray"
)

const (
	titleEnabled  = "● Detecting"
	titleDisabled = "○ Paused"
	noReading     = "Last: none"
)

// Tray is the system tray menu.
type Tray struct {
	onToggle func(enabled bool)
	onOpen   func()
	onQuit   func()
	enabled  bool
	last     string
	mu       sync.RWMutex

	menuToggle  *systray.MenuItem
	menuReading *systray.MenuItem
}

// New creates a Tray in the given detection state.
func New(enabled bool) *Tray {
	return &Tray{
		enabled: enabled,
		last:    noReading,
	}
}

// OnToggle sets the callback run when detection is paused or resumed.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnOpen sets the callback run when the status page item is clicked.
func (t *Tray) OnOpen(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onOpen = fn
}

// OnQuit sets the callback run before the tray exits.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the tray. It blocks until Quit.
func (t *Tray) Run() {
	systray.Run(t.onReady, func() {})
}

// Quit stops the tray event loop.
func (t *Tray) Quit() {
	systray.Quit()
}

func (t *Tray) onReady() {
	systray.SetTitle("pH")
	systray.SetTooltip("Litmus pH strip reader")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleTitle(t.enabled), "Pause or resume detection")
	systray.AddSeparator()
	t.menuReading = systray.AddMenuItem(t.last, "Last stable reading")
	t.menuReading.Disable()
	t.mu.Unlock()
	systray.AddSeparator()

	menuOpen := systray.AddMenuItem("Open Status...", "Open the status page in a browser")
	systray.AddSeparator()
	menuQuit := systray.AddMenuItem("Quit", "Quit Litmus")

	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuOpen.ClickedCh:
				t.handleOpen()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(enabled))
	}
	callback := t.onToggle
	t.mu.Unlock()

	if callback != nil {
		callback(enabled)
	}
}

func (t *Tray) handleOpen() {
	t.mu.RLock()
	callback := t.onOpen
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetReading shows rec as the last stable reading. It is safe to call
// before the tray is ready.
func (t *Tray) SetReading(rec transport.Record) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.last = ReadingTitle(rec)
	if t.menuReading != nil {
		t.menuReading.SetTitle(t.last)
		systray.SetTitle(rec.ClassID)
	}
}

// LastReading returns the menu text for the last stable reading.
func (t *Tray) LastReading() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.last
}

// IsEnabled returns the current detection state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}

// ReadingTitle formats rec for the menu.
func ReadingTitle(rec transport.Record) string {
	if rec.ClassID == "" {
		return noReading
	}
	return "Last: " + rec.ClassID + " (" + rec.ClassName + ")"
}

func toggleTitle(enabled bool) string {
	if enabled {
		return titleEnabled
	}
	return titleDisabled
}
