// Package status shares the latest per-frame snapshot between the frame
// loop and its readers.
package status

import (
	"sync"
	"time"

	"github.com/ayusman/litmus/internal/classifier"
	"github.com/ayusman/litmus/internal/watchdog"
)

// Snapshot is the published view of one frame.
type Snapshot struct {
	Frame       uint64             `json:"frame"`
	Time        time.Time          `json:"time"`
	Label       string             `json:"label,omitempty"`
	ClassName   string             `json:"class_name,omitempty"`
	Region      *classifier.Region `json:"region,omitempty"`
	Progress    float64            `json:"progress"`
	IsStable    bool               `json:"is_stable"`
	StableLabel string             `json:"stable_label,omitempty"`
	StableName  string             `json:"stable_name,omitempty"`
	Phase       string             `json:"phase"`
	Status      string             `json:"status"`
	FPS         float64            `json:"fps"`
	Health      watchdog.Health    `json:"health"`
	Enabled     bool               `json:"enabled"`
}

// Hub holds the latest snapshot and encoded frame and fans snapshots out
// to subscribers. Slow subscribers miss snapshots rather than block the
// publisher.
type Hub struct {
	mu    sync.RWMutex
	snap  Snapshot
	frame []byte
	subs  map[chan Snapshot]struct{}
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[chan Snapshot]struct{})}
}

// Publish replaces the snapshot and, when jpeg is non-nil, the frame.
func (h *Hub) Publish(snap Snapshot, jpeg []byte) {
	h.mu.Lock()
	h.snap = snap
	if jpeg != nil {
		h.frame = jpeg
	}
	for ch := range h.subs {
		select {
		case ch <- snap:
		default:
		}
	}
	h.mu.Unlock()
}

// Snapshot returns the latest snapshot.
func (h *Hub) Snapshot() Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.snap
}

// Frame returns the latest encoded frame, or nil.
func (h *Hub) Frame() []byte {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.frame
}

// Subscribe returns a channel of future snapshots and a cancel function
// that must be called to release it.
func (h *Hub) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			h.mu.Unlock()
			close(ch)
		})
	}
}

// Subscribers returns the number of live subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
