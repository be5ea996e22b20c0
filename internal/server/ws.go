package server

import (
	"net/http"
	"time"

	"github.com/ayusman/litmus/internal/monitoring"
	"github.com/ayusman/litmus/internal/status"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

const writeWait = 2 * time.Second

// LiveHandler pushes every published snapshot to WebSocket clients.
type LiveHandler struct {
	hub *status.Hub
}

// NewLiveHandler creates a new LiveHandler over hub.
func NewLiveHandler(hub *status.Hub) *LiveHandler {
	return &LiveHandler{hub: hub}
}

// ServeHTTP upgrades the request and forwards snapshots until the client
// goes away.
func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		monitoring.Logf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	snaps, cancel := h.hub.Subscribe()
	defer cancel()

	// Reads detect the close; clients send nothing else.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case snap, ok := <-snaps:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(snap); err != nil {
				return
			}
		}
	}
}
