package server

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/ayusman/litmus/internal/status"
)

// StreamHandler serves the annotated frames published to the hub as MJPEG.
type StreamHandler struct {
	hub      *status.Hub
	interval time.Duration
}

// NewStreamHandler creates a new StreamHandler over hub.
func NewStreamHandler(hub *status.Hub) *StreamHandler {
	return &StreamHandler{hub: hub, interval: 66 * time.Millisecond} // ~15 FPS
}

// ServeHTTP streams MJPEG frames to connected clients.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	var last []byte
	for {
		frame := h.hub.Frame()
		if frame != nil && !bytes.Equal(frame, last) {
			// Write MJPEG frame
			fmt.Fprintf(w, "--frame\r\n")
			fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
			fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(frame))
			if _, err := w.Write(frame); err != nil {
				return
			}
			fmt.Fprintf(w, "\r\n")

			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
			last = frame
		}

		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}
	}
}
