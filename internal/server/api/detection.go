package api

import (
	"encoding/json"
	"net/http"
)

// DetectionToggle switches classification on and off.
type DetectionToggle interface {
	Enabled() bool
	SetEnabled(enabled bool)
}

// DetectionHandler exposes the detection switch.
type DetectionHandler struct {
	toggle DetectionToggle
}

// NewDetectionHandler creates a DetectionHandler over toggle.
func NewDetectionHandler(toggle DetectionToggle) *DetectionHandler {
	return &DetectionHandler{toggle: toggle}
}

type detectionState struct {
	Enabled *bool `json:"enabled"`
}

// ServeHTTP handles GET and PUT /api/detection.
func (h *DetectionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
	case http.MethodPut:
		var req detectionState
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
		if req.Enabled == nil {
			writeError(w, http.StatusBadRequest, "enabled is required")
			return
		}
		h.toggle.SetEnabled(*req.Enabled)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	enabled := h.toggle.Enabled()
	writeJSON(w, http.StatusOK, detectionState{Enabled: &enabled})
}
