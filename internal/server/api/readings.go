package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ayusman/litmus/internal/store"
)

const (
	defaultListLimit = 50
	maxListLimit     = 1000
)

// ReadingsHandler serves the stable reading history.
type ReadingsHandler struct {
	store *store.Store
}

// NewReadingsHandler creates a new ReadingsHandler with the given store.
func NewReadingsHandler(s *store.Store) *ReadingsHandler {
	return &ReadingsHandler{store: s}
}

type readingResponse struct {
	ID        string `json:"id"`
	SessionID string `json:"session_id"`
	ClassID   string `json:"class_id"`
	ClassName string `json:"class_name"`
	Position  [2]int `json:"position"`
	Area      int    `json:"area"`
	CreatedAt string `json:"created_at"`
}

type listReadingsResponse struct {
	Readings []readingResponse `json:"readings"`
}

func toReadingResponse(rd *store.Reading) readingResponse {
	return readingResponse{
		ID:        rd.ID,
		SessionID: rd.SessionID,
		ClassID:   rd.ClassID,
		ClassName: rd.ClassName,
		Position:  [2]int{rd.CX, rd.CY},
		Area:      rd.Area,
		CreatedAt: formatTime(rd.CreatedAt),
	}
}

// ServeHTTP handles /api/readings and /api/readings/{id}.
func (h *ReadingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := strings.TrimPrefix(strings.TrimPrefix(r.URL.Path, "/api/readings"), "/")
	if id != "" {
		h.get(w, id)
		return
	}
	h.list(w, r)
}

// list handles GET /api/readings?class=pH5&limit=20.
func (h *ReadingsHandler) list(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(r, defaultListLimit, maxListLimit)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid limit")
		return
	}

	readings, err := h.store.Readings().List(r.URL.Query().Get("class"), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list readings")
		return
	}

	response := listReadingsResponse{
		Readings: make([]readingResponse, 0, len(readings)),
	}
	for _, rd := range readings {
		response.Readings = append(response.Readings, toReadingResponse(rd))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/readings/{id}.
func (h *ReadingsHandler) get(w http.ResponseWriter, id string) {
	rd, err := h.store.Readings().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Reading not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get reading")
		return
	}

	writeJSON(w, http.StatusOK, toReadingResponse(rd))
}

// ResetsHandler serves the camera reset history.
type ResetsHandler struct {
	store *store.Store
}

// NewResetsHandler creates a new ResetsHandler with the given store.
func NewResetsHandler(s *store.Store) *ResetsHandler {
	return &ResetsHandler{store: s}
}

type resetResponse struct {
	ID        int64   `json:"id"`
	SessionID string  `json:"session_id"`
	Reason    string  `json:"reason"`
	FPS       float64 `json:"fps"`
	CreatedAt string  `json:"created_at"`
}

type listResetsResponse struct {
	Resets []resetResponse `json:"resets"`
}

// ServeHTTP handles GET /api/resets?limit=20.
func (h *ResetsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit, ok := parseLimit(r, defaultListLimit, maxListLimit)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid limit")
		return
	}

	resets, err := h.store.Resets().List(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list resets")
		return
	}

	response := listResetsResponse{
		Resets: make([]resetResponse, 0, len(resets)),
	}
	for _, rs := range resets {
		response.Resets = append(response.Resets, resetResponse{
			ID:        rs.ID,
			SessionID: rs.SessionID,
			Reason:    string(rs.Reason),
			FPS:       rs.FPS,
			CreatedAt: formatTime(rs.CreatedAt),
		})
	}

	writeJSON(w, http.StatusOK, response)
}
