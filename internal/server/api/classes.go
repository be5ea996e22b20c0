package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ayusman/litmus/internal/colorclass"
)

// ClassesHandler serves the colour class table.
type ClassesHandler struct {
	set *colorclass.Set
}

// NewClassesHandler creates a ClassesHandler over set.
func NewClassesHandler(set *colorclass.Set) *ClassesHandler {
	return &ClassesHandler{set: set}
}

type classResponse struct {
	ID        string               `json:"id"`
	Name      string               `json:"name"`
	Display   string               `json:"display"`
	Signature colorclass.Signature `json:"signature"`
}

type listClassesResponse struct {
	Classes []classResponse `json:"classes"`
}

func toClassResponse(c colorclass.Class) classResponse {
	return classResponse{
		ID:        c.ID,
		Name:      c.Name,
		Display:   c.Display.Hex(),
		Signature: c.Signature,
	}
}

// ServeHTTP handles /api/classes and /api/classes/{id}.
func (h *ClassesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := strings.TrimPrefix(strings.TrimPrefix(r.URL.Path, "/api/classes"), "/")
	if id == "" {
		classes := h.set.All()
		response := listClassesResponse{Classes: make([]classResponse, 0, len(classes))}
		for _, c := range classes {
			response.Classes = append(response.Classes, toClassResponse(c))
		}
		writeJSON(w, http.StatusOK, response)
		return
	}

	c, err := h.set.ByID(id)
	if err != nil {
		if errors.Is(err, colorclass.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Class not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get class")
		return
	}
	writeJSON(w, http.StatusOK, toClassResponse(c))
}
