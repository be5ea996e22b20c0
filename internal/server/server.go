// Package server provides the HTTP status server for litmus.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ayusman/litmus/internal/colorclass"
	"github.com/ayusman/litmus/internal/plugin"
	"github.com/ayusman/litmus/internal/server/api"
	"github.com/ayusman/litmus/internal/status"
	"github.com/ayusman/litmus/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	Hub       *status.Hub
	Classes   *colorclass.Set
	Detection api.DetectionToggle
	Plugins   *plugin.Manager
}

// Server represents the HTTP server for the litmus application.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	// Register history handlers if Store is configured
	if s.config.Store != nil {
		readings := api.NewReadingsHandler(s.config.Store)
		s.mux.Handle("/api/readings", readings)
		s.mux.Handle("/api/readings/", readings)
		s.mux.Handle("/api/resets", api.NewResetsHandler(s.config.Store))
	}

	if s.config.Classes != nil {
		classes := api.NewClassesHandler(s.config.Classes)
		s.mux.Handle("/api/classes", classes)
		s.mux.Handle("/api/classes/", classes)
	}

	if s.config.Detection != nil {
		s.mux.Handle("/api/detection", api.NewDetectionHandler(s.config.Detection))
	}

	if s.config.Plugins != nil {
		s.mux.Handle("/api/plugins", api.NewPluginsHandler(s.config.Plugins))
	}

	// Live endpoints read from the status hub
	if s.config.Hub != nil {
		s.mux.HandleFunc("/api/status", s.handleStatus)
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Hub))
		s.mux.Handle("/api/live", NewLiveHandler(s.config.Hub))
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}
	if s.config.Hub != nil {
		response["frames"] = s.config.Hub.Snapshot().Frame
		response["throughput"] = s.config.Hub.Snapshot().Health
	}

	writeJSON(w, response)
}

// handleStatus handles GET /api/status and returns the latest snapshot.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, s.config.Hub.Snapshot())
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}

// HTTPServer returns an http.Server for addr so the caller can shut it
// down.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
