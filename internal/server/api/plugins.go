package api

import (
	"net/http"

	"github.com/ayusman/litmus/internal/plugin"
)

// PluginsHandler lists the discovered reading plugins.
type PluginsHandler struct {
	manager *plugin.Manager
}

// NewPluginsHandler creates a PluginsHandler over manager.
func NewPluginsHandler(manager *plugin.Manager) *PluginsHandler {
	return &PluginsHandler{manager: manager}
}

type pluginResponse struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Classes     []string `json:"classes"`
}

type listPluginsResponse struct {
	Dir     string           `json:"dir"`
	Plugins []pluginResponse `json:"plugins"`
}

// ServeHTTP handles GET /api/plugins. An empty class list means the plugin
// hears every reading.
func (h *PluginsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	plugins := h.manager.List()
	response := listPluginsResponse{
		Dir:     h.manager.PluginDir(),
		Plugins: make([]pluginResponse, 0, len(plugins)),
	}
	for _, p := range plugins {
		classes := p.Manifest.Classes
		if classes == nil {
			classes = []string{}
		}
		response.Plugins = append(response.Plugins, pluginResponse{
			Name:        p.Manifest.Name,
			Version:     p.Manifest.Version,
			Description: p.Manifest.Description,
			Classes:     classes,
		})
	}

	writeJSON(w, http.StatusOK, response)
}
