// Package plugin runs external executables on every change of the stable
// reading. Each plugin lives in its own directory with a plugin.json
// manifest and receives the reading as JSON on stdin.
package plugin

import (
	"encoding/json"

	"github.com/ayusman/litmus/internal/transport"
)

// EventReading is the event sent when the stable class changes.
const EventReading = "reading"

// Manifest describes a plugin and the classes it wants to hear about.
type Manifest struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
	Executable  string `json:"executable"`
	// Classes limits the plugin to these class ids. Empty means all.
	Classes []string `json:"classes,omitempty"`
	// TimeoutMS overrides the executor timeout for this plugin.
	TimeoutMS int             `json:"timeout_ms,omitempty"`
	Config    json.RawMessage `json:"config,omitempty"`
}

// Request is written to the plugin's stdin.
type Request struct {
	Event   string           `json:"event"`
	Reading transport.Record `json:"reading"`
	Config  json.RawMessage  `json:"config,omitempty"`
}

// Response is read from the plugin's stdout.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Plugin is a discovered plugin with its manifest and location.
type Plugin struct {
	Manifest   Manifest
	Path       string
	Executable string
}

// Accepts reports whether the plugin wants readings of classID.
func (p *Plugin) Accepts(classID string) bool {
	if len(p.Manifest.Classes) == 0 {
		return true
	}
	for _, id := range p.Manifest.Classes {
		if id == classID {
			return true
		}
	}
	return false
}
