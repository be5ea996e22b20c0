package plugin

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/ayusman/litmus/internal/monitoring"
)

// ErrPluginNotFound is returned when a requested plugin cannot be found.
var ErrPluginNotFound = errors.New("plugin not found")

// Manager holds the reading plugins found under one directory.
type Manager struct {
	pluginDir string
	// plugins is sorted by name; dispatch order follows it.
	plugins []*Plugin
	byName  map[string]*Plugin
	mu      sync.RWMutex
}

// NewManager creates a new plugin Manager with the given plugin directory.
func NewManager(pluginDir string) *Manager {
	return &Manager{
		pluginDir: pluginDir,
		byName:    make(map[string]*Plugin),
	}
}

// Discover replaces the loaded set with the plugins found one level below
// the plugin directory. A missing directory is not an error.
//
// Subdirectories without a usable plugin.json are skipped. When two
// directories declare the same name, the first in directory order wins and
// the other is logged.
func (m *Manager) Discover() error {
	var found []*Plugin
	byName := make(map[string]*Plugin)

	entries, err := os.ReadDir(m.pluginDir)
	switch {
	case os.IsNotExist(err):
		entries = nil
	case err != nil:
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		pluginPath := filepath.Join(m.pluginDir, entry.Name())
		manifest, ok := readManifest(pluginPath)
		if !ok {
			continue
		}
		if prev, dup := byName[manifest.Name]; dup {
			monitoring.Logf("plugin %s in %s ignored, already loaded from %s", manifest.Name, pluginPath, prev.Path)
			continue
		}

		p := &Plugin{
			Manifest:   manifest,
			Path:       pluginPath,
			Executable: filepath.Join(pluginPath, manifest.Executable),
		}
		byName[manifest.Name] = p
		found = append(found, p)
	}

	sort.Slice(found, func(i, j int) bool {
		return found[i].Manifest.Name < found[j].Manifest.Name
	})

	m.mu.Lock()
	m.plugins = found
	m.byName = byName
	m.mu.Unlock()
	return nil
}

func readManifest(dir string) (Manifest, bool) {
	var manifest Manifest
	data, err := os.ReadFile(filepath.Join(dir, "plugin.json"))
	if err != nil {
		return manifest, false
	}
	if err := json.Unmarshal(data, &manifest); err != nil {
		monitoring.Logf("plugin manifest %s: %v", dir, err)
		return manifest, false
	}
	if manifest.Name == "" || manifest.Executable == "" {
		return manifest, false
	}
	return manifest, true
}

// Get returns a plugin by name.
func (m *Manager) Get(name string) (*Plugin, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	plugin, ok := m.byName[name]
	if !ok {
		return nil, ErrPluginNotFound
	}

	return plugin, nil
}

// List returns all discovered plugins sorted by name.
func (m *Manager) List() []*Plugin {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return append([]*Plugin(nil), m.plugins...)
}

// Accepting returns the plugins that want readings of classID, in name order.
func (m *Manager) Accepting(classID string) []*Plugin {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*Plugin
	for _, p := range m.plugins {
		if p.Accepts(classID) {
			out = append(out, p)
		}
	}
	return out
}

// PluginDir returns the plugin directory path.
func (m *Manager) PluginDir() string {
	return m.pluginDir
}
