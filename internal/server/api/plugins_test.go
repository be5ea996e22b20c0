package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/ayusman/litmus/internal/plugin"
)

func TestPluginsHandler_List(t *testing.T) {
	dir := t.TempDir()
	pluginDir := filepath.Join(dir, "csv-log")
	if err := os.MkdirAll(pluginDir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	manifest := `{"name":"csv-log","version":"1.0.0","description":"CSV","executable":"csv-log"}`
	if err := os.WriteFile(filepath.Join(pluginDir, "plugin.json"), []byte(manifest), 0644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	manager := plugin.NewManager(dir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	handler := NewPluginsHandler(manager)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/plugins", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp listPluginsResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Dir != dir {
		t.Errorf("dir = %q, want %q", resp.Dir, dir)
	}
	if len(resp.Plugins) != 1 || resp.Plugins[0].Name != "csv-log" {
		t.Fatalf("plugins = %+v", resp.Plugins)
	}
	if resp.Plugins[0].Classes == nil || len(resp.Plugins[0].Classes) != 0 {
		t.Errorf("classes = %v, want empty list", resp.Plugins[0].Classes)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/plugins", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}
