package plugin

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/ayusman/litmus/internal/transport"
)

// scriptPlugin writes a shell script plugin into a temp dir.
func scriptPlugin(t *testing.T, name, script string) *Plugin {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, name+".sh")
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}

	return &Plugin{
		Manifest:   Manifest{Name: name, Version: "1.0.0", Executable: name + ".sh"},
		Path:       dir,
		Executable: path,
	}
}

func readingRequest() *Request {
	area := 900
	return &Request{
		Event:   EventReading,
		Reading: transport.Record{ClassID: "pH5", ClassName: "yellow", Position: &[2]int{75, 55}, Area: &area},
		Config:  json.RawMessage(`{"file":"readings.csv"}`),
	}
}

func TestExecutor_Execute(t *testing.T) {
	plugin := scriptPlugin(t, "ok", `#!/bin/sh
cat <<'END'
{"success":true,"data":{"message":"logged"}}
END
`)

	response, err := NewExecutor(5000).Execute(context.Background(), plugin, readingRequest())
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}
	if !response.Success {
		t.Errorf("expected success=true, got false")
	}

	var data map[string]interface{}
	if err := json.Unmarshal(response.Data, &data); err != nil {
		t.Fatalf("failed to unmarshal response data: %v", err)
	}
	if data["message"] != "logged" {
		t.Errorf("expected message 'logged', got %v", data["message"])
	}
}

func TestExecutor_Execute_ReadsStdin(t *testing.T) {
	plugin := scriptPlugin(t, "echo", `#!/bin/sh
INPUT=$(cat)
echo "{\"success\":true,\"data\":{\"received\":$INPUT}}"
`)

	response, err := NewExecutor(5000).Execute(context.Background(), plugin, readingRequest())
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	var data struct {
		Received Request `json:"received"`
	}
	if err := json.Unmarshal(response.Data, &data); err != nil {
		t.Fatalf("failed to unmarshal response data: %v", err)
	}

	got := data.Received
	if got.Event != "reading" {
		t.Errorf("expected event 'reading', got %q", got.Event)
	}
	if got.Reading.ClassID != "pH5" || got.Reading.Area == nil || *got.Reading.Area != 900 {
		t.Errorf("unexpected reading %+v", got.Reading)
	}
	if string(got.Config) != `{"file":"readings.csv"}` {
		t.Errorf("unexpected config %s", got.Config)
	}
}

func TestExecutor_Timeout(t *testing.T) {
	plugin := scriptPlugin(t, "slow", `#!/bin/sh
sleep 10
echo '{"success":true}'
`)

	_, err := NewExecutor(100).Execute(context.Background(), plugin, readingRequest())
	if err == nil {
		t.Fatal("expected timeout error, got nil")
	}
	if !strings.Contains(err.Error(), "timeout") {
		t.Errorf("expected timeout error, got: %v", err)
	}
}

func TestExecutor_Execute_ErrorResponse(t *testing.T) {
	plugin := scriptPlugin(t, "fail", `#!/bin/sh
echo '{"success":false,"error":"disk full"}'
`)

	response, err := NewExecutor(5000).Execute(context.Background(), plugin, readingRequest())
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}
	if response.Success {
		t.Errorf("expected success=false, got true")
	}
	if response.Error != "disk full" {
		t.Errorf("expected error 'disk full', got %q", response.Error)
	}
}

func TestExecutor_Execute_InvalidJSON(t *testing.T) {
	plugin := scriptPlugin(t, "bad", `#!/bin/sh
echo 'not valid json'
`)

	if _, err := NewExecutor(5000).Execute(context.Background(), plugin, readingRequest()); err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
}

func TestExecutor_Execute_NonZeroExit(t *testing.T) {
	plugin := scriptPlugin(t, "exit", `#!/bin/sh
echo "Error: something failed" >&2
exit 1
`)

	_, err := NewExecutor(5000).Execute(context.Background(), plugin, readingRequest())
	if err == nil {
		t.Fatal("expected error for non-zero exit, got nil")
	}
	if !strings.Contains(err.Error(), "something failed") {
		t.Errorf("expected stderr in error, got: %v", err)
	}
}

func TestNewExecutor(t *testing.T) {
	executor := NewExecutor(3000)
	if executor.timeoutMs != 3000 {
		t.Errorf("expected timeoutMs=3000, got %d", executor.timeoutMs)
	}
}

func TestExecutor_ManifestTimeoutOverrides(t *testing.T) {
	plugin := scriptPlugin(t, "slow", `#!/bin/sh
sleep 10
echo '{"success":true}'
`)
	plugin.Manifest.TimeoutMS = 100

	executor := NewExecutor(60000)
	if got := executor.Timeout(plugin); got != 100*time.Millisecond {
		t.Fatalf("Timeout() = %v, want 100ms", got)
	}

	start := time.Now()
	_, err := executor.Execute(context.Background(), plugin, readingRequest())
	if err == nil || !strings.Contains(err.Error(), "timeout after 100ms") {
		t.Fatalf("expected manifest timeout, got: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("plugin ran for %v despite the manifest timeout", elapsed)
	}
}

func TestExecutor_Canceled(t *testing.T) {
	plugin := scriptPlugin(t, "slow", `#!/bin/sh
sleep 10
`)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	_, err := NewExecutor(60000).Execute(ctx, plugin, readingRequest())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got: %v", err)
	}
}

func TestExecutor_ManifestConfigAndEnv(t *testing.T) {
	plugin := scriptPlugin(t, "env", `#!/bin/sh
INPUT=$(cat)
echo "{\"success\":true,\"data\":{\"class\":\"$LITMUS_CLASS_ID\",\"name\":\"$LITMUS_CLASS_NAME\",\"event\":\"$LITMUS_EVENT\",\"received\":$INPUT}}"
`)
	plugin.Manifest.Config = json.RawMessage(`{"file":"from-manifest.csv"}`)

	req := readingRequest()
	req.Config = nil

	response, err := NewExecutor(5000).Execute(context.Background(), plugin, req)
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	var data struct {
		Class    string  `json:"class"`
		Name     string  `json:"name"`
		Event    string  `json:"event"`
		Received Request `json:"received"`
	}
	if err := json.Unmarshal(response.Data, &data); err != nil {
		t.Fatalf("failed to unmarshal response data: %v", err)
	}

	if data.Class != "pH5" || data.Name != "yellow" || data.Event != "reading" {
		t.Errorf("unexpected env %q %q %q", data.Class, data.Name, data.Event)
	}
	if string(data.Received.Config) != `{"file":"from-manifest.csv"}` {
		t.Errorf("expected manifest config, got %s", data.Received.Config)
	}
	if req.Config != nil {
		t.Errorf("caller request was modified: %s", req.Config)
	}
}

func TestExecutor_FailureWithoutMessage(t *testing.T) {
	plugin := scriptPlugin(t, "quiet", `#!/bin/sh
echo '{"success":false}'
`)

	response, err := NewExecutor(5000).Execute(context.Background(), plugin, readingRequest())
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}
	if response.Success || response.Error == "" {
		t.Errorf("expected a failure with a message, got %+v", response)
	}
}
