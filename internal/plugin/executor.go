package plugin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"
)

// Executor runs one plugin per reading with a timeout.
type Executor struct {
	timeoutMs int
}

// NewExecutor creates a new Executor with the specified timeout in milliseconds.
func NewExecutor(timeoutMs int) *Executor {
	return &Executor{
		timeoutMs: timeoutMs,
	}
}

// Timeout returns the limit for p: its manifest timeout_ms when set,
// otherwise the executor default.
func (e *Executor) Timeout(p *Plugin) time.Duration {
	ms := e.timeoutMs
	if p.Manifest.TimeoutMS > 0 {
		ms = p.Manifest.TimeoutMS
	}
	return time.Duration(ms) * time.Millisecond
}

// Execute runs plugin with req as JSON on stdin and parses its stdout as a
// Response. The plugin is killed when ctx is done or its timeout expires.
//
// The manifest config is sent when req carries none, and the reading is
// also exposed as LITMUS_EVENT, LITMUS_CLASS_ID and LITMUS_CLASS_NAME so
// that shell plugins can branch without a JSON parser.
func (e *Executor) Execute(ctx context.Context, plugin *Plugin, req *Request) (*Response, error) {
	timeout := e.Timeout(plugin)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if len(req.Config) == 0 && len(plugin.Manifest.Config) > 0 {
		withConfig := *req
		withConfig.Config = plugin.Manifest.Config
		req = &withConfig
	}

	reqJSON, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	cmd := exec.CommandContext(ctx, plugin.Executable)
	cmd.Dir = plugin.Path
	cmd.Stdin = bytes.NewReader(reqJSON)
	// Children that inherit stdout must not hold Run open after a kill.
	cmd.WaitDelay = time.Second
	cmd.Env = append(os.Environ(),
		"LITMUS_EVENT="+req.Event,
		"LITMUS_CLASS_ID="+req.Reading.ClassID,
		"LITMUS_CLASS_NAME="+req.Reading.ClassName,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()

	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return nil, fmt.Errorf("plugin %s timeout after %dms", plugin.Manifest.Name, timeout.Milliseconds())
	case errors.Is(ctx.Err(), context.Canceled):
		return nil, fmt.Errorf("plugin %s: %w", plugin.Manifest.Name, ctx.Err())
	}

	if err != nil {
		if s := stderr.String(); s != "" {
			return nil, fmt.Errorf("plugin %s failed: %w, stderr: %s", plugin.Manifest.Name, err, s)
		}
		return nil, fmt.Errorf("plugin %s failed: %w", plugin.Manifest.Name, err)
	}

	var response Response
	if err := json.Unmarshal(stdout.Bytes(), &response); err != nil {
		return nil, fmt.Errorf("plugin %s: bad response: %w, stdout: %s", plugin.Manifest.Name, err, stdout.String())
	}
	if !response.Success && response.Error == "" {
		response.Error = "plugin reported failure without a message"
	}

	return &response, nil
}
