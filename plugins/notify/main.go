// Package main provides a plugin that raises a desktop notification for a
// stable reading. It uses AppleScript on macOS and notify-send elsewhere.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Request represents the input from the plugin executor.
type Request struct {
	Event   string          `json:"event"`
	Reading Reading         `json:"reading"`
	Config  json.RawMessage `json:"config"`
}

// Reading mirrors the JSON line sent over the reading link.
type Reading struct {
	ClassID   string `json:"class_id"`
	ClassName string `json:"class_name"`
}

// Response represents the output to the plugin executor.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	if req.Event != "reading" {
		writeErrorResponse(fmt.Sprintf("unknown event: %s", req.Event))
		return
	}

	name, args := command(runtime.GOOS, message(req.Reading))
	if err := exec.Command(name, args...).Run(); err != nil {
		writeErrorResponse(fmt.Sprintf("%s failed: %v", name, err))
		return
	}

	writeSuccessResponse()
}

// message is the notification body for r.
func message(r Reading) string {
	return fmt.Sprintf("Strip reads %s (%s)", r.ClassID, r.ClassName)
}

// command returns the notifier invocation for goos.
func command(goos, msg string) (string, []string) {
	if goos == "darwin" {
		escaped := strings.ReplaceAll(msg, `"`, `\"`)
		script := fmt.Sprintf(`display notification "%s" with title "Litmus"`, escaped)
		return "osascript", []string{"-e", script}
	}
	return "notify-send", []string{"Litmus", msg}
}

// writeSuccessResponse writes a success response to stdout.
func writeSuccessResponse() {
	resp := Response{Success: true}
	json.NewEncoder(os.Stdout).Encode(resp)
}

// writeErrorResponse writes an error response to stdout.
func writeErrorResponse(msg string) {
	resp := Response{Success: false, Error: msg}
	json.NewEncoder(os.Stdout).Encode(resp)
}
