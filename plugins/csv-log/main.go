// Package main provides a plugin that appends stable readings to a CSV file.
package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Request represents the input from the plugin executor.
type Request struct {
	Event   string          `json:"event"`
	Reading Reading         `json:"reading"`
	Config  json.RawMessage `json:"config"`
}

// Reading mirrors the JSON line sent over the reading link.
type Reading struct {
	ClassID   string  `json:"class_id"`
	ClassName string  `json:"class_name"`
	Position  *[2]int `json:"position"`
	Area      *int    `json:"area"`
	Status    string  `json:"status"`
}

// Response represents the output to the plugin executor.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Config selects the output file. Relative paths are resolved against the
// plugin directory.
type Config struct {
	File string `json:"file"`
}

var header = []string{"time", "class_id", "class_name", "x", "y", "area"}

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

	cfg := Config{File: "readings.csv"}
	if len(req.Config) > 0 {
		if err := json.Unmarshal(req.Config, &cfg); err != nil {
			writeErrorResponse(fmt.Sprintf("failed to parse config: %v", err))
			return
		}
	}

	if err := appendRow(cfg.File, row(time.Now(), req.Reading)); err != nil {
		writeErrorResponse(fmt.Sprintf("append failed: %v", err))
		return
	}

	writeSuccessResponse()
}

// row formats one reading. Position and area are blank when the reading
// has no region.
func row(now time.Time, r Reading) []string {
	out := []string{now.UTC().Format(time.RFC3339), r.ClassID, r.ClassName, "", "", ""}
	if r.Position != nil {
		out[3] = strconv.Itoa(r.Position[0])
		out[4] = strconv.Itoa(r.Position[1])
	}
	if r.Area != nil {
		out[5] = strconv.Itoa(*r.Area)
	}
	return out
}

// appendRow appends rec to path, writing the header first when the file is
// new.
func appendRow(path string, rec []string) error {
	_, statErr := os.Stat(path)
	fresh := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if fresh {
		if err := w.Write(header); err != nil {
			return err
		}
	}
	if err := w.Write(rec); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
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
