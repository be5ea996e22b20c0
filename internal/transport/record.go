// Package transport reports stable readings to a downstream consumer as
// newline-terminated JSON.
package transport

import (
	"encoding/json"
	"fmt"

	"github.com/ayusman/litmus/internal/classifier"
	"github.com/ayusman/litmus/internal/colorclass"
)

// StatusNoRegion marks a stable reading sent on a frame without a region.
const StatusNoRegion = "stable_no_region"

// Record is one stable reading on the wire.
type Record struct {
	ClassID   string  `json:"class_id"`
	ClassName string  `json:"class_name"`
	Position  *[2]int `json:"position,omitempty"`
	Area      *int    `json:"area,omitempty"`
	Status    string  `json:"status,omitempty"`
}

// NewRecord builds the record for a stable class. A nil region yields a
// status-only record.
func NewRecord(c colorclass.Class, region *classifier.Region) Record {
	rec := Record{ClassID: c.ID, ClassName: c.Name}
	if region == nil {
		rec.Status = StatusNoRegion
		return rec
	}
	pos := [2]int{region.Centroid.X, region.Centroid.Y}
	area := region.Area()
	rec.Position = &pos
	rec.Area = &area
	return rec
}

// Encode returns the record as one JSON line, newline included.
func Encode(rec Record) ([]byte, error) {
	b, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return append(b, '\n'), nil
}

// String is the console form of the record.
func (r Record) String() string {
	if r.Position == nil {
		return fmt.Sprintf("stable: %s (%s)", r.ClassID, r.ClassName)
	}
	area := 0
	if r.Area != nil {
		area = *r.Area
	}
	return fmt.Sprintf("detected: %s (%s) | position: %d,%d | area: %d",
		r.ClassID, r.ClassName, r.Position[0], r.Position[1], area)
}
