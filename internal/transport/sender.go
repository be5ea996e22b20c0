package transport

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/ayusman/litmus/internal/monitoring"
	"go.bug.st/serial"
)

// ErrWriteFailed is returned when a record could not be written.
var ErrWriteFailed = errors.New("transport write failed")

// Sender delivers stable readings.
type Sender interface {
	Send(rec Record) error
	Close() error
}

// WriterSender writes JSON lines to any io.Writer.
type WriterSender struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSender creates a WriterSender over w.
func NewWriterSender(w io.Writer) *WriterSender {
	return &WriterSender{w: w}
}

// Send writes one JSON line.
func (s *WriterSender) Send(rec Record) error {
	line, err := Encode(rec)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	n, err := s.w.Write(line)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	if n != len(line) {
		return fmt.Errorf("%w: short write %d of %d bytes", ErrWriteFailed, n, len(line))
	}
	return nil
}

// Close closes the writer if it is an io.Closer.
func (s *WriterSender) Close() error {
	if c, ok := s.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Port is the subset of serial.Port the sender needs.
type Port interface {
	io.Writer
	Close() error
}

// SerialSender writes JSON lines to a serial port.
type SerialSender struct {
	*WriterSender
	path string
}

// OpenSerial opens the port at path with opts.
func OpenSerial(path string, opts PortOptions) (*SerialSender, error) {
	mode, err := opts.SerialMode()
	if err != nil {
		return nil, err
	}

	port, err := serial.Open(path, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", path, err)
	}

	normalized, _ := opts.Normalize()
	monitoring.Logf("transport: serial port %s open at %s", path, normalized)
	return NewSerialSender(path, port), nil
}

// NewSerialSender wraps an already open port.
func NewSerialSender(path string, port Port) *SerialSender {
	return &SerialSender{WriterSender: NewWriterSender(port), path: path}
}

// Path returns the device path.
func (s *SerialSender) Path() string {
	return s.path
}

// Nop discards records.
type Nop struct{}

func (Nop) Send(Record) error { return nil }
func (Nop) Close() error      { return nil }
