package transport

import (
	"bytes"
	"errors"
	"sync"
)

// TestablePort is a Port with configurable failures, for tests.
type TestablePort struct {
	mu sync.Mutex

	// WriteBuffer captures data written to the port
	WriteBuffer *bytes.Buffer

	// WriteError is returned by every Write call if set
	WriteError error

	// ShortWrite makes Write report one byte less than it was given
	ShortWrite bool

	// Closed indicates whether Close was called
	Closed bool

	// WriteCalls records the number of Write calls
	WriteCalls int
}

// NewTestablePort creates an empty TestablePort.
func NewTestablePort() *TestablePort {
	return &TestablePort{WriteBuffer: bytes.NewBuffer(nil)}
}

func (p *TestablePort) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.WriteCalls++
	if p.Closed {
		return 0, errors.New("serial port closed")
	}
	if p.WriteError != nil {
		return 0, p.WriteError
	}
	if p.ShortWrite && len(b) > 0 {
		return p.WriteBuffer.Write(b[:len(b)-1])
	}
	return p.WriteBuffer.Write(b)
}

func (p *TestablePort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Closed = true
	return nil
}

// Written returns everything written so far.
func (p *TestablePort) Written() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.WriteBuffer.String()
}

// Recorder is a Sender that keeps every record, for tests.
type Recorder struct {
	mu      sync.Mutex
	records []Record
	err     error
}

// Send stores rec, or fails with the configured error.
func (r *Recorder) Send(rec Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.records = append(r.records, rec)
	return nil
}

func (r *Recorder) Close() error { return nil }

// Fail makes every following Send return err. Pass nil to clear.
func (r *Recorder) Fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// Records returns a copy of the sent records.
func (r *Recorder) Records() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Record(nil), r.records...)
}
