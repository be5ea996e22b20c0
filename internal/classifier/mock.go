package classifier

import (
	"image"

	"gocv.io/x/gocv"
)

// MockClassifier replays scripted results, one per call. Once the script
// runs out it returns no match.
type MockClassifier struct {
	results []Result
	calls   int
	err     error
}

// NewMockClassifier creates a MockClassifier with the given script.
func NewMockClassifier(results ...Result) *MockClassifier {
	return &MockClassifier{results: results}
}

// SetResults replaces the script and rewinds it.
func (m *MockClassifier) SetResults(results ...Result) {
	m.results = results
	m.calls = 0
}

// SetError makes every following call fail with err.
func (m *MockClassifier) SetError(err error) {
	m.err = err
}

// Calls returns how many times Classify was called.
func (m *MockClassifier) Calls() int {
	return m.calls
}

// Classify returns the next scripted result.
func (m *MockClassifier) Classify(frame *gocv.Mat, window image.Rectangle) (Result, error) {
	if m.err != nil {
		return Result{}, m.err
	}
	i := m.calls
	m.calls++
	if i >= len(m.results) {
		return Result{}, nil
	}
	return m.results[i], nil
}
