package detector

import (
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu         sync.Mutex
	boxes      []Box
	byRows     map[int][]Box
	err        error
	delay      time.Duration
	calls      int
	lastParams Params
	closed     bool
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetBoxes sets the boxes that will be returned by Detect.
func (m *MockDetector) SetBoxes(boxes []Box) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.boxes = boxes
}

// SetBoxesForHeight returns boxes only for images with the given number of rows.
// It lets a single run return different results per fixture image.
func (m *MockDetector) SetBoxesForHeight(rows int, boxes []Box) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.byRows == nil {
		m.byRows = make(map[int][]Box)
	}
	m.byRows[rows] = boxes
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// SetDelay makes every Detect call sleep for d before returning.
func (m *MockDetector) SetDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
}

// Detect returns the pre-configured boxes or error.
func (m *MockDetector) Detect(img gocv.Mat, params Params) ([]Box, error) {
	m.mu.Lock()
	m.calls++
	m.lastParams = params
	delay := m.delay
	err := m.err
	boxes := m.boxes
	if m.byRows != nil {
		boxes = m.byRows[img.Rows()]
	}
	m.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if err != nil {
		return nil, err
	}

	out := make([]Box, len(boxes))
	copy(out, boxes)
	return out, nil
}

// Calls returns how many times Detect was invoked.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// LastParams returns the parameters passed to the most recent Detect call.
func (m *MockDetector) LastParams() Params {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastParams
}

// Closed reports whether Close has been called.
func (m *MockDetector) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Close marks the mock as closed.
func (m *MockDetector) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
