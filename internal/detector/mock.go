package detector

import (
	"sync"

	"github.com/ayusman/ishara/internal/hand"
	"gocv.io/x/gocv"
)

// Mock is a test implementation of the Provider interface.
// It allows tests to control the detection results.
type Mock struct {
	mu     sync.Mutex
	hands  []hand.Observation
	err    error
	calls  int
	closed bool
}

// NewMock creates a new Mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *Mock) SetHands(hands ...hand.Observation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *Mock) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *Mock) Detect(frame *gocv.Mat) ([]hand.Observation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	out := make([]hand.Observation, len(m.hands))
	copy(out, m.hands)
	return out, nil
}

// Calls returns how many times Detect ran.
func (m *Mock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Close marks the mock closed.
func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *Mock) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
