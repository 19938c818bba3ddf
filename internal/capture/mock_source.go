package capture

import (
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// MockSource plays back pre-recorded frames for testing.
type MockSource struct {
	frames    []*gocv.Mat
	index     int
	loop      bool
	failEvery int
	reads     int
	opens     int
	closes    int
	openErr   error
	mu        sync.Mutex
	running   bool
}

// NewMockSource returns a source replaying frames, restarting at the end
// when loop is set.
func NewMockSource(frames []*gocv.Mat, loop bool) *MockSource {
	return &MockSource{
		frames: frames,
		loop:   loop,
	}
}

// FailEvery makes every n-th read fail with ErrEndOfStream. Zero disables
// failure injection.
func (c *MockSource) FailEvery(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failEvery = n
}

// SetOpenError makes Open fail with err.
func (c *MockSource) SetOpenError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.openErr = err
}

func (c *MockSource) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.openErr != nil {
		return fmt.Errorf("%w: %v", ErrCaptureUnavailable, c.openErr)
	}
	c.opens++
	c.running = true
	c.index = 0
	return nil
}

func (c *MockSource) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closes++
	c.running = false
	return nil
}

func (c *MockSource) ReadFrame() (*Frame, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return nil, ErrCaptureUnavailable
	}

	c.reads++
	if c.failEvery > 0 && c.reads%c.failEvery == 0 {
		return nil, fmt.Errorf("%w: injected failure on read %d", ErrEndOfStream, c.reads)
	}

	if len(c.frames) == 0 {
		return nil, fmt.Errorf("%w: no frames available", ErrEndOfStream)
	}

	if c.index >= len(c.frames) {
		if !c.loop {
			return nil, ErrEndOfStream
		}
		c.index = 0
	}

	// Clone the frame so the original isn't modified
	frame := c.frames[c.index].Clone()
	c.index++

	return NewFrame(frame), nil
}

func (c *MockSource) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Reads returns how many reads were attempted while open.
func (c *MockSource) Reads() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reads
}

// Opens and Closes count successful Open calls and Close calls.
func (c *MockSource) Opens() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opens
}

func (c *MockSource) Closes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closes
}

// Reset restarts playback from the beginning
func (c *MockSource) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.index = 0
}
