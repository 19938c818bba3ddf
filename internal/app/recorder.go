package app

import (
	"fmt"
	"sync"

	"github.com/ayusman/ishara/internal/capture"
	"github.com/ayusman/ishara/internal/textshape"
)

// Recorder is a headless Presenter that records what it is shown.
// Useful for testing controllers without a window.
type Recorder struct {
	mu      sync.Mutex
	events  []string
	texts   []string
	frames  int
	polls   int
	enabled map[Control]bool
	goLive  func()
	exit    func()
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{enabled: make(map[Control]bool)}
}

func (r *Recorder) DisplayFrame(frame *capture.Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames++
	r.events = append(r.events, fmt.Sprintf("frame %dx%d", frame.Width, frame.Height))
}

func (r *Recorder) DisplayText(text string, dir textshape.Direction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.texts = append(r.texts, text)
	r.events = append(r.events, fmt.Sprintf("text %v %s", dir, text))
}

func (r *Recorder) OnGoLive(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.goLive = fn
}

func (r *Recorder) OnExit(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exit = fn
}

func (r *Recorder) SetControlEnabled(id Control, enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enabled[id] = enabled
}

func (r *Recorder) Poll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.polls++
}

// PressGoLive simulates the user pressing Go Live. Like a real control, it
// does nothing while disabled.
func (r *Recorder) PressGoLive() {
	r.mu.Lock()
	fn, ok := r.goLive, r.enabled[ControlGoLive]
	r.mu.Unlock()
	if fn != nil && ok {
		fn()
	}
}

// PressExit simulates the user pressing Exit.
func (r *Recorder) PressExit() {
	r.mu.Lock()
	fn := r.exit
	r.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Events returns everything displayed, in order.
func (r *Recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

// Texts returns every displayed text, in order.
func (r *Recorder) Texts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.texts...)
}

// LastText returns the most recent text, or "" if none was shown.
func (r *Recorder) LastText() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.texts) == 0 {
		return ""
	}
	return r.texts[len(r.texts)-1]
}

func (r *Recorder) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

func (r *Recorder) Polls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.polls
}

// Enabled reports the last enablement set for id.
func (r *Recorder) Enabled(id Control) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.enabled[id]
}
