// Package tray provides a system tray control surface for Ishara.
package tray

import (
	"sync"

	"github.com/ayusman/ishara/internal/app"
	"github.com/ayusman/ishara/internal/capture"
	"github.com/ayusman/ishara/internal/textshape"
	"github.com/getlantern/systray"
)

// Dispatcher runs fn on the goroutine that owns the controller, typically
// (*app.Loop).Post.
type Dispatcher func(fn func()) bool

// Tray is a presenter that exposes Go Live and Exit in the system tray and
// shows the last phrase. It does not display video.
type Tray struct {
	dispatch Dispatcher
	quit     func()

	mu            sync.RWMutex
	onGoLive      func()
	onExit        func()
	goLiveEnabled bool
	last          string

	// Menu items stored for later updates
	menuGoLive *systray.MenuItem
	menuLast   *systray.MenuItem
}

// New creates a Tray whose callbacks run through dispatch.
func New(dispatch Dispatcher) *Tray {
	return &Tray{
		dispatch:      dispatch,
		quit:          systray.Quit,
		goLiveEnabled: true,
	}
}

func (t *Tray) OnGoLive(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onGoLive = fn
}

func (t *Tray) OnExit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onExit = fn
}

// DisplayFrame is a no-op; the tray has no video surface.
func (t *Tray) DisplayFrame(*capture.Frame) {}

// DisplayText shows text in the "Last:" item.
func (t *Tray) DisplayText(text string, _ textshape.Direction) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if text == t.last {
		return
	}
	t.last = text
	if t.menuLast != nil {
		t.menuLast.SetTitle(lastTitle(text))
	}
}

// SetControlEnabled enables or disables the Go Live item. Exit is always
// enabled.
func (t *Tray) SetControlEnabled(id app.Control, enabled bool) {
	if id != app.ControlGoLive {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.goLiveEnabled = enabled
	if t.menuGoLive != nil {
		setEnabled(t.menuGoLive, enabled)
	}
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called and must run on the
// main goroutine.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExitTray)
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("Ishara")
	systray.SetTooltip("Ishara hand sign recognition")

	menuGoLive := systray.AddMenuItem("Go Live", "Start the camera")
	systray.AddSeparator()

	menuLast := systray.AddMenuItem(lastTitle(""), "Last recognized phrase")
	menuLast.Disable()
	systray.AddSeparator()

	menuExit := systray.AddMenuItem("Exit", "Quit Ishara")

	t.mu.Lock()
	t.menuGoLive = menuGoLive
	t.menuLast = menuLast
	setEnabled(menuGoLive, t.goLiveEnabled)
	menuLast.SetTitle(lastTitle(t.last))
	t.mu.Unlock()

	go func() {
		for {
			select {
			case <-menuGoLive.ClickedCh:
				t.handleGoLive()
			case <-menuExit.ClickedCh:
				t.handleExit()
				return
			}
		}
	}()
}

func (t *Tray) onExitTray() {}

// Quit makes Run return. Safe to call more than once.
func Quit() {
	systray.Quit()
}

func (t *Tray) handleGoLive() {
	t.mu.RLock()
	callback, enabled := t.onGoLive, t.goLiveEnabled
	t.mu.RUnlock()

	if callback != nil && enabled {
		t.dispatch(callback)
	}
}

func (t *Tray) handleExit() {
	t.mu.RLock()
	callback := t.onExit
	t.mu.RUnlock()

	if callback != nil {
		t.dispatch(callback)
	}

	t.quit()
}

func lastTitle(text string) string {
	if text == "" {
		return "Last: none"
	}
	return "Last: " + text
}

func setEnabled(item *systray.MenuItem, enabled bool) {
	if enabled {
		item.Enable()
	} else {
		item.Disable()
	}
}
