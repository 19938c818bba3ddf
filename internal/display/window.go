// Package display shows the live video and the recognized phrase in a
// HighGUI window.
package display

import (
	"image"
	"sync"

	"github.com/ayusman/ishara/internal/app"
	"github.com/ayusman/ishara/internal/capture"
	"github.com/ayusman/ishara/internal/log"
	"github.com/ayusman/ishara/internal/textshape"
	"github.com/cyclopcam/logs"
	"github.com/fogleman/gg"
	"gocv.io/x/gocv"
	"golang.org/x/image/font"
)

// Options configures a Window.
type Options struct {
	Title    string
	Width    int
	Height   int
	Font     string  // TTF file for the phrase band
	FontSize float64 // points
}

// Window is a presenter backed by a gocv window. All methods must be called
// from the goroutine that created it.
type Window struct {
	opts Options
	log  logs.Log
	win  *gocv.Window
	face font.Face

	mu            sync.Mutex
	video         image.Image
	text          string
	dir           textshape.Direction
	goLiveEnabled bool
	dirty         bool
	exited        bool
	goLive        func()
	exit          func()
}

// New opens the window. A font that cannot be loaded is logged and replaced
// by the built-in face.
func New(opts Options, logger logs.Log) *Window {
	w := &Window{
		opts:  opts,
		log:   log.NewPrefixLogger(logger, "Window:"),
		dirty: true,
	}

	if opts.Font != "" {
		face, err := gg.LoadFontFace(opts.Font, opts.FontSize)
		if err != nil {
			w.log.Warnf("Font %v unavailable, using built-in face: %v", opts.Font, err)
		} else {
			w.face = face
		}
	}

	w.win = gocv.NewWindow(opts.Title)
	w.win.ResizeWindow(opts.Width, opts.Height)
	return w
}

// DisplayFrame scales the frame into the video area and keeps a copy of it.
func (w *Window) DisplayFrame(frame *capture.Frame) {
	r := fit(image.Pt(frame.Width, frame.Height), image.Rect(0, 0, w.opts.Width, videoHeight(w.opts.Height)))
	if r.Empty() {
		return
	}

	small := gocv.NewMat()
	defer small.Close()
	gocv.Resize(frame.Mat, &small, r.Size(), 0, 0, gocv.InterpolationArea)

	img, err := small.ToImage()
	if err != nil {
		w.log.Debugf("Frame conversion failed: %v", err)
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.video = img
	w.dirty = true
}

// DisplayText sets the phrase shown in the band.
func (w *Window) DisplayText(text string, dir textshape.Direction) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if text == w.text && dir == w.dir {
		return
	}
	w.text = text
	w.dir = dir
	w.dirty = true
}

func (w *Window) OnGoLive(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.goLive = fn
}

func (w *Window) OnExit(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.exit = fn
}

// SetControlEnabled updates the hint line. Exit is always available.
func (w *Window) SetControlEnabled(id app.Control, enabled bool) {
	if id != app.ControlGoLive {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.goLiveEnabled = enabled
	w.dirty = true
}

// Poll redraws the window if anything changed and handles one key press.
func (w *Window) Poll() {
	w.mu.Lock()
	var img image.Image
	if w.dirty {
		img = compose(scene{
			width:  w.opts.Width,
			height: w.opts.Height,
			video:  w.video,
			text:   w.text,
			dir:    w.dir,
			hint:   hint(w.goLiveEnabled),
			face:   w.face,
		})
		w.dirty = false
	}
	w.mu.Unlock()

	if img != nil {
		w.show(img)
	}

	switch keyAction(w.win.WaitKey(1)) {
	case actionGoLive:
		w.fire(actionGoLive)
	case actionExit:
		w.fire(actionExit)
	}

	if !w.win.IsOpen() {
		w.fire(actionExit)
	}
}

func (w *Window) show(img image.Image) {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		w.log.Errorf("Rendering failed: %v", err)
		return
	}
	defer mat.Close()
	w.win.IMShow(mat)
}

func (w *Window) fire(a action) {
	w.mu.Lock()
	var fn func()
	switch a {
	case actionGoLive:
		if w.goLiveEnabled {
			fn = w.goLive
		}
	case actionExit:
		if !w.exited {
			w.exited = true
			fn = w.exit
		}
	}
	w.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Close destroys the window.
func (w *Window) Close() error {
	return w.win.Close()
}
