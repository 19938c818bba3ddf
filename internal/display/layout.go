package display

import (
	"image"
	"image/color"

	"github.com/ayusman/ishara/internal/textshape"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
)

var (
	background = color.RGBA{R: 0x12, G: 0x12, B: 0x12, A: 0xff}
	band       = color.RGBA{R: 0x24, G: 0x2a, B: 0x33, A: 0xff}
	phraseInk  = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	hintInk    = color.RGBA{R: 0x9a, G: 0xa4, B: 0xb0, A: 0xff}
)

const padding = 12

// videoHeight is the height of the video area: the top 80% of the window.
func videoHeight(height int) int {
	return height * 4 / 5
}

// fit returns the largest rectangle with the aspect ratio of src that fits
// in box, centered in box.
func fit(src image.Point, box image.Rectangle) image.Rectangle {
	if src.X <= 0 || src.Y <= 0 || box.Empty() {
		return image.Rectangle{}
	}
	w, h := box.Dx(), box.Dx()*src.Y/src.X
	if h > box.Dy() {
		w, h = box.Dy()*src.X/src.Y, box.Dy()
	}
	x := box.Min.X + (box.Dx()-w)/2
	y := box.Min.Y + (box.Dy()-h)/2
	return image.Rect(x, y, x+w, y+h)
}

type action int

const (
	actionNone action = iota
	actionGoLive
	actionExit
)

// keyAction maps a HighGUI key code to a control.
func keyAction(key int) action {
	if key < 0 {
		return actionNone
	}
	switch key & 0xff {
	case 'l', 'L':
		return actionGoLive
	case 'q', 'Q', 27:
		return actionExit
	}
	return actionNone
}

func hint(goLiveEnabled bool) string {
	if goLiveEnabled {
		return "[L] Go Live   [Q] Exit"
	}
	return "Live   [Q] Exit"
}

// scene is everything drawn in one window image.
type scene struct {
	width, height int
	video         image.Image
	text          string
	dir           textshape.Direction
	hint          string
	face          font.Face
}

// compose draws the scene: the video centered in the top area, then the
// phrase band with the phrase aligned to its reading direction, then the
// hint line.
func compose(s scene) image.Image {
	dc := gg.NewContext(s.width, s.height)
	dc.SetColor(background)
	dc.Clear()

	top := videoHeight(s.height)
	if s.video != nil {
		r := fit(s.video.Bounds().Size(), image.Rect(0, 0, s.width, top))
		dc.DrawImage(s.video, r.Min.X, r.Min.Y)
	}

	dc.SetColor(band)
	dc.DrawRectangle(0, float64(top), float64(s.width), float64(s.height-top))
	dc.Fill()

	if s.face != nil {
		dc.SetFontFace(s.face)
	}

	x, ax, align := float64(s.width-padding), 1.0, gg.AlignRight
	if s.dir == textshape.LTR {
		x, ax, align = padding, 0, gg.AlignLeft
	}
	dc.SetColor(phraseInk)
	dc.DrawStringWrapped(s.text, x, float64(top+padding), ax, 0, float64(s.width-2*padding), 1.3, align)

	dc.SetColor(hintInk)
	dc.DrawStringAnchored(s.hint, float64(s.width)/2, float64(s.height-padding), 0.5, 0)

	return dc.Image()
}
