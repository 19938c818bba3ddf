package app

import (
	"fmt"

	"github.com/ayusman/ishara/internal/capture"
	"github.com/ayusman/ishara/internal/textshape"
)

// Control identifies a user control exposed by a presenter.
type Control int

const (
	ControlGoLive Control = iota
	ControlExit
)

func (c Control) String() string {
	switch c {
	case ControlGoLive:
		return "GoLive"
	case ControlExit:
		return "Exit"
	}
	return fmt.Sprintf("Control(%d)", int(c))
}

// Presenter shows frames and phrases and reports user intent.
//
// The controller calls DisplayText before DisplayFrame on every published
// tick. The frame is only valid for the duration of the call.
type Presenter interface {
	DisplayFrame(frame *capture.Frame)
	DisplayText(text string, dir textshape.Direction)
	OnGoLive(fn func())
	OnExit(fn func())
	SetControlEnabled(id Control, enabled bool)
}

// Poller is implemented by presenters that must pump their own events on the
// loop goroutine.
type Poller interface {
	Poll()
}
