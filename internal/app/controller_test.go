package app

import (
	"errors"
	"fmt"
	"testing"

	"github.com/ayusman/ishara/internal/capture"
	"github.com/ayusman/ishara/internal/detector"
	"github.com/ayusman/ishara/internal/hand"
	"github.com/ayusman/ishara/internal/sign"
	"github.com/ayusman/ishara/internal/textshape"
	"github.com/cyclopcam/logs"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

type fixture struct {
	source   *capture.MockSource
	provider *detector.Mock
	screen   *Recorder
	ctl      *Controller
	quits    int
}

func newFixture(t *testing.T) *fixture {
	mat := gocv.NewMatWithSize(48, 64, gocv.MatTypeCV8UC3)
	t.Cleanup(func() { mat.Close() })

	f := &fixture{
		source:   capture.NewMockSource([]*gocv.Mat{&mat}, true),
		provider: detector.NewMock(),
		screen:   NewRecorder(),
	}
	f.ctl = New(Config{
		Source:   f.source,
		Provider: f.provider,
		Log:      logs.NewTestingLog(t),
		Quit:     func() { f.quits++ },
	})
	f.ctl.Bind(f.screen)
	return f
}

func shaped(s sign.Sign) string {
	return textshape.Shape(sign.DefaultPhrasebook().Text(s))
}

func TestController_Bind(t *testing.T) {
	f := newFixture(t)

	require.True(t, f.screen.Enabled(ControlGoLive))
	require.True(t, f.screen.Enabled(ControlExit))
	require.False(t, f.ctl.Live())
}

func TestController_GoLive(t *testing.T) {
	f := newFixture(t)

	f.screen.PressGoLive()
	require.True(t, f.ctl.Live())
	require.True(t, f.source.IsOpen())
	require.False(t, f.screen.Enabled(ControlGoLive), "Go Live must be disabled while live")

	// Already live: no second open.
	require.NoError(t, f.ctl.GoLive())
	require.Equal(t, 1, f.source.Opens())

	_, err := uuid.Parse(f.ctl.Stats().Session)
	require.NoError(t, err)
}

func TestController_GoLive_Unavailable(t *testing.T) {
	f := newFixture(t)
	f.source.SetOpenError(errors.New("no such device"))

	err := f.ctl.GoLive()
	require.ErrorIs(t, err, capture.ErrCaptureUnavailable)
	require.False(t, f.ctl.Live())
	require.True(t, f.screen.Enabled(ControlGoLive))
}

func TestController_TickWhenIdle(t *testing.T) {
	f := newFixture(t)

	f.ctl.Tick()
	require.Zero(t, f.source.Reads())
	require.Zero(t, f.provider.Calls())
	require.Empty(t, f.screen.Events())
}

func TestController_Tick_NoHands(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ctl.GoLive())

	f.ctl.Tick()

	require.Equal(t, []string{
		"text rtl " + shaped(sign.NoneDetected),
		"frame 64x48",
	}, f.screen.Events())
	require.Equal(t, sign.NoneDetected, f.ctl.Stats().LastSign)
}

func TestController_Tick_Signs(t *testing.T) {
	tests := []struct {
		name  string
		hands []hand.Observation
		want  sign.Sign
	}{
		{"victory", []hand.Observation{hand.Victory()}, sign.WinSign},
		{"thumbs up", []hand.Observation{hand.ThumbsUp()}, sign.LikeSign},
		{"neutral", []hand.Observation{hand.Neutral()}, sign.NoneDetected},
		{"first detected hand wins", []hand.Observation{hand.ThumbsUp(), hand.Victory()}, sign.LikeSign},
		{"undetected hand does not block", []hand.Observation{hand.Neutral(), hand.OkCircle()}, sign.OkSign},
		{"invalid hand skipped", []hand.Observation{{Handedness: "Left"}, hand.ThumbsDown()}, sign.DislikeSign},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.provider.SetHands(tt.hands...)
			require.NoError(t, f.ctl.GoLive())

			f.ctl.Tick()

			require.Equal(t, tt.want, f.ctl.Stats().LastSign)
			require.Equal(t, shaped(tt.want), f.screen.LastText())
		})
	}
}

func TestController_Tick_InvalidHandCounted(t *testing.T) {
	f := newFixture(t)
	f.provider.SetHands(hand.FromPoints(make([][3]float64, 19), "Right", 0.9))
	require.NoError(t, f.ctl.GoLive())

	f.ctl.Tick()

	require.Equal(t, 1, f.ctl.Stats().InvalidHands)
	require.Equal(t, shaped(sign.NoneDetected), f.screen.LastText())
}

func TestController_Tick_ProviderFailure(t *testing.T) {
	f := newFixture(t)
	f.provider.SetError(fmt.Errorf("%w: helper crashed", detector.ErrProviderFailure))
	require.NoError(t, f.ctl.GoLive())

	f.ctl.Tick()
	f.ctl.Tick()

	stats := f.ctl.Stats()
	require.Equal(t, 2, stats.ProviderFailures)
	require.Equal(t, 2, stats.Published)
	require.Equal(t, 2, f.screen.Frames())
	require.Equal(t, shaped(sign.NoneDetected), f.screen.LastText())
}

func TestController_Tick_SkipsFailedReads(t *testing.T) {
	f := newFixture(t)
	f.source.FailEvery(3)
	f.provider.SetHands(hand.Victory())
	require.NoError(t, f.ctl.GoLive())

	for i := 0; i < 9; i++ {
		f.ctl.Tick()
	}

	stats := f.ctl.Stats()
	require.Equal(t, 9, stats.Ticks)
	require.Equal(t, 6, stats.Published)
	require.Equal(t, 3, stats.Skipped)
	require.Equal(t, 6, f.provider.Calls(), "skipped ticks never reach the provider")
	require.Equal(t, 6, f.screen.Frames())
	require.Len(t, f.screen.Texts(), 6)
}

func TestController_Stop(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ctl.GoLive())
	f.ctl.Tick()

	f.ctl.Stop()
	f.ctl.Stop()

	require.False(t, f.ctl.Live())
	require.Equal(t, 1, f.source.Closes(), "source must be released exactly once")
	require.True(t, f.screen.Enabled(ControlGoLive))

	// Ticks after Stop do nothing.
	frames := f.screen.Frames()
	f.ctl.Tick()
	require.Equal(t, frames, f.screen.Frames())
}

func TestController_NewSessionPerGoLive(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.ctl.GoLive())
	first := f.ctl.Stats().Session
	f.ctl.Tick()
	f.ctl.Stop()

	require.NoError(t, f.ctl.GoLive())
	second := f.ctl.Stats()
	require.NotEqual(t, first, second.Session)
	require.Zero(t, second.Ticks)
	require.Equal(t, 2, f.source.Opens())
}

func TestController_Exit(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ctl.GoLive())

	f.screen.PressExit()

	require.False(t, f.ctl.Live())
	require.Equal(t, 1, f.quits)
	require.Equal(t, 1, f.source.Closes())
}

func TestController_Close(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ctl.GoLive())

	require.NoError(t, f.ctl.Close())
	require.False(t, f.ctl.Live())
	require.True(t, f.provider.Closed())
}

func TestController_Step(t *testing.T) {
	f := newFixture(t)

	f.ctl.Step()
	require.Equal(t, 1, f.screen.Polls(), "presenters are polled even when idle")
	require.Zero(t, f.screen.Frames())

	require.NoError(t, f.ctl.GoLive())
	f.ctl.Step()
	require.Equal(t, 2, f.screen.Polls())
	require.Equal(t, 1, f.screen.Frames())
}

func TestController_BindWhileLive(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ctl.GoLive())

	late := NewRecorder()
	f.ctl.Bind(late)
	require.False(t, late.Enabled(ControlGoLive))

	f.ctl.Tick()
	require.Equal(t, 1, late.Frames())
	require.Equal(t, 1, f.screen.Frames())
}

func TestController_CustomPhrases(t *testing.T) {
	mat := gocv.NewMatWithSize(48, 64, gocv.MatTypeCV8UC3)
	defer mat.Close()

	phrases, err := sign.DefaultPhrasebook().WithOverrides(map[string]string{"win": "Victory!"})
	require.NoError(t, err)

	provider := detector.NewMock()
	provider.SetHands(hand.Victory())
	screen := NewRecorder()
	ctl := New(Config{
		Source:   capture.NewMockSource([]*gocv.Mat{&mat}, true),
		Provider: provider,
		Phrases:  phrases,
		Log:      logs.NewTestingLog(t),
	})
	ctl.Bind(screen)
	require.NoError(t, ctl.GoLive())

	ctl.Tick()
	require.Equal(t, textshape.Shape("Victory!"), screen.LastText())
}

func TestControl_String(t *testing.T) {
	require.Equal(t, "GoLive", ControlGoLive.String())
	require.Equal(t, "Exit", ControlExit.String())
	require.Equal(t, "Control(7)", Control(7).String())
}
