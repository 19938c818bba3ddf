package app

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewLoop_DefaultPeriod(t *testing.T) {
	require.Equal(t, DefaultPeriod, NewLoop(0).Period())
	require.Equal(t, DefaultPeriod, NewLoop(-time.Second).Period())
	require.Equal(t, 10*time.Millisecond, NewLoop(10*time.Millisecond).Period())
}

func TestLoop_RunStepsUntilCancelled(t *testing.T) {
	l := NewLoop(time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	var steps atomic.Int32
	done := make(chan struct{})
	go func() {
		l.Run(ctx, func() {
			if steps.Add(1) == 5 {
				cancel()
			}
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not stop after cancel")
	}
	require.GreaterOrEqual(t, steps.Load(), int32(5))
}

func TestLoop_PostRunsOnLoop(t *testing.T) {
	l := NewLoop(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ran := make(chan struct{})
	require.True(t, l.Post(func() { close(ran) }))

	go l.Run(ctx, func() {})

	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatal("posted function never ran")
	}
}

func TestLoop_PostQueueFull(t *testing.T) {
	l := NewLoop(time.Hour)

	for i := 0; i < cap(l.posted); i++ {
		require.True(t, l.Post(func() {}))
	}
	require.False(t, l.Post(func() {}), "post must not block when the queue is full")
}

func TestLoop_DrivesController(t *testing.T) {
	f := newFixture(t)
	l := NewLoop(time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	// Quit cancels the loop, as in the real program.
	f.ctl.quit = cancel
	require.True(t, l.Post(f.screen.PressGoLive))

	done := make(chan struct{})
	go func() {
		l.Run(ctx, func() {
			f.ctl.Step()
			if f.screen.Frames() >= 3 {
				f.screen.PressExit()
			}
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not exit")
	}
	require.False(t, f.ctl.Live())
	require.GreaterOrEqual(t, f.screen.Frames(), 3)
	require.Equal(t, 1, f.source.Closes())
}
