package app

import (
	"context"
	"time"
)

// DefaultPeriod is the tick period used when none is configured.
const DefaultPeriod = time.Second / 30

// Loop runs a step function at a fixed period on a single goroutine, and runs
// posted functions on that same goroutine between steps.
type Loop struct {
	period time.Duration
	posted chan func()
}

// NewLoop creates a loop ticking every period. Non-positive periods use
// DefaultPeriod.
func NewLoop(period time.Duration) *Loop {
	if period <= 0 {
		period = DefaultPeriod
	}
	return &Loop{
		period: period,
		posted: make(chan func(), 32),
	}
}

// Period returns the tick period.
func (l *Loop) Period() time.Duration {
	return l.period
}

// Post queues fn to run on the loop goroutine. It returns false if the queue
// is full and fn was dropped.
func (l *Loop) Post(fn func()) bool {
	select {
	case l.posted <- fn:
		return true
	default:
		return false
	}
}

// Run calls step once per period until ctx is done. Ticks that arrive while
// a step is still running are dropped.
func (l *Loop) Run(ctx context.Context, step func()) {
	ticker := time.NewTicker(l.period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-l.posted:
			fn()
		case <-ticker.C:
			step()
		}
	}
}
