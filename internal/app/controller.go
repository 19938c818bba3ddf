// Package app drives the capture, landmark and classification pipeline and
// publishes results to presenters.
package app

import (
	"fmt"
	"sync"
	"time"

	"github.com/ayusman/ishara/internal/capture"
	"github.com/ayusman/ishara/internal/detector"
	"github.com/ayusman/ishara/internal/log"
	"github.com/ayusman/ishara/internal/sign"
	"github.com/ayusman/ishara/internal/textshape"
	"github.com/cyclopcam/logs"
	"github.com/google/uuid"
)

// Config holds the collaborators of a Controller. Source, Provider and Log
// are required.
type Config struct {
	Source     capture.Source
	Provider   detector.Provider
	Classifier *sign.Classifier  // default sign.NewClassifier()
	Phrases    *sign.Phrasebook  // default sign.DefaultPhrasebook()
	Shaper     *textshape.Shaper // default textshape.NewShaper()
	Log        logs.Log

	// Quit runs after Exit stops the controller.
	Quit func()
}

// Stats counts what happened during the current or last live session.
type Stats struct {
	Session          string
	Live             bool
	Started          time.Time
	Ticks            int
	Published        int
	Skipped          int
	ProviderFailures int
	InvalidHands     int
	LastSign         sign.Sign
}

// Controller runs the per-tick pipeline. It owns the capture source and must
// be driven from a single goroutine (see Loop).
type Controller struct {
	source     capture.Source
	provider   detector.Provider
	classifier *sign.Classifier
	phrases    *sign.Phrasebook
	shaper     *textshape.Shaper
	log        logs.Log
	quit       func()

	mu         sync.Mutex
	live       bool
	stats      Stats
	presenters []Presenter
}

// New creates a controller.
func New(config Config) *Controller {
	c := &Controller{
		source:     config.Source,
		provider:   config.Provider,
		classifier: config.Classifier,
		phrases:    config.Phrases,
		shaper:     config.Shaper,
		log:        log.NewPrefixLogger(config.Log, "Controller:"),
		quit:       config.Quit,
	}
	if c.classifier == nil {
		c.classifier = sign.NewClassifier()
	}
	if c.phrases == nil {
		c.phrases = sign.DefaultPhrasebook()
	}
	if c.shaper == nil {
		c.shaper = textshape.NewShaper()
	}
	return c
}

// Bind attaches a presenter and registers its Go Live and Exit callbacks.
func (c *Controller) Bind(p Presenter) {
	p.OnGoLive(func() {
		if err := c.GoLive(); err != nil {
			c.log.Errorf("Go Live failed: %v", err)
		}
	})
	p.OnExit(c.Exit)

	c.mu.Lock()
	c.presenters = append(c.presenters, p)
	live := c.live
	c.mu.Unlock()

	p.SetControlEnabled(ControlGoLive, !live)
	p.SetControlEnabled(ControlExit, true)
}

// GoLive opens the capture source and starts a session. It does nothing when
// already live.
func (c *Controller) GoLive() error {
	c.mu.Lock()
	if c.live {
		c.mu.Unlock()
		return nil
	}
	if err := c.source.Open(); err != nil {
		c.mu.Unlock()
		return fmt.Errorf("go live: %w", err)
	}
	c.live = true
	c.stats = Stats{
		Session:  uuid.NewString(),
		Live:     true,
		Started:  time.Now(),
		LastSign: sign.NoneDetected,
	}
	c.log.Infof("Live (session %v)", c.stats.Session)
	presenters := c.presenters
	c.mu.Unlock()

	for _, p := range presenters {
		p.SetControlEnabled(ControlGoLive, false)
	}
	return nil
}

// Stop ends the session and releases the capture source. It does nothing
// when not live.
func (c *Controller) Stop() {
	c.mu.Lock()
	if !c.live {
		c.mu.Unlock()
		return
	}
	if err := c.source.Close(); err != nil {
		c.log.Warnf("Releasing capture source: %v", err)
	}
	c.live = false
	c.stats.Live = false
	s := c.stats
	presenters := c.presenters
	c.mu.Unlock()

	c.log.Infof("Stopped session %v after %v: %v ticks, %v published, %v skipped, %v provider failures, %v invalid hands",
		s.Session, time.Since(s.Started).Round(time.Millisecond), s.Ticks, s.Published, s.Skipped, s.ProviderFailures, s.InvalidHands)

	for _, p := range presenters {
		p.SetControlEnabled(ControlGoLive, true)
	}
}

// Exit stops the controller and runs the quit hook.
func (c *Controller) Exit() {
	c.Stop()
	if c.quit != nil {
		c.quit()
	}
}

// Close stops the controller and releases the landmark provider.
func (c *Controller) Close() error {
	c.Stop()
	return c.provider.Close()
}

// Live reports whether a session is running.
func (c *Controller) Live() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.live
}

// Stats returns a snapshot of the session counters.
func (c *Controller) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Tick processes one frame. A failed read skips the tick; nothing is
// published for it.
func (c *Controller) Tick() {
	c.mu.Lock()
	if !c.live {
		c.mu.Unlock()
		return
	}
	c.stats.Ticks++

	frame, err := c.source.ReadFrame()
	if err != nil {
		c.stats.Skipped++
		c.mu.Unlock()
		c.log.Debugf("Skipping tick: %v", err)
		return
	}
	defer frame.Close()

	s := c.recognize(frame)
	if s != c.stats.LastSign {
		c.log.Infof("Sign %v", s)
	}
	c.stats.LastSign = s
	c.stats.Published++
	presenters := c.presenters
	c.mu.Unlock()

	text := c.shaper.Shape(c.phrases.Text(s))
	for _, p := range presenters {
		p.DisplayText(text, textshape.RTL)
		p.DisplayFrame(frame)
	}
}

// recognize returns the sign of the first hand that shows one. Called with
// c.mu held.
func (c *Controller) recognize(frame *capture.Frame) sign.Sign {
	hands, err := c.provider.Detect(&frame.Mat)
	if err != nil {
		c.stats.ProviderFailures++
		if c.stats.ProviderFailures == 1 {
			c.log.Warnf("Landmark provider: %v", err)
		} else {
			c.log.Debugf("Landmark provider: %v", err)
		}
		return sign.NoneDetected
	}

	for i, obs := range hands {
		s, err := c.classifier.Classify(obs)
		if err != nil {
			c.stats.InvalidHands++
			c.log.Debugf("Hand %v: %v", i, err)
			continue
		}
		if s.Detected() {
			return s
		}
	}
	return sign.NoneDetected
}

// Step runs one loop iteration: a tick, then event polling on presenters
// that need it.
func (c *Controller) Step() {
	c.Tick()

	c.mu.Lock()
	presenters := c.presenters
	c.mu.Unlock()

	for _, p := range presenters {
		if poller, ok := p.(Poller); ok {
			poller.Poll()
		}
	}
}
