package sign

import (
	"fmt"

	"github.com/ayusman/ishara/internal/hand"
)

// Classifier evaluates the rule cascade. It holds no mutable state and is
// safe for concurrent use.
type Classifier struct {
	okTolerance float64
	rules       []Rule
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithOKTolerance overrides DefaultOKTolerance. Non-positive values are
// ignored.
func WithOKTolerance(tol float64) Option {
	return func(c *Classifier) {
		if tol > 0 {
			c.okTolerance = tol
		}
	}
}

// NewClassifier creates a classifier with the standard cascade.
func NewClassifier(opts ...Option) *Classifier {
	c := &Classifier{okTolerance: DefaultOKTolerance}
	for _, opt := range opts {
		opt(c)
	}
	c.rules = cascade(c.okTolerance)
	return c
}

// OKTolerance returns the thumb/index touch tolerance in use.
func (c *Classifier) OKTolerance() float64 {
	return c.okTolerance
}

// Rules returns the cascade in priority order.
func (c *Classifier) Rules() []Rule {
	return append([]Rule(nil), c.rules...)
}

// Classify returns the sign of the first matching rule, or NoneDetected.
// A malformed observation yields NoneDetected and an error wrapping
// ErrInvalidObservation.
func (c *Classifier) Classify(obs hand.Observation) (Sign, error) {
	if err := obs.Validate(); err != nil {
		return NoneDetected, fmt.Errorf("classify: %w", err)
	}
	for _, r := range c.rules {
		if r.Match(obs) {
			return r.Sign, nil
		}
	}
	return NoneDetected, nil
}

// Explain returns the names of every rule the observation satisfies, in
// cascade order. Only the first one decides the sign.
func (c *Classifier) Explain(obs hand.Observation) ([]string, error) {
	if err := obs.Validate(); err != nil {
		return nil, fmt.Errorf("explain: %w", err)
	}
	var matched []string
	for _, r := range c.rules {
		if r.Match(obs) {
			matched = append(matched, r.Name)
		}
	}
	return matched, nil
}
