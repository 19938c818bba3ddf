// Package textshape prepares right-to-left text for renderers that draw
// glyphs strictly left to right: Arabic letters are reshaped into their
// joined presentation forms and the paragraph is reordered into visual
// order with the Unicode bidirectional algorithm.
package textshape

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/unicode/bidi"
)

// Direction is the base direction of a paragraph.
type Direction int

const (
	// LTR is left-to-right text.
	LTR Direction = iota
	// RTL is right-to-left text.
	RTL
)

func (d Direction) String() string {
	if d == RTL {
		return "rtl"
	}
	return "ltr"
}

// Shape reshapes and reorders logical for display in an RTL paragraph.
func Shape(logical string) string {
	visual, err := Visual(Reshape(logical), RTL)
	if err != nil {
		// Keep logical order.
		return Reshape(logical)
	}
	return visual
}

// Visual reorders s from logical to visual order using dir as the paragraph
// direction when s has no strong directional characters.
func Visual(s string, dir Direction) (string, error) {
	if s == "" {
		return "", nil
	}

	def := bidi.LeftToRight
	if dir == RTL {
		def = bidi.RightToLeft
	}

	var p bidi.Paragraph
	if _, err := p.SetString(s, bidi.DefaultDirection(def)); err != nil {
		return "", fmt.Errorf("bidi paragraph: %w", err)
	}
	ordering, err := p.Order()
	if err != nil {
		return "", fmt.Errorf("bidi order: %w", err)
	}

	var b strings.Builder
	for i := 0; i < ordering.NumRuns(); i++ {
		run := ordering.Run(i)
		if run.Direction() == bidi.RightToLeft {
			b.WriteString(bidi.ReverseString(run.String()))
		} else {
			b.WriteString(run.String())
		}
	}
	return b.String(), nil
}

// Shaper memoizes Shape. The phrase set is closed, so the cache stays
// small.
type Shaper struct {
	mu    sync.Mutex
	cache map[string]string
}

// NewShaper returns an empty Shaper.
func NewShaper() *Shaper {
	return &Shaper{cache: make(map[string]string)}
}

// Shape returns the display form of logical.
func (s *Shaper) Shape(logical string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.cache[logical]; ok {
		return v
	}
	v := Shape(logical)
	s.cache[logical] = v
	return v
}
