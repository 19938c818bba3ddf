// Package detector turns video frames into hand observations.
package detector

import (
	"errors"

	"github.com/ayusman/ishara/internal/hand"
	"gocv.io/x/gocv"
)

// ErrProviderFailure wraps every error produced while obtaining landmarks.
var ErrProviderFailure = errors.New("landmark provider failure")

// Provider defines the interface for hand landmark providers.
type Provider interface {
	// Detect analyzes a video frame and returns one observation per detected
	// hand, in the provider's order. Returns an empty slice if no hands are
	// detected.
	Detect(frame *gocv.Mat) ([]hand.Observation, error)

	// Close releases any resources held by the provider.
	Close() error
}

// Config holds configuration options for hand detection.
type Config struct {
	// MaxHands is the maximum number of hands to detect (default: 2).
	MaxHands int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64

	// Script is the path of the landmark helper. Empty means search the
	// usual locations.
	Script string

	// Python is the interpreter used to run Script. Empty means a venv
	// interpreter if one is found, else python3.
	Python string
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MaxHands:        2,
		MinConfidence:   0.5,
		MinTrackingConf: 0.5,
	}
}
