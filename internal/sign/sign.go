// Package sign classifies static hand poses into a closed set of signs.
//
// Classification is a pure function of one hand observation: an ordered
// cascade of geometric rules is evaluated and the first rule that matches
// decides the sign. Nothing is remembered between frames.
package sign

import (
	"fmt"

	"github.com/ayusman/ishara/internal/hand"
)

// Sign identifies a recognized hand pose.
type Sign int

const (
	// NoneDetected is returned when no rule matches.
	NoneDetected Sign = iota
	// WinSign is the victory pose: index and middle fingers raised.
	WinSign
	// LoveSign is the "I love you" pose: index, pinky and thumb out.
	LoveSign
	// LikeSign is a thumbs up.
	LikeSign
	// DislikeSign is a thumbs down.
	DislikeSign
	// StopSign is an open palm with the thumb out.
	StopSign
	// OkSign is thumb and index tips touching, other fingers raised.
	OkSign
)

// ErrInvalidObservation is returned by Classify for malformed input.
var ErrInvalidObservation = hand.ErrInvalidObservation

var signNames = map[Sign]string{
	NoneDetected: "NoneDetected",
	WinSign:      "WinSign",
	LoveSign:     "LoveSign",
	LikeSign:     "LikeSign",
	DislikeSign:  "DislikeSign",
	StopSign:     "StopSign",
	OkSign:       "OkSign",
}

// String returns the identifier of the sign.
func (s Sign) String() string {
	if name, ok := signNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Sign(%d)", int(s))
}

// Detected reports whether s is a recognized pose.
func (s Sign) Detected() bool {
	return s != NoneDetected
}

// All returns every sign, NoneDetected first.
func All() []Sign {
	return []Sign{NoneDetected, WinSign, LoveSign, LikeSign, DislikeSign, StopSign, OkSign}
}
