// Package hand defines the hand landmark model shared by the landmark
// provider and the pose classifier.
package hand

import (
	"errors"
	"fmt"
	"math"
)

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// ErrInvalidObservation is returned when an observation does not hold exactly
// one landmark per anatomical index.
var ErrInvalidObservation = errors.New("invalid hand observation")

var landmarkNames = [NumLandmarks]string{
	"wrist",
	"thumb_cmc", "thumb_mcp", "thumb_ip", "thumb_tip",
	"index_mcp", "index_pip", "index_dip", "index_tip",
	"middle_mcp", "middle_pip", "middle_dip", "middle_tip",
	"ring_mcp", "ring_pip", "ring_dip", "ring_tip",
	"pinky_mcp", "pinky_pip", "pinky_dip", "pinky_tip",
}

// Name returns the anatomical name of a landmark index.
func Name(id int) string {
	if id < 0 || id >= NumLandmarks {
		return fmt.Sprintf("landmark(%d)", id)
	}
	return landmarkNames[id]
}

// Landmark is one named point of a hand. X and Y are normalized to the frame
// (origin top-left, Y grows downward); Z is the relative depth.
type Landmark struct {
	ID int     `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	Z  float64 `json:"z"`
}

// Observation is a single detected hand.
type Observation struct {
	Landmarks  []Landmark `json:"landmarks"`
	Handedness string     `json:"handedness"` // "Left" or "Right"
	Score      float64    `json:"score"`
}

// Validate checks that the observation holds exactly NumLandmarks points,
// ordered by ID, with finite coordinates.
func (o Observation) Validate() error {
	if len(o.Landmarks) != NumLandmarks {
		return fmt.Errorf("%w: got %d landmarks, want %d", ErrInvalidObservation, len(o.Landmarks), NumLandmarks)
	}
	for i, lm := range o.Landmarks {
		if lm.ID != i {
			return fmt.Errorf("%w: position %d holds %s, want %s", ErrInvalidObservation, i, Name(lm.ID), Name(i))
		}
		if !finite(lm.X) || !finite(lm.Y) || !finite(lm.Z) {
			return fmt.Errorf("%w: %s has non-finite coordinates", ErrInvalidObservation, Name(i))
		}
	}
	return nil
}

// At returns the landmark with the given index. The observation must have
// passed Validate.
func (o Observation) At(id int) Landmark {
	return o.Landmarks[id]
}

// FromPoints builds an observation from positional points, assigning IDs by
// position. No length check is made here; see Validate.
func FromPoints(points [][3]float64, handedness string, score float64) Observation {
	obs := Observation{
		Landmarks:  make([]Landmark, len(points)),
		Handedness: handedness,
		Score:      score,
	}
	for i, p := range points {
		obs.Landmarks[i] = Landmark{ID: i, X: p[0], Y: p[1], Z: p[2]}
	}
	return obs
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
