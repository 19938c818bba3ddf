package sign

import (
	"math"

	"github.com/ayusman/ishara/internal/hand"
)

// DefaultOKTolerance is the largest per-axis distance, in normalized frame
// units, between thumb tip and index tip that still counts as touching.
// It is absolute, so the OK pose gets harder to hit as the hand moves away
// from the camera.
const DefaultOKTolerance = 0.03

// Predicate is a geometric test over one well-formed observation.
type Predicate func(obs hand.Observation) bool

// Rule pairs a sign with the predicate that recognizes it.
type Rule struct {
	Sign  Sign
	Name  string
	Match Predicate
}

// tipAboveDIP reports a finger whose tip is higher than its DIP joint.
func tipAboveDIP(f hand.Finger) Predicate {
	return func(obs hand.Observation) bool {
		return obs.At(f.Tip).Y < obs.At(f.DIP).Y
	}
}

// tipBelowDIP reports a finger whose tip has dropped under its DIP joint.
func tipBelowDIP(f hand.Finger) Predicate {
	return func(obs hand.Observation) bool {
		return obs.At(f.Tip).Y > obs.At(f.DIP).Y
	}
}

// tipAbovePIP reports a finger raised past its middle joint.
func tipAbovePIP(f hand.Finger) Predicate {
	return func(obs hand.Observation) bool {
		return obs.At(f.Tip).Y < obs.At(f.PIP).Y
	}
}

// tipBelowPIP reports a finger folded past its middle joint.
func tipBelowPIP(f hand.Finger) Predicate {
	return func(obs hand.Observation) bool {
		return obs.At(f.Tip).Y > obs.At(f.PIP).Y
	}
}

func thumbUp(obs hand.Observation) bool {
	return obs.At(hand.ThumbTip).Y < obs.At(hand.ThumbIP).Y
}

func thumbDown(obs hand.Observation) bool {
	return obs.At(hand.ThumbTip).Y > obs.At(hand.ThumbIP).Y
}

// thumbOut reads thumb extension from x because the thumb swings sideways
// instead of folding vertically.
func thumbOut(obs hand.Observation) bool {
	return obs.At(hand.ThumbTip).X < obs.At(hand.ThumbIP).X
}

// tipsTouch reports thumb and index tips within tol of each other on both
// axes. The bound is inclusive.
func tipsTouch(tol float64) Predicate {
	return func(obs hand.Observation) bool {
		thumb, index := obs.At(hand.ThumbTip), obs.At(hand.IndexTip)
		return math.Abs(thumb.X-index.X) <= tol && math.Abs(thumb.Y-index.Y) <= tol
	}
}

func all(preds ...Predicate) Predicate {
	return func(obs hand.Observation) bool {
		for _, p := range preds {
			if !p(obs) {
				return false
			}
		}
		return true
	}
}

// cascade returns the rules in priority order. Victory and affection
// measure against the DIP joint, the rest against the PIP joint.
func cascade(okTolerance float64) []Rule {
	return []Rule{
		{
			Sign: WinSign,
			Name: "victory",
			Match: all(
				tipAboveDIP(hand.Index), tipAboveDIP(hand.Middle),
				tipBelowDIP(hand.Ring), tipBelowDIP(hand.Pinky),
			),
		},
		{
			Sign: LoveSign,
			Name: "affection",
			Match: all(
				tipAboveDIP(hand.Index), tipAboveDIP(hand.Pinky),
				tipBelowDIP(hand.Middle), tipBelowDIP(hand.Ring),
				thumbOut,
			),
		},
		{
			Sign: LikeSign,
			Name: "thumbs-up",
			Match: all(
				thumbUp,
				tipBelowPIP(hand.Index), tipBelowPIP(hand.Middle),
			),
		},
		{
			Sign: DislikeSign,
			Name: "thumbs-down",
			Match: all(
				thumbDown,
				tipBelowPIP(hand.Index), tipBelowPIP(hand.Middle),
				tipBelowPIP(hand.Ring), tipBelowPIP(hand.Pinky),
			),
		},
		{
			Sign: StopSign,
			Name: "stop",
			Match: all(
				tipAbovePIP(hand.Index), tipAbovePIP(hand.Middle),
				tipAbovePIP(hand.Ring), tipAbovePIP(hand.Pinky),
				thumbOut,
			),
		},
		{
			Sign: OkSign,
			Name: "ok",
			Match: all(
				tipsTouch(okTolerance),
				tipAbovePIP(hand.Middle), tipAbovePIP(hand.Ring), tipAbovePIP(hand.Pinky),
			),
		},
	}
}
