package hand

// Finger groups the four landmark indices of a non-thumb finger.
type Finger struct {
	MCP, PIP, DIP, Tip int
}

// Non-thumb fingers.
var (
	Index  = Finger{IndexMCP, IndexPIP, IndexDIP, IndexTip}
	Middle = Finger{MiddleMCP, MiddlePIP, MiddleDIP, MiddleTip}
	Ring   = Finger{RingMCP, RingPIP, RingDIP, RingTip}
	Pinky  = Finger{PinkyMCP, PinkyPIP, PinkyDIP, PinkyTip}
)

// Builder assembles synthetic observations, mostly for tests and demos.
// A fresh builder places every landmark at the frame center, which is a
// pose where no finger is extended or folded.
type Builder struct {
	obs Observation
}

// NewBuilder returns a builder with all landmarks at (0.5, 0.5, 0).
func NewBuilder() *Builder {
	b := &Builder{obs: Observation{
		Landmarks:  make([]Landmark, NumLandmarks),
		Handedness: "Right",
		Score:      0.95,
	}}
	for i := range b.obs.Landmarks {
		b.obs.Landmarks[i] = Landmark{ID: i, X: 0.5, Y: 0.5}
	}
	return b
}

// Set moves a landmark to (x, y).
func (b *Builder) Set(id int, x, y float64) *Builder {
	b.obs.Landmarks[id].X = x
	b.obs.Landmarks[id].Y = y
	return b
}

// SetY moves a landmark vertically.
func (b *Builder) SetY(id int, y float64) *Builder {
	b.obs.Landmarks[id].Y = y
	return b
}

// Extend lays a finger out straight upward in column x.
func (b *Builder) Extend(f Finger, x float64) *Builder {
	return b.Set(f.MCP, x, 0.60).Set(f.PIP, x, 0.50).Set(f.DIP, x, 0.42).Set(f.Tip, x, 0.35)
}

// Fold curls a finger so its tip sits below both upper joints.
func (b *Builder) Fold(f Finger, x float64) *Builder {
	return b.Set(f.MCP, x, 0.60).Set(f.PIP, x, 0.55).Set(f.DIP, x, 0.60).Set(f.Tip, x, 0.63)
}

// ThumbUp points the thumb straight up.
func (b *Builder) ThumbUp() *Builder {
	return b.Set(ThumbCMC, 0.58, 0.74).Set(ThumbMCP, 0.62, 0.66).Set(ThumbIP, 0.64, 0.56).Set(ThumbTip, 0.64, 0.46)
}

// ThumbDown points the thumb straight down.
func (b *Builder) ThumbDown() *Builder {
	return b.Set(ThumbCMC, 0.58, 0.60).Set(ThumbMCP, 0.60, 0.56).Set(ThumbIP, 0.60, 0.62).Set(ThumbTip, 0.60, 0.70)
}

// ThumbOut deflects the thumb tip past its IP joint along x.
func (b *Builder) ThumbOut() *Builder {
	return b.Set(ThumbCMC, 0.62, 0.74).Set(ThumbMCP, 0.68, 0.68).Set(ThumbIP, 0.70, 0.62).Set(ThumbTip, 0.66, 0.60)
}

// Handedness sets the reported handedness.
func (b *Builder) Handedness(h string) *Builder {
	b.obs.Handedness = h
	return b
}

// Build returns a copy of the observation built so far.
func (b *Builder) Build() Observation {
	out := b.obs
	out.Landmarks = append([]Landmark(nil), b.obs.Landmarks...)
	return out
}

// Neutral returns a hand with every landmark at the same point.
func Neutral() Observation {
	return NewBuilder().Build()
}

// Victory returns index and middle fingers raised, ring and pinky curled.
func Victory() Observation {
	return NewBuilder().
		Extend(Index, 0.58).Extend(Middle, 0.50).
		Fold(Ring, 0.43).Fold(Pinky, 0.37).
		Set(ThumbIP, 0.56, 0.64).Set(ThumbTip, 0.52, 0.66).
		Build()
}

// Affection returns the "I love you" hand: index, pinky and thumb out.
func Affection() Observation {
	return NewBuilder().
		Extend(Index, 0.58).Fold(Middle, 0.50).
		Fold(Ring, 0.43).Extend(Pinky, 0.37).
		ThumbOut().
		Build()
}

// ThumbsUp returns a raised thumb over a closed fist.
func ThumbsUp() Observation {
	return NewBuilder().
		Fold(Index, 0.58).Fold(Middle, 0.50).Fold(Ring, 0.43).Fold(Pinky, 0.37).
		ThumbUp().
		Build()
}

// ThumbsDown returns a lowered thumb over a closed fist.
func ThumbsDown() Observation {
	return NewBuilder().
		Fold(Index, 0.58).Fold(Middle, 0.50).Fold(Ring, 0.43).Fold(Pinky, 0.37).
		ThumbDown().
		Build()
}

// OpenPalm returns all four fingers raised with the thumb out.
func OpenPalm() Observation {
	return NewBuilder().
		Extend(Index, 0.58).Extend(Middle, 0.50).Extend(Ring, 0.43).Extend(Pinky, 0.37).
		ThumbOut().
		Build()
}

// OkCircle returns thumb and index tips touching with the other three
// fingers raised.
func OkCircle() Observation {
	return NewBuilder().
		Set(IndexMCP, 0.58, 0.60).Set(IndexPIP, 0.60, 0.50).Set(IndexDIP, 0.62, 0.48).Set(IndexTip, 0.60, 0.55).
		Extend(Middle, 0.50).Extend(Ring, 0.43).Extend(Pinky, 0.37).
		Set(ThumbCMC, 0.58, 0.74).Set(ThumbMCP, 0.62, 0.68).Set(ThumbIP, 0.64, 0.62).Set(ThumbTip, 0.61, 0.56).
		Build()
}
