package rhythm

import "time"

// Outcome classifies a tap.
type Outcome int

const (
	Perfect Outcome = iota
	Great
	Ok
	MissOutside // Tap landed outside the target
	MissLate    // Tap was inside but too far from any beat
)

// String returns the HUD label for the outcome.
func (o Outcome) String() string {
	switch o {
	case Perfect:
		return "PERFECT"
	case Great:
		return "GREAT"
	case Ok:
		return "OK"
	case MissOutside:
		return "MISS"
	case MissLate:
		return "OFF BEAT"
	default:
		return "?"
	}
}

// IsHit reports whether the outcome counts as a hit.
func (o Outcome) IsHit() bool {
	return o == Perfect || o == Great || o == Ok
}

// Window holds the nested timing tolerances, strictly increasing.
type Window struct {
	Perfect time.Duration
	Great   time.Duration
	Ok      time.Duration
}

// Classify maps an absolute beat distance to an outcome. It never returns
// MissOutside.
func (w Window) Classify(delta time.Duration) Outcome {
	if delta < 0 {
		delta = -delta
	}
	switch {
	case delta <= w.Perfect:
		return Perfect
	case delta <= w.Great:
		return Great
	case delta <= w.Ok:
		return Ok
	default:
		return MissLate
	}
}

// TapEvent is a tap in playfield coordinates at a clock instant.
type TapEvent struct {
	X, Y float64
	At   time.Duration
}

// Judgement is the result of judging one tap.
type Judgement struct {
	Outcome Outcome
	Delta   time.Duration // Signed offset to the nearest beat; zero for MissOutside
	At      time.Duration
}

// JudgementEngine performs the hit test and timing classification.
// It has no side effects: two taps inside one beat window are judged
// independently against the same nearest boundary.
type JudgementEngine struct {
	beats *BeatClock
}

// NewJudgementEngine creates a judge reading from the given beat clock.
func NewJudgementEngine(beats *BeatClock) JudgementEngine {
	return JudgementEngine{beats: beats}
}

// Judge classifies tap against a snapshot of the target and the active window.
func (j JudgementEngine) Judge(tap TapEvent, target Target, window Window) Judgement {
	dx := tap.X - target.Center.X
	dy := tap.Y - target.Center.Y
	if dx*dx+dy*dy > target.Radius*target.Radius {
		return Judgement{Outcome: MissOutside, At: tap.At}
	}
	delta := j.beats.NearestBeatDelta(tap.At)
	return Judgement{Outcome: window.Classify(delta), Delta: delta, At: tap.At}
}
