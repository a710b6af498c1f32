package rhythm

import (
	"math"
	"math/rand"
	"time"

	"github.com/vovakirdan/tapbeat/internal/config"
	"github.com/vovakirdan/tapbeat/internal/core"
)

// Target is a value snapshot of the moving target.
type Target struct {
	Position    core.Vec2 // Normalized [0,1]² playfield coordinates
	Destination core.Vec2 // Normalized waypoint being approached
	Center      core.Vec2 // Position in playfield units
	Radius      float64   // Playfield units, always > 0
}

// Where a run starts: horizontally centred, a little below the middle.
var startPosition = core.V(0.5, 0.58)

// TargetMotion owns the target's position and destination.
type TargetMotion struct {
	cfg    config.MotionConfig
	rng    *rand.Rand
	bounds core.Area
	radius float64
	pos    core.Vec2
	dest   core.Vec2
}

// NewTargetMotion creates a controller drawing destinations from rng.
func NewTargetMotion(cfg config.MotionConfig, rng *rand.Rand) *TargetMotion {
	m := &TargetMotion{cfg: cfg, rng: rng}
	m.Reset()
	return m
}

// Reset puts the target at its start position, at rest.
func (m *TargetMotion) Reset() {
	m.pos = startPosition
	m.dest = startPosition
}

// Resize recomputes the radius from the playable bounds.
func (m *TargetMotion) Resize(bounds core.Area) {
	m.bounds = bounds
	r := m.cfg.RadiusFraction * math.Min(bounds.W, bounds.H)
	m.radius = math.Max(m.minRadius(), r)
}

// Cadence returns how many beats pass between destination picks at level.
func (m *TargetMotion) Cadence(level int) int {
	step := m.cfg.LevelsPerCadenceStep
	if step < 1 {
		step = 1
	}
	n := m.cfg.MoveEveryBeats - (level-1)/step
	if n < 1 {
		n = 1
	}
	return n
}

// OnBeat picks a new destination when beat falls on the cadence.
// It reports whether the destination changed.
func (m *TargetMotion) OnBeat(beat, level int) bool {
	if beat%m.Cadence(level) != 0 {
		return false
	}
	minX, maxX := m.cfg.InsetX, 1-m.cfg.InsetX
	minY, maxY := m.cfg.InsetTop, 1-m.cfg.InsetBottom

	if level <= 1 && beat <= m.cfg.WarmupBeats {
		// Warm-up: stay within the middle half of the safe area.
		cx, cy := (minX+maxX)/2, (minY+maxY)/2
		hw, hh := (maxX-minX)/4, (maxY-minY)/4
		minX, maxX = cx-hw, cx+hw
		minY, maxY = cy-hh, cy+hh
	}

	m.dest = core.V(
		minX+m.rng.Float64()*(maxX-minX),
		minY+m.rng.Float64()*(maxY-minY),
	)
	return true
}

// Step moves the position toward the destination with frame-rate
// independent exponential smoothing. Higher energy means snappier motion.
func (m *TargetMotion) Step(dt time.Duration, energy float64) {
	if dt <= 0 {
		return
	}
	k := m.cfg.SmoothingBase + m.cfg.SmoothingEnergyGain*core.ClampF(energy, 0, 100)/100
	alpha := 1 - math.Exp(-k*dt.Seconds())
	m.pos = m.pos.Add(m.dest.Sub(m.pos).Scale(alpha))
}

// Target returns a snapshot of the target.
func (m *TargetMotion) Target() Target {
	r := m.radius
	if r <= 0 {
		r = m.minRadius()
	}
	return Target{
		Position:    m.pos,
		Destination: m.dest,
		Center:      m.bounds.Denormalize(m.pos),
		Radius:      r,
	}
}

func (m *TargetMotion) minRadius() float64 {
	if m.cfg.MinRadius > 0 {
		return m.cfg.MinRadius
	}
	return 1
}
