package rhythm

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/vovakirdan/tapbeat/internal/config"
	"github.com/vovakirdan/tapbeat/internal/core"
)

func newMotion(seed int64) *TargetMotion {
	m := NewTargetMotion(config.DefaultConfig().Motion, rand.New(rand.NewSource(seed)))
	m.Resize(core.NewArea(0, 0, 100, 40))
	return m
}

func TestMotionResize(t *testing.T) {
	m := newMotion(1)

	tests := []struct {
		name   string
		bounds core.Area
		want   float64
	}{
		{"wide", core.NewArea(0, 0, 100, 40), 4.8},
		{"small uses minimum", core.NewArea(0, 0, 10, 10), 2},
		{"empty uses minimum", core.Area{}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m.Resize(tt.bounds)
			if got := m.Target().Radius; math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Radius = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMotionResetAndCenter(t *testing.T) {
	m := newMotion(1)
	m.Resize(core.NewArea(10, 5, 100, 40))
	tg := m.Target()
	if tg.Position != core.V(0.5, 0.58) || tg.Destination != tg.Position {
		t.Errorf("reset target = %+v", tg)
	}
	want := core.V(60, 5+0.58*40)
	if tg.Center.Dist(want) > 1e-9 {
		t.Errorf("Center = %+v, want %+v", tg.Center, want)
	}
}

func TestMotionCadence(t *testing.T) {
	m := newMotion(1)

	tests := []struct {
		level int
		want  int
	}{
		{1, 2},
		{3, 2},
		{4, 1},
		{9, 1},
	}
	for _, tt := range tests {
		if got := m.Cadence(tt.level); got != tt.want {
			t.Errorf("Cadence(%d) = %d, want %d", tt.level, got, tt.want)
		}
	}

	if m.OnBeat(1, 1) {
		t.Error("beat 1 at level 1 should not move the target")
	}
	if !m.OnBeat(2, 1) {
		t.Error("beat 2 at level 1 should move the target")
	}
	if !m.OnBeat(3, 5) {
		t.Error("every beat should move the target at level 5")
	}
}

func TestMotionDestinationsInSafeArea(t *testing.T) {
	m := newMotion(42)
	cfg := config.DefaultConfig().Motion

	for beat := 1; beat <= 2000; beat++ {
		m.OnBeat(beat, 5)
		d := m.Target().Destination
		if d.X < cfg.InsetX || d.X > 1-cfg.InsetX || d.Y < cfg.InsetTop || d.Y > 1-cfg.InsetBottom {
			t.Fatalf("beat %d: destination %+v outside safe area", beat, d)
		}
	}
}

func TestMotionWarmupStaysNearCentre(t *testing.T) {
	m := newMotion(7)
	for beat := 2; beat <= 12; beat += 2 {
		m.OnBeat(beat, 1)
		d := m.Target().Destination
		if math.Abs(d.X-0.5) > 0.17+1e-9 || math.Abs(d.Y-0.5) > 0.16+1e-9 {
			t.Errorf("warm-up beat %d: destination %+v too far from centre", beat, d)
		}
	}
}

func TestMotionStepIsFrameRateIndependent(t *testing.T) {
	coarse := newMotion(3)
	fine := newMotion(3)
	coarse.OnBeat(2, 1)
	fine.OnBeat(2, 1)

	coarse.Step(100*time.Millisecond, 50)
	for i := 0; i < 10; i++ {
		fine.Step(10*time.Millisecond, 50)
	}

	if d := coarse.Target().Position.Dist(fine.Target().Position); d > 1e-9 {
		t.Errorf("positions diverge by %v", d)
	}
}

func TestMotionStepConvergesFasterWithEnergy(t *testing.T) {
	calm := newMotion(5)
	hype := newMotion(5)
	calm.OnBeat(2, 1)
	hype.OnBeat(2, 1)
	dest := calm.Target().Destination

	calm.Step(50*time.Millisecond, 0)
	hype.Step(50*time.Millisecond, 100)

	if hype.Target().Position.Dist(dest) >= calm.Target().Position.Dist(dest) {
		t.Error("high energy should move the target closer to its destination")
	}

	calm.Step(time.Minute, 0)
	if calm.Target().Position.Dist(dest) > 1e-9 {
		t.Error("target should settle on its destination")
	}
}
