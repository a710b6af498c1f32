package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/vovakirdan/tapbeat/internal/core"
	"github.com/vovakirdan/tapbeat/internal/rhythm"
)

// Rows reserved around the playfield.
const (
	hudRows  = 2
	helpRows = 1
)

// stageColors tint the target by vibe stage.
var stageColors = map[rhythm.VibeStage]core.Color{
	rhythm.Verse:  core.ColorCyan,
	rhythm.Build:  core.ColorGreen,
	rhythm.Chorus: core.ColorMagenta,
	rhythm.Drop:   core.ColorPink,
}

// outcomeColors tint the judgement label.
var outcomeColors = map[rhythm.Outcome]core.Color{
	rhythm.Perfect:     core.ColorBrightYellow,
	rhythm.Great:       core.ColorBrightGreen,
	rhythm.Ok:          core.ColorBrightCyan,
	rhythm.MissOutside: core.ColorBrightRed,
	rhythm.MissLate:    core.ColorOrange,
}

// playfieldRect returns the cells inside the playfield border for a
// terminal of w x h cells.
func playfieldRect(w, h int) core.Rect {
	inner := core.NewRect(1, hudRows+1, w-2, h-hudRows-helpRows-2)
	inner.W = max(inner.W, 0)
	inner.H = max(inner.H, 0)
	return inner
}

// centerText pads text so it sits in the middle of width columns.
func centerText(text string, width int) string {
	if len(text) >= width {
		return text
	}
	padding := (width - len(text)) / 2
	return strings.Repeat(" ", padding) + text
}

// draw paints one frame into the screen buffer.
func (m *Model) draw(snap rhythm.Snapshot) {
	s := m.screen
	s.Clear()
	w := s.Width()
	state := snap.State

	// Line 1: score and run counters.
	lives := strings.Repeat("♥", max(state.Lives, 0)) + strings.Repeat("♡", max(rhythm.MaxLives-state.Lives, 0))
	s.DrawText(1, 0, fmt.Sprintf("SCORE %d", state.Score), core.ColorBrightWhite)
	s.DrawText(14, 0, fmt.Sprintf("x%d", state.Combo), core.ColorBrightYellow)
	s.DrawText(20, 0, lives, core.ColorBrightRed)
	right := fmt.Sprintf("LV %d  %s  %3.0f BPM", state.Level, state.Stage, snap.Bpm)
	s.DrawText(w-len(right)-1, 0, right, stageColors[state.Stage])

	// Line 2: energy bar and the last judgement.
	barW := max(w/3, 10)
	filled := int(math.Round(core.ClampF(m.barPos, 0, 100) / 100 * float64(barW)))
	s.DrawText(1, 1, "VIBE", core.ColorGray)
	s.DrawHLine(6, 1, barW, '░', core.ColorGray)
	s.DrawHLine(6, 1, filled, '█', stageColors[state.Stage])
	if snap.Last != nil {
		label := snap.Last.Outcome.String()
		if snap.Last.Outcome.IsHit() {
			label = fmt.Sprintf("%s %+dms", label, snap.Last.Delta.Milliseconds())
		}
		s.DrawText(barW+8, 1, label, outcomeColors[snap.Last.Outcome])
	}
	if m.toast != "" && m.clock.Now() < m.toastUntil {
		text := "★ " + m.toast
		s.DrawText(w-len([]rune(text))-1, 1, text, core.ColorBrightYellow)
	}

	// Playfield border flashes on haptic feedback.
	inner := m.viewport.Rect()
	border := core.ColorGray
	if m.haptics.Active() {
		border = core.ColorBrightWhite
	}
	if snap.Phase == rhythm.PhaseRunning && snap.BeatPhase < 0.12 {
		border = stageColors[state.Stage]
	}
	s.DrawBox(core.NewRect(inner.X-1, inner.Y-1, inner.W+2, inner.H+2), border)

	// Target: the outer ring marks the hit area, the core grows towards the
	// next beat.
	t := snap.Target
	color := stageColors[state.Stage]
	s.DrawDisc(t.Center, t.Radius, '░', color)
	s.DrawDisc(t.Center, t.Radius*snap.BeatPhase, '█', color)

	switch snap.Phase {
	case rhythm.PhasePaused:
		m.drawBanner(inner, "PAUSED", "press p to resume")
	case rhythm.PhaseEnded:
		m.drawBanner(inner, "GAME OVER",
			fmt.Sprintf("score %d  best combo %d  best %d", state.Score, state.MaxCombo, max(m.highScore, state.Score)),
			"press r to restart or q to quit")
	}
}

// drawBanner centres lines of text inside the playfield.
func (m *Model) drawBanner(r core.Rect, title string, lines ...string) {
	y := r.Y + r.H/2 - (len(lines)+1)/2
	m.screen.DrawTextCentered(y, title, core.ColorBrightWhite)
	for i, line := range lines {
		m.screen.DrawTextCentered(y+1+i, line, core.ColorGray)
	}
}
