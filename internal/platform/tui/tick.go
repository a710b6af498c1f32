// Package tui provides the Bubble Tea front end for TapBeat: the play
// screen, the scores table and the SSH server.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// FrameMsg drives the engine's frame loop.
type FrameMsg struct {
	Gen int
	At  time.Time
}

// SchedMsg drives the engine's audio scheduler loop.
type SchedMsg struct {
	Gen int
	At  time.Time
}

// frameCmd returns a Bubble Tea command that sends frame messages at the specified rate.
func frameCmd(gen, fps int) tea.Cmd {
	if fps <= 0 {
		fps = 60
	}
	interval := time.Second / time.Duration(fps)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return FrameMsg{Gen: gen, At: t}
	})
}

// schedCmd returns a command for the scheduler loop, independent of the frame rate.
func schedCmd(gen int, period time.Duration) tea.Cmd {
	if period <= 0 {
		period = 25 * time.Millisecond
	}
	return tea.Tick(period, func(t time.Time) tea.Msg {
		return SchedMsg{Gen: gen, At: t}
	})
}
