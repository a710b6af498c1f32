package tui

import (
	"sync"
	"time"

	"github.com/vovakirdan/tapbeat/internal/clock"
	"github.com/vovakirdan/tapbeat/internal/core"
)

// CellViewport maps a rectangle of terminal cells to playfield units.
// Cells are about twice as tall as wide, so one cell is 1 unit wide and
// 2 units tall; circles in playfield units then look round on screen.
type CellViewport struct {
	mu   sync.Mutex
	rect core.Rect
}

// SetRect sets the cell rectangle holding the playfield.
func (v *CellViewport) SetRect(r core.Rect) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.rect = r
}

// Rect returns the cell rectangle holding the playfield.
func (v *CellViewport) Rect() core.Rect {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.rect
}

// Bounds implements rhythm.Viewport.
func (v *CellViewport) Bounds() core.Area {
	r := v.Rect()
	return core.NewArea(float64(r.X), float64(r.Y)*2, float64(r.W), float64(r.H)*2)
}

// CellCenter returns the playfield position of the centre of cell (x, y).
func CellCenter(x, y int) core.Vec2 {
	return core.V(float64(x)+0.5, (float64(y)+0.5)*2)
}

// FlashHaptics implements rhythm.Haptics by flashing the playfield border.
type FlashHaptics struct {
	mu    sync.Mutex
	clock clock.Clock
	until time.Duration
}

// NewFlashHaptics creates a flasher timed by clk.
func NewFlashHaptics(clk clock.Clock) *FlashHaptics {
	return &FlashHaptics{clock: clk}
}

// Vibrate lights the border for d.
func (h *FlashHaptics) Vibrate(d time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if end := h.clock.Now() + d; end > h.until {
		h.until = end
	}
}

// Active reports whether the border should be lit.
func (h *FlashHaptics) Active() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.clock.Now() < h.until
}
