package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tapbeat/internal/clock"
	"github.com/vovakirdan/tapbeat/internal/config"
	"github.com/vovakirdan/tapbeat/internal/core"
	"github.com/vovakirdan/tapbeat/internal/rhythm"
)

const (
	minWidth  = 24
	minHeight = 12
	toastTime = 2 * time.Second
)

// Options configure a play session.
type Options struct {
	Config      config.TapbeatConfig
	Difficulty  string
	FPS         int
	Seed        int64
	Width       int
	Height      int
	HighScore   int
	Clock       clock.Clock
	Sound       rhythm.SoundEngine
	Persistence rhythm.Persistence
	Recorder    rhythm.RunRecorder
	Logger      *log.Logger
}

// Model is the Bubble Tea model for a TapBeat session.
type Model struct {
	engine   *rhythm.Engine
	clock    clock.Clock
	screen   *core.Screen
	viewport *CellViewport
	haptics  *FlashHaptics
	keys     PlayKeyMap
	help     help.Model
	logger   *log.Logger

	fps        int
	period     time.Duration
	difficulty string
	highScore  int

	// Generation of the running tick chains. Ticks from older chains are
	// dropped so pause/resume never doubles a loop.
	gen int

	pointer      core.Vec2
	pointerMoved bool // Until the mouse moves, the pointer follows the playfield centre

	spring harmonica.Spring
	barPos float64
	barVel float64

	toast      string
	toastUntil time.Duration
	seen       int

	quitting bool
}

// NewModel creates a play model with its own engine.
func NewModel(opts Options) Model {
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	if opts.Clock == nil {
		opts.Clock = clock.NewSystem()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Width <= 0 {
		opts.Width = 80
	}
	if opts.Height <= 0 {
		opts.Height = 24
	}

	vp := &CellViewport{}
	vp.SetRect(playfieldRect(opts.Width, opts.Height))
	haptics := NewFlashHaptics(opts.Clock)

	var engineOpts []rhythm.Option
	if opts.Recorder != nil {
		engineOpts = append(engineOpts, rhythm.WithRunRecorder(opts.Recorder))
	}
	engine := rhythm.New(opts.Config, rhythm.Deps{
		Clock:       opts.Clock,
		Sound:       opts.Sound,
		Haptics:     haptics,
		Persistence: opts.Persistence,
		Viewport:    vp,
		Logger:      opts.Logger,
		Seed:        opts.Seed,
	}, engineOpts...)

	return Model{
		engine:     engine,
		clock:      opts.Clock,
		screen:     core.NewScreen(opts.Width, opts.Height-helpRows),
		viewport:   vp,
		haptics:    haptics,
		keys:       DefaultPlayKeyMap(),
		help:       help.New(),
		logger:     opts.Logger,
		fps:        opts.FPS,
		period:     opts.Config.Scheduler.Period(),
		difficulty: opts.Difficulty,
		highScore:  opts.HighScore,
		pointer:    vp.Bounds().Center(),
		spring:     harmonica.NewSpring(harmonica.FPS(opts.FPS), 6.0, 0.6),
	}
}

// Engine returns the engine driven by the model.
func (m Model) Engine() *rhythm.Engine {
	return m.engine
}

// Init starts the first run and both loops.
func (m Model) Init() tea.Cmd {
	m.engine.Start()
	return m.loops()
}

func (m Model) loops() tea.Cmd {
	return tea.Batch(frameCmd(m.gen, m.fps), schedCmd(m.gen, m.period))
}

// restartLoops invalidates running chains and starts new ones.
func (m Model) restartLoops() (Model, tea.Cmd) {
	m.gen++
	return m, m.loops()
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case FrameMsg:
		return m.handleFrame(msg)

	case SchedMsg:
		return m.handleSched(msg)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.engine.End()
		m.quitting = true
		return m, tea.Quit

	case msg.String() == "ctrl+s":
		m.saveScreenshot()
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Pause):
		switch m.engine.Snapshot().Phase {
		case rhythm.PhaseRunning:
			m.engine.Pause()
			return m, nil
		case rhythm.PhasePaused:
			m.engine.Resume()
			return m.restartLoops()
		}
		return m, nil

	case key.Matches(msg, m.keys.Restart):
		if m.engine.Snapshot().Phase == rhythm.PhaseEnded {
			return m.restart()
		}
		return m, nil

	case key.Matches(msg, m.keys.Tap):
		m.tap()
		return m, nil
	}

	return m, nil
}

// handleMouse taps at the click position and tracks the pointer.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	pos := CellCenter(msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionMotion:
		m.pointer = pos
		m.pointerMoved = true
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		m.pointer = pos
		m.pointerMoved = true
		m.tap()
	}
	return m, nil
}

// tap judges a tap at the pointer position.
func (m *Model) tap() {
	j, err := m.engine.Tap(m.pointer.X, m.pointer.Y)
	switch {
	case errors.Is(err, rhythm.ErrNotRunning), errors.Is(err, rhythm.ErrRunEnded):
		return
	case err != nil:
		m.logger.Warn("tap failed", "err", err)
		return
	}
	m.logger.Debug("tap", "outcome", j.Outcome, "delta", j.Delta)
}

func (m Model) restart() (tea.Model, tea.Cmd) {
	state := m.engine.Snapshot().State
	m.highScore = max(m.highScore, state.Score)
	m.seen = 0
	m.toast = ""
	m.barPos, m.barVel = 0, 0
	m.engine.Start()
	return m.restartLoops()
}

// handleResize processes window resize events.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.screen.Resize(msg.Width, max(msg.Height-helpRows, 0))
	m.viewport.SetRect(playfieldRect(msg.Width, msg.Height))
	m.engine.Resize(m.viewport.Bounds())
	if !m.pointerMoved {
		m.pointer = m.viewport.Bounds().Center()
	}
	return m, nil
}

// handleFrame runs one frame and schedules the next while the run lasts.
func (m Model) handleFrame(msg FrameMsg) (tea.Model, tea.Cmd) {
	if msg.Gen != m.gen {
		return m, nil
	}
	m.engine.Frame()
	snap := m.engine.Snapshot()

	m.barPos, m.barVel = m.spring.Update(m.barPos, m.barVel, snap.State.Energy)
	if n := len(snap.Unlocked); n > m.seen {
		m.seen = n
		m.toast = snap.Unlocked[n-1].Title
		m.toastUntil = m.clock.Now() + toastTime
	}

	if snap.Phase != rhythm.PhaseRunning {
		if snap.Phase == rhythm.PhaseEnded {
			m.highScore = max(m.highScore, snap.State.Score)
		}
		return m, nil
	}
	return m, frameCmd(m.gen, m.fps)
}

// handleSched polls the audio scheduler on its own cadence.
func (m Model) handleSched(msg SchedMsg) (tea.Model, tea.Cmd) {
	if msg.Gen != m.gen {
		return m, nil
	}
	m.engine.SchedulerTick()
	if m.engine.Snapshot().Phase != rhythm.PhaseRunning {
		return m, nil
	}
	return m, schedCmd(m.gen, m.period)
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.draw(m.engine.Snapshot())

	dir := filepath.Join(os.Getenv("HOME"), ".tapbeat", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("tapbeat_%s.txt", timestamp))

	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("screenshot failed", "err", err)
	}
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.screen.Width() < minWidth || m.screen.Height()+helpRows < minHeight {
		return centerText(fmt.Sprintf("Terminal too small (need %dx%d)", minWidth, minHeight), m.screen.Width())
	}
	m.draw(m.engine.Snapshot())
	return RenderScreen(m.screen) + "\n" + m.help.View(m.keys)
}

// Run starts the Bubble Tea program for a local session.
func Run(opts Options) error {
	model := NewModel(opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)

	_, err := p.Run()
	model.engine.End()
	return err
}
