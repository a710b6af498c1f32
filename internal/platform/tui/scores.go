package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tapbeat/internal/storage"
)

const defaultScoreLimit = 50

// scoreTabs are the difficulty filters; the empty filter lists every run.
var scoreTabs = []struct {
	Title      string
	Difficulty string
}{
	{"All", ""},
	{"Easy", "easy"},
	{"Normal", "normal"},
	{"Hard", "hard"},
}

// RunLister loads the best runs for a difficulty.
type RunLister interface {
	TopRuns(difficulty string, limit int) ([]storage.RunEntry, error)
}

// ScoresKeyMap defines the key bindings for the scores table.
type ScoresKeyMap struct {
	Up   key.Binding
	Down key.Binding
	Next key.Binding
	Prev key.Binding
	Quit key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoresKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Next, k.Prev, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ScoresKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.Next, k.Prev, k.Quit}}
}

// DefaultScoresKeyMap returns default key bindings.
func DefaultScoresKeyMap() ScoresKeyMap {
	return ScoresKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Next: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next difficulty"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev difficulty"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ScoresModel shows recorded runs grouped by difficulty.
type ScoresModel struct {
	runs   RunLister
	limit  int
	tab    int
	rows   []storage.RunEntry
	err    error
	table  table.Model
	help   help.Model
	keys   ScoresKeyMap
	width  int
	height int

	quitting bool
}

// NewScoresModel creates a scores model showing up to limit runs per tab.
func NewScoresModel(runs RunLister, limit, width, height int) ScoresModel {
	if limit <= 0 {
		limit = defaultScoreLimit
	}
	m := ScoresModel{
		runs:   runs,
		limit:  limit,
		keys:   DefaultScoresKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	m.table = m.createTable()
	m.load()
	return m
}

func (m *ScoresModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Rank", Width: 5},
		{Title: "Score", Width: 8},
		{Title: "Combo", Width: 6},
		{Title: "Lv", Width: 4},
		{Title: "Time", Width: 7},
		{Title: "Diff", Width: 7},
		{Title: "Date", Width: 13},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

// load fetches runs for the current tab.
func (m *ScoresModel) load() {
	m.rows, m.err = nil, nil
	if m.runs != nil {
		m.rows, m.err = m.runs.TopRuns(scoreTabs[m.tab].Difficulty, m.limit)
	}
	m.table.SetRows(runRows(m.rows))
	m.table.GotoTop()
}

// runRows formats runs as table rows, best first.
func runRows(runs []storage.RunEntry) []table.Row {
	rows := make([]table.Row, len(runs))
	for i, r := range runs {
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			fmt.Sprintf("%d", r.Score),
			fmt.Sprintf("%d", r.MaxCombo),
			fmt.Sprintf("%d", r.Level),
			formatDuration(r.Duration),
			r.Difficulty,
			r.CreatedAt.Local().Format("Jan 02 15:04"),
		}
	}
	return rows
}

// formatDuration renders m:ss.
func formatDuration(d time.Duration) string {
	secs := int(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// Init initializes the scores model.
func (m ScoresModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scores table.
func (m ScoresModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Next):
			m.tab = (m.tab + 1) % len(scoreTabs)
			m.load()
			return m, nil

		case key.Matches(msg, m.keys.Prev):
			m.tab = (m.tab + len(scoreTabs) - 1) % len(scoreTabs)
			m.load()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.table.SetRows(runRows(m.rows))
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scores screen.
func (m ScoresModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))
	b.WriteString(titleStyle.Render(centerText("TAPBEAT RUNS", m.width)))
	b.WriteString("\n\n")

	tabStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)
	tabs := make([]string, len(scoreTabs))
	for i, t := range scoreTabs {
		if i == m.tab {
			tabs[i] = activeTabStyle.Render(t.Title)
		} else {
			tabs[i] = tabStyle.Render(" " + t.Title + " ")
		}
	}
	b.WriteString(strings.Join(tabs, " "))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(tableStyle.Render(m.tableContent()))

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

func (m ScoresModel) tableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(1, 4)
	switch {
	case m.err != nil:
		return emptyStyle.Render("Could not load runs: " + m.err.Error())
	case len(m.rows) == 0:
		return emptyStyle.Render("No runs recorded yet.\nPlay a run to set a high score!")
	}
	return m.table.View()
}

// RunScores runs the scores screen.
func RunScores(runs RunLister, limit, width, height int) error {
	p := tea.NewProgram(
		NewScoresModel(runs, limit, width, height),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
