package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tapbeat/internal/storage"
)

type fakeRuns struct {
	byDifficulty map[string][]storage.RunEntry
	calls        []string
	err          error
}

func (f *fakeRuns) TopRuns(difficulty string, limit int) ([]storage.RunEntry, error) {
	f.calls = append(f.calls, difficulty)
	if f.err != nil {
		return nil, f.err
	}
	runs := f.byDifficulty[difficulty]
	if len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

func TestScoresTabsLoadDifficulty(t *testing.T) {
	runs := &fakeRuns{byDifficulty: map[string][]storage.RunEntry{
		"":     {{Score: 300, Difficulty: "hard"}, {Score: 100, Difficulty: "easy"}},
		"easy": {{Score: 100, Difficulty: "easy"}},
		"hard": {{Score: 300, Difficulty: "hard"}},
	}}
	m := NewScoresModel(runs, 10, 100, 30)
	if len(m.rows) != 2 {
		t.Fatalf("all tab rows = %d, want 2", len(m.rows))
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(ScoresModel)
	if len(m.rows) != 1 || m.rows[0].Difficulty != "easy" {
		t.Errorf("easy tab rows = %+v", m.rows)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = next.(ScoresModel)
	if got := scoreTabs[m.tab].Difficulty; got != "hard" {
		t.Errorf("tab = %q, want hard after wrapping backwards", got)
	}

	want := []string{"", "easy", "", "hard"}
	if strings.Join(runs.calls, ",") != strings.Join(want, ",") {
		t.Errorf("TopRuns calls = %q, want %q", runs.calls, want)
	}
}

func TestScoresViewStates(t *testing.T) {
	tests := []struct {
		name string
		runs *fakeRuns
		want string
	}{
		{"empty", &fakeRuns{}, "No runs recorded yet"},
		{"error", &fakeRuns{err: errors.New("disk gone")}, "disk gone"},
		{"rows", &fakeRuns{byDifficulty: map[string][]storage.RunEntry{
			"": {{Score: 4242, MaxCombo: 17, Level: 3, Duration: 95 * time.Second, Difficulty: "normal"}},
		}}, "4242"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewScoresModel(tt.runs, 10, 100, 30)
			if view := m.View(); !strings.Contains(view, tt.want) {
				t.Errorf("view missing %q:\n%s", tt.want, view)
			}
		})
	}
}

func TestRunRows(t *testing.T) {
	at := time.Date(2026, 3, 4, 5, 6, 0, 0, time.Local)
	rows := runRows([]storage.RunEntry{
		{Score: 900, MaxCombo: 30, Level: 4, Duration: 61 * time.Second, Difficulty: "hard", CreatedAt: at},
	})
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	want := []string{"#1", "900", "30", "4", "1:01", "hard", "Mar 04 05:06"}
	for i, cell := range want {
		if rows[0][i] != cell {
			t.Errorf("column %d = %q, want %q", i, rows[0][i], cell)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0:00"},
		{59*time.Second + 600*time.Millisecond, "1:00"},
		{10*time.Minute + 5*time.Second, "10:05"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.in); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestScoresQuit(t *testing.T) {
	m := NewScoresModel(&fakeRuns{}, 0, 80, 24)
	if m.limit != defaultScoreLimit {
		t.Errorf("limit = %d, want default %d", m.limit, defaultScoreLimit)
	}
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Error("quit should return tea.Quit")
	}
	if next.View() != "" {
		t.Error("view should be empty after quit")
	}
}
