package rhythm

import "time"

// Persistence keys.
const (
	KeyStats        = "stats"
	KeyAchievements = "achievements"
)

// Stats are lifetime counters across runs.
type Stats struct {
	Perfects     int     `json:"perfects"`
	Greats       int     `json:"greats"`
	Oks          int     `json:"oks"`
	Misses       int     `json:"misses"`
	MaxCombo     int     `json:"maxCombo"`
	BestTimeSecs float64 `json:"bestTime"`
	TotalCoins   int     `json:"totalCoins"`
	RunsPlayed   int     `json:"runsPlayed"`
}

// Merge folds a run into the lifetime counters.
func (s Stats) Merge(run RunState) Stats {
	s.Perfects += run.Perfects
	s.Greats += run.Greats
	s.Oks += run.Oks
	s.Misses += run.Misses
	s.MaxCombo = max(s.MaxCombo, run.MaxCombo)
	s.BestTimeSecs = max(s.BestTimeSecs, run.Elapsed.Seconds())
	s.TotalCoins += run.Coins
	s.RunsPlayed++
	return s
}

// Achievement is an unlockable milestone.
type Achievement struct {
	ID          string
	Title       string
	Description string
}

// AchievementStatus pairs an achievement with its unlock state.
type AchievementStatus struct {
	Achievement
	Unlocked bool
}

type achievementRule struct {
	Achievement
	met func(run RunState, life Stats) bool
}

var achievementRules = []achievementRule{
	{Achievement{"first_tap", "First Tap", "Score your first hit"},
		func(run RunState, _ Stats) bool { return run.Score > 0 }},
	{Achievement{"first_perfect", "Perfect!", "Land a perfect hit"},
		func(_ RunState, life Stats) bool { return life.Perfects >= 1 }},
	{Achievement{"combo_10", "Combo x10", "Reach a 10 combo"},
		func(run RunState, _ Stats) bool { return run.MaxCombo >= 10 }},
	{Achievement{"combo_25", "Combo x25", "Reach a 25 combo"},
		func(run RunState, _ Stats) bool { return run.MaxCombo >= 25 }},
	{Achievement{"survive_60", "One Minute", "Survive for 60 seconds"},
		func(run RunState, _ Stats) bool { return run.Elapsed >= time.Minute }},
	{Achievement{"coins_100", "Collector", "Earn 100 coins in total"},
		func(_ RunState, life Stats) bool { return life.TotalCoins >= 100 }},
}

// Achievements tracks which milestones are unlocked.
type Achievements struct {
	unlocked map[string]bool
}

// NewAchievements creates a tracker from a persisted unlock set.
func NewAchievements(unlocked map[string]bool) *Achievements {
	a := &Achievements{unlocked: make(map[string]bool, len(achievementRules))}
	for id, ok := range unlocked {
		if ok {
			a.unlocked[id] = true
		}
	}
	return a
}

// Check unlocks every milestone met by the run and the lifetime stats
// (which should already include the run) and returns the new ones.
func (a *Achievements) Check(run RunState, life Stats) []Achievement {
	var fresh []Achievement
	for _, r := range achievementRules {
		if a.unlocked[r.ID] || !r.met(run, life) {
			continue
		}
		a.unlocked[r.ID] = true
		fresh = append(fresh, r.Achievement)
	}
	return fresh
}

// Unlocked returns the persisted form of the unlock set.
func (a *Achievements) Unlocked() map[string]bool {
	out := make(map[string]bool, len(a.unlocked))
	for id := range a.unlocked {
		out[id] = true
	}
	return out
}

// List returns every achievement in catalogue order with its state.
func (a *Achievements) List() []AchievementStatus {
	out := make([]AchievementStatus, len(achievementRules))
	for i, r := range achievementRules {
		out[i] = AchievementStatus{Achievement: r.Achievement, Unlocked: a.unlocked[r.ID]}
	}
	return out
}
