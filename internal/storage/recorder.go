package storage

import "github.com/vovakirdan/tapbeat/internal/rhythm"

// RunSink implements rhythm.RunRecorder, tagging every run with a difficulty.
// This adapter lets the engine save runs without a direct storage dependency.
type RunSink struct {
	store      *Store
	difficulty string
}

// Runs returns a recorder that saves runs under the given difficulty.
func (s *Store) Runs(difficulty string) *RunSink {
	return &RunSink{store: s, difficulty: difficulty}
}

// RecordRun saves a finished run.
func (r *RunSink) RecordRun(rec rhythm.RunRecord) error {
	_, err := r.store.SaveRun(RunEntry{
		RunID:      rec.ID,
		Score:      rec.Score,
		MaxCombo:   rec.MaxCombo,
		Level:      rec.Level,
		Coins:      rec.Coins,
		Duration:   rec.Duration,
		Difficulty: r.difficulty,
	})
	return err
}

// Namespace is a key/value view whose keys are prefixed, so several
// players can share one database.
type Namespace struct {
	store  *Store
	prefix string
}

// Namespace returns a view of the key/value table scoped to name.
func (s *Store) Namespace(name string) *Namespace {
	return &Namespace{store: s, prefix: name + "/"}
}

// Get returns the value for key, or "" when absent.
func (n *Namespace) Get(key string) (string, error) {
	return n.store.Get(n.prefix + key)
}

// Set stores value under key.
func (n *Namespace) Set(key, value string) error {
	return n.store.Set(n.prefix+key, value)
}

// Ensure Store, Namespace and RunSink plug into the engine.
var (
	_ rhythm.Persistence = (*Store)(nil)
	_ rhythm.Persistence = (*Namespace)(nil)
	_ rhythm.RunRecorder = (*RunSink)(nil)
)
