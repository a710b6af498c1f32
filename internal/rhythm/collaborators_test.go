package rhythm

import (
	"errors"
	"testing"
)

type brokenPersistence struct{}

func (brokenPersistence) Get(string) (string, error) { return "", errors.New("disk gone") }
func (brokenPersistence) Set(string, string) error   { return errors.New("disk gone") }

func TestLoadJSONFallbacks(t *testing.T) {
	mem := &MemoryPersistence{}
	mem.Set("good", `{"perfects":4}`)
	mem.Set("bad", `{"perfects":`)

	tests := []struct {
		name string
		p    Persistence
		key  string
		want int
	}{
		{"stored", mem, "good", 4},
		{"missing", mem, "absent", 9},
		{"malformed", mem, "bad", 9},
		{"unavailable", brokenPersistence{}, "good", 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LoadJSON(tt.p, tt.key, Stats{Perfects: 9})
			if got.Perfects != tt.want {
				t.Errorf("Perfects = %d, want %d", got.Perfects, tt.want)
			}
		})
	}
}

func TestSaveJSON(t *testing.T) {
	mem := &MemoryPersistence{}
	if err := SaveJSON(mem, "k", map[string]bool{"a": true}); err != nil {
		t.Fatalf("SaveJSON() failed: %v", err)
	}
	if raw, _ := mem.Get("k"); raw != `{"a":true}` {
		t.Errorf("stored %q", raw)
	}
	if err := SaveJSON(brokenPersistence{}, "k", 1); err == nil {
		t.Error("SaveJSON should surface the store error")
	}
}
