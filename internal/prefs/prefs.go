// Package prefs persists the client's view preferences: the selection mode
// and the selected account ids. The blob is read once at startup and written
// on every selection change.
package prefs

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"betledger/internal/selection"
)

// Preferences is the small key-value blob kept on disk.
type Preferences struct {
	ViewMode           selection.Mode `json:"view_mode"`
	SelectedAccountIDs []string       `json:"selected_account_ids,omitempty"`
}

// Store reads and writes the preference file.
type Store struct {
	path string
}

// NewStore returns a store for the preference file under dir.
func NewStore(dir string) *Store {
	return &Store{path: filepath.Join(dir, "preferences.json")}
}

// Load reads the preferences. A missing or unreadable file falls back to
// overview mode rather than failing startup.
func (s *Store) Load() Preferences {
	fallback := Preferences{ViewMode: selection.ModeOverview}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("Unreadable preference file, falling back to overview",
				"path", s.path, "error", err)
		}
		return fallback
	}

	var p Preferences
	if err := json.Unmarshal(data, &p); err != nil {
		slog.Warn("Corrupt preference file, falling back to overview",
			"path", s.path, "error", err)
		return fallback
	}
	if p.ViewMode != selection.ModeSpecific {
		return fallback
	}
	return p
}

// Save writes the preferences atomically (write-then-rename).
func (s *Store) Save(p Preferences) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create preference directory: %w", err)
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal preferences: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write preferences: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace preferences: %w", err)
	}
	return nil
}

// Restore rebuilds a selection from saved preferences, dropping ids that no
// longer reference an existing account. An empty survivor set falls back to
// overview.
func Restore(p Preferences, existingIDs []string) *selection.Selection {
	if p.ViewMode != selection.ModeSpecific {
		return selection.NewOverview()
	}
	existing := make(map[string]struct{}, len(existingIDs))
	for _, id := range existingIDs {
		existing[id] = struct{}{}
	}
	var kept []string
	for _, id := range p.SelectedAccountIDs {
		if _, ok := existing[id]; ok {
			kept = append(kept, id)
		}
	}
	return selection.NewSpecific(kept)
}
