package prefs

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"betledger/internal/selection"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	want := Preferences{
		ViewMode:           selection.ModeSpecific,
		SelectedAccountIDs: []string{"a", "b"},
	}
	if err := store.Save(want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got := NewStore(dir).Load()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Load = %+v, want %+v", got, want)
	}
}

func TestLoadMissingFileFallsBack(t *testing.T) {
	store := NewStore(t.TempDir())
	got := store.Load()
	if got.ViewMode != selection.ModeOverview {
		t.Errorf("missing file: mode = %s, want overview", got.ViewMode)
	}
}

func TestLoadCorruptFileFallsBack(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "preferences.json"), []byte("{nope"), 0644); err != nil {
		t.Fatal(err)
	}
	got := NewStore(dir).Load()
	if got.ViewMode != selection.ModeOverview {
		t.Errorf("corrupt file: mode = %s, want overview", got.ViewMode)
	}
}

func TestRestoreDropsDeletedAccounts(t *testing.T) {
	p := Preferences{
		ViewMode:           selection.ModeSpecific,
		SelectedAccountIDs: []string{"a", "gone"},
	}
	sel := Restore(p, []string{"a", "b"})
	if got := sel.SelectedIDs(); !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("SelectedIDs = %v, want [a]", got)
	}

	// Every saved id referencing a deleted account falls back to overview.
	sel = Restore(p, []string{"b"})
	if sel.Mode() != selection.ModeOverview {
		t.Errorf("mode = %s, want overview", sel.Mode())
	}
}
