// Package selection tracks which ledger accounts are active: either the
// overview (all accounts) or an explicit, never-empty set of account ids.
package selection

import "sort"

// Mode is the selection mode.
type Mode string

const (
	// ModeOverview means every account is active.
	ModeOverview Mode = "overview"
	// ModeSpecific means exactly the selected id set is active.
	ModeSpecific Mode = "specific"
)

// Selection is a tagged variant: Overview, or Specific with a non-empty id
// set. Operations that would empty the set are rejected, so the active
// selection is never empty as long as at least one account exists.
type Selection struct {
	mode Mode
	ids  map[string]struct{}
}

// NewOverview returns a selection in overview mode.
func NewOverview() *Selection {
	return &Selection{mode: ModeOverview}
}

// NewSpecific returns a selection of exactly the given ids. An empty id list
// degenerates to overview.
func NewSpecific(ids []string) *Selection {
	if len(ids) == 0 {
		return NewOverview()
	}
	s := &Selection{mode: ModeSpecific, ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

// Mode returns the current selection mode.
func (s *Selection) Mode() Mode { return s.mode }

// EnterOverview switches to overview mode.
func (s *Selection) EnterOverview() {
	s.mode = ModeOverview
	s.ids = nil
}

// SelectSingle selects exactly the given account.
func (s *Selection) SelectSingle(id string) {
	s.mode = ModeSpecific
	s.ids = map[string]struct{}{id: {}}
}

// Toggle adds or removes an account from the selection. Toggling while in
// overview first materializes the full account set, then removes the id, so
// the observable result is "everything except id". Removing the last
// remaining id is rejected and the id stays selected. Ids unknown to allIDs
// are ignored.
func (s *Selection) Toggle(id string, allIDs []string) {
	if !contains(allIDs, id) {
		return
	}
	if s.mode == ModeOverview {
		s.mode = ModeSpecific
		s.ids = make(map[string]struct{}, len(allIDs))
		for _, a := range allIDs {
			s.ids[a] = struct{}{}
		}
	}
	if _, selected := s.ids[id]; selected {
		if len(s.ids) > 1 {
			delete(s.ids, id)
		}
		return
	}
	s.ids[id] = struct{}{}
}

// AccountDeleted removes a deleted account from the selection. Dropping the
// last selected id reverts to overview.
func (s *Selection) AccountDeleted(id string) {
	if s.mode != ModeSpecific {
		return
	}
	delete(s.ids, id)
	if len(s.ids) == 0 {
		s.EnterOverview()
	}
}

// Contains reports whether the account is active under the selection.
func (s *Selection) Contains(id string) bool {
	if s.mode == ModeOverview {
		return true
	}
	_, ok := s.ids[id]
	return ok
}

// ActiveIDs returns the active account ids: allIDs in overview mode, the
// selected subset otherwise. The result is sorted and freshly allocated.
func (s *Selection) ActiveIDs(allIDs []string) []string {
	var out []string
	if s.mode == ModeOverview {
		out = append(out, allIDs...)
	} else {
		for id := range s.ids {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// SelectedIDs returns the explicitly selected ids, sorted. Empty in
// overview mode.
func (s *Selection) SelectedIDs() []string {
	if s.mode != ModeSpecific {
		return nil
	}
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func contains(ids []string, id string) bool {
	for _, a := range ids {
		if a == id {
			return true
		}
	}
	return false
}
