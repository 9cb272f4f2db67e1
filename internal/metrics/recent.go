package metrics

import (
	"sort"

	"betledger/internal/core"
)

// RecentEntries returns the n most recently created entries, newest first.
// The input slice is left untouched.
func RecentEntries(entries []core.Entry, n int) []core.Entry {
	sorted := make([]core.Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if c := sorted[i].CreatedDate.Compare(sorted[j].CreatedDate); c != 0 {
			return c > 0
		}
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if n < 0 {
		n = 0
	}
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}
