package metrics

import (
	"sort"

	"betledger/internal/core"
)

// Streaks summarizes consecutive runs of decided results.
type Streaks struct {
	CurrentWin  int `json:"current_win"`
	CurrentLoss int `json:"current_loss"`
	LongestWin  int `json:"longest_win"`
	LongestLoss int `json:"longest_loss"`
}

// ComputeStreaks scans decided entries in chronological order by event date.
// Non-decided results are excluded from the sequence entirely: they neither
// break nor extend a streak.
func ComputeStreaks(entries []core.Entry) Streaks {
	decided := make([]core.Entry, 0, len(entries))
	for _, e := range entries {
		if e.Result.Decided() {
			decided = append(decided, e)
		}
	}
	sort.SliceStable(decided, func(i, j int) bool {
		if c := decided[i].EventDate().Compare(decided[j].EventDate()); c != 0 {
			return c < 0
		}
		return decided[i].CreatedAt.Before(decided[j].CreatedAt)
	})

	var s Streaks
	for _, e := range decided {
		if e.Result == core.ResultWin {
			s.CurrentWin++
			s.CurrentLoss = 0
			if s.CurrentWin > s.LongestWin {
				s.LongestWin = s.CurrentWin
			}
		} else {
			s.CurrentLoss++
			s.CurrentWin = 0
			if s.CurrentLoss > s.LongestLoss {
				s.LongestLoss = s.CurrentLoss
			}
		}
	}
	return s
}
