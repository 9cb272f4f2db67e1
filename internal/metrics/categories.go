package metrics

import (
	"sort"

	"github.com/shopspring/decimal"

	"betledger/internal/core"
)

// CategoryStat aggregates performance under one category label.
type CategoryStat struct {
	Label   string          `json:"label"`
	Wins    int             `json:"wins"`
	Losses  int             `json:"losses"`
	Volume  decimal.Decimal `json:"volume"`
	Profit  decimal.Decimal `json:"profit"`
	WinRate float64         `json:"win_rate"`
	ROI     float64         `json:"roi"`
}

// ByModality breaks entries down by leg modality.
func ByModality(entries []core.Entry) []CategoryStat {
	return breakdown(entries, func(leg core.Leg) string { return leg.Modality })
}

// ByMarket breaks entries down by leg market.
func ByMarket(entries []core.Entry) []CategoryStat {
	return breakdown(entries, func(leg core.Leg) string { return leg.Market })
}

// breakdown attributes profit and stake to category labels. A multi-leg
// entry splits both values evenly across its legs before attribution, so a
// combined wager contributes 1/n of its stake and profit to each leg's
// label. The entry's result counts once per leg.
func breakdown(entries []core.Entry, label func(core.Leg) string) []CategoryStat {
	stats := make(map[string]*CategoryStat)
	for _, e := range entries {
		n := len(e.Legs)
		if n == 0 {
			continue
		}
		share := decimal.NewFromInt(int64(n))
		profit := e.Profit.Div(share)
		stake := e.Stake.Div(share)
		for _, leg := range e.Legs {
			key := label(leg)
			if key == "" {
				key = "Unknown"
			}
			stat, ok := stats[key]
			if !ok {
				stat = &CategoryStat{Label: key, Volume: decimal.Zero, Profit: decimal.Zero}
				stats[key] = stat
			}
			stat.Volume = stat.Volume.Add(stake)
			stat.Profit = stat.Profit.Add(profit)
			switch e.Result {
			case core.ResultWin:
				stat.Wins++
			case core.ResultLoss:
				stat.Losses++
			}
		}
	}

	out := make([]CategoryStat, 0, len(stats))
	for _, stat := range stats {
		if decided := stat.Wins + stat.Losses; decided > 0 {
			stat.WinRate = float64(stat.Wins) / float64(decided) * 100
		}
		if stat.Volume.IsPositive() {
			roi, _ := stat.Profit.Div(stat.Volume).Mul(decimal.NewFromInt(100)).Float64()
			stat.ROI = roi
		}
		out = append(out, *stat)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Volume.Equal(out[j].Volume) {
			return out[i].Volume.GreaterThan(out[j].Volume)
		}
		return out[i].Label < out[j].Label
	})
	return out
}
