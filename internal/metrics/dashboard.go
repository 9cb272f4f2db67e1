// Package metrics derives presentation statistics from entry snapshots.
// Every function is pure: it operates on a point-in-time slice already
// restricted to the active account selection and never mutates it.
package metrics

import (
	"github.com/shopspring/decimal"

	"betledger/internal/core"
)

// Dashboard is the headline stat block.
type Dashboard struct {
	Entries     int             `json:"entries"`
	Wins        int             `json:"wins"`
	Losses      int             `json:"losses"`
	WinRate     float64         `json:"win_rate"`
	TotalPnL    decimal.Decimal `json:"total_pnl"`
	TotalStaked decimal.Decimal `json:"total_staked"`
	ROI         float64         `json:"roi"`
	AvgOdd      decimal.Decimal `json:"avg_odd"`
	AvgStake    decimal.Decimal `json:"avg_stake"`
}

// ComputeDashboard aggregates the headline metrics. Win rate counts decided
// entries only; ROI is zero when nothing was staked.
func ComputeDashboard(entries []core.Entry) Dashboard {
	d := Dashboard{
		Entries:     len(entries),
		TotalPnL:    decimal.Zero,
		TotalStaked: decimal.Zero,
		AvgOdd:      decimal.Zero,
		AvgStake:    decimal.Zero,
	}

	oddSum := decimal.Zero
	for _, e := range entries {
		d.TotalPnL = d.TotalPnL.Add(e.Profit)
		d.TotalStaked = d.TotalStaked.Add(e.Stake)
		oddSum = oddSum.Add(e.Odd)
		switch e.Result {
		case core.ResultWin:
			d.Wins++
		case core.ResultLoss:
			d.Losses++
		}
	}

	if decided := d.Wins + d.Losses; decided > 0 {
		d.WinRate = float64(d.Wins) / float64(decided) * 100
	}
	if d.TotalStaked.IsPositive() {
		roi, _ := d.TotalPnL.Div(d.TotalStaked).Mul(decimal.NewFromInt(100)).Float64()
		d.ROI = roi
	}
	if len(entries) > 0 {
		n := decimal.NewFromInt(int64(len(entries)))
		d.AvgOdd = oddSum.Div(n)
		d.AvgStake = d.TotalStaked.Div(n)
	}
	return d
}
