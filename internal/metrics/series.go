package metrics

import (
	"sort"

	"github.com/shopspring/decimal"

	"betledger/internal/core"
	"betledger/internal/dates"
)

// BankrollPoint is one step of the cumulative bankroll series.
type BankrollPoint struct {
	Date       dates.Date      `json:"date"`
	Cumulative decimal.Decimal `json:"cumulative"`
	DayDelta   decimal.Decimal `json:"day_delta"`
}

// DailyPoint is one day's profit, uncumulated.
type DailyPoint struct {
	Date   dates.Date      `json:"date"`
	Profit decimal.Decimal `json:"profit"`
}

// MonthStat summarizes one calendar month of entries.
type MonthStat struct {
	Month       string          `json:"month"` // YYYY-MM
	Entries     int             `json:"entries"`
	Wins        int             `json:"wins"`
	Losses      int             `json:"losses"`
	CashOuts    int             `json:"cashouts"`
	Voids       int             `json:"voids"`
	ROI         float64         `json:"roi"`
	AvgOdd      decimal.Decimal `json:"avg_odd"`
	AvgStake    decimal.Decimal `json:"avg_stake"`
	TotalStaked decimal.Decimal `json:"total_staked"`
	Profit      decimal.Decimal `json:"profit"`
	Bankroll    decimal.Decimal `json:"bankroll"` // cumulative across months
}

// groupByDay buckets entries by the calendar day of their created date,
// ignoring time of day, and returns the days in ascending order.
func groupByDay(entries []core.Entry) ([]dates.Date, map[dates.Date][]core.Entry) {
	buckets := make(map[dates.Date][]core.Entry)
	for _, e := range entries {
		buckets[e.CreatedDate] = append(buckets[e.CreatedDate], e)
	}
	days := make([]dates.Date, 0, len(buckets))
	for d := range buckets {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days, buckets
}

// BankrollHistory produces the running cumulative profit per calendar day.
func BankrollHistory(entries []core.Entry) []BankrollPoint {
	days, buckets := groupByDay(entries)

	points := make([]BankrollPoint, 0, len(days))
	running := decimal.Zero
	for _, day := range days {
		delta := decimal.Zero
		for _, e := range buckets[day] {
			delta = delta.Add(e.Profit)
		}
		running = running.Add(delta)
		points = append(points, BankrollPoint{Date: day, Cumulative: running, DayDelta: delta})
	}
	return points
}

// DailyPnL produces per-day profit without cumulation.
func DailyPnL(entries []core.Entry) []DailyPoint {
	days, buckets := groupByDay(entries)

	points := make([]DailyPoint, 0, len(days))
	for _, day := range days {
		profit := decimal.Zero
		for _, e := range buckets[day] {
			profit = profit.Add(e.Profit)
		}
		points = append(points, DailyPoint{Date: day, Profit: profit})
	}
	return points
}

// MonthlyStats buckets entries by calendar month, ascending, with a running
// bankroll carried across months in chronological order.
func MonthlyStats(entries []core.Entry) []MonthStat {
	buckets := make(map[string][]core.Entry)
	for _, e := range entries {
		key := e.CreatedDate.MonthKey()
		buckets[key] = append(buckets[key], e)
	}
	months := make([]string, 0, len(buckets))
	for m := range buckets {
		months = append(months, m)
	}
	sort.Strings(months)

	stats := make([]MonthStat, 0, len(months))
	bankroll := decimal.Zero
	for _, month := range months {
		group := buckets[month]
		stat := MonthStat{
			Month:       month,
			Entries:     len(group),
			AvgOdd:      decimal.Zero,
			AvgStake:    decimal.Zero,
			TotalStaked: decimal.Zero,
			Profit:      decimal.Zero,
		}
		oddSum := decimal.Zero
		for _, e := range group {
			stat.Profit = stat.Profit.Add(e.Profit)
			stat.TotalStaked = stat.TotalStaked.Add(e.Stake)
			oddSum = oddSum.Add(e.Odd)
			switch e.Result {
			case core.ResultWin:
				stat.Wins++
			case core.ResultLoss:
				stat.Losses++
			case core.ResultCashOut:
				stat.CashOuts++
			case core.ResultVoid:
				stat.Voids++
			}
		}
		if stat.TotalStaked.IsPositive() {
			roi, _ := stat.Profit.Div(stat.TotalStaked).Mul(decimal.NewFromInt(100)).Float64()
			stat.ROI = roi
		}
		if len(group) > 0 {
			n := decimal.NewFromInt(int64(len(group)))
			stat.AvgOdd = oddSum.Div(n)
			stat.AvgStake = stat.TotalStaked.Div(n)
		}
		bankroll = bankroll.Add(stat.Profit)
		stat.Bankroll = bankroll
		stats = append(stats, stat)
	}
	return stats
}
