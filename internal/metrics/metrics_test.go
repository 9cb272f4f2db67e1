package metrics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"betledger/internal/core"
	"betledger/internal/dates"
)

func entry(created dates.Date, result core.Result, odd, stake, profit string) core.Entry {
	return core.Entry{
		CreatedDate: created,
		Legs: []core.Leg{{
			EventDate: created,
			Modality:  "Soccer",
			Market:    "1X2",
			Timing:    core.TimingPre,
		}},
		Odd:    decimal.RequireFromString(odd),
		Stake:  decimal.RequireFromString(stake),
		Result: result,
		Profit: decimal.RequireFromString(profit),
	}
}

func day(d int) dates.Date { return dates.New(2025, time.March, d) }

func TestComputeDashboard(t *testing.T) {
	entries := []core.Entry{
		entry(day(1), core.ResultWin, "2.0", "100", "100"),
		entry(day(2), core.ResultLoss, "1.5", "100", "-100"),
		entry(day(3), core.ResultWin, "2.5", "100", "150"),
		entry(day(4), core.ResultPending, "2.0", "100", "0"),
		entry(day(5), core.ResultVoid, "3.0", "100", "0"),
	}
	d := ComputeDashboard(entries)

	if d.Wins != 2 || d.Losses != 1 {
		t.Fatalf("wins=%d losses=%d", d.Wins, d.Losses)
	}
	// Pending and Void are excluded from both sides of the rate.
	if want := 2.0 / 3.0 * 100; d.WinRate < want-0.001 || d.WinRate > want+0.001 {
		t.Errorf("winRate = %f, want %f", d.WinRate, want)
	}
	if d.TotalPnL.String() != "150" {
		t.Errorf("totalPnL = %s, want 150", d.TotalPnL)
	}
	if d.TotalStaked.String() != "500" {
		t.Errorf("totalStaked = %s, want 500", d.TotalStaked)
	}
	if d.ROI < 29.999 || d.ROI > 30.001 {
		t.Errorf("roi = %f, want 30", d.ROI)
	}
	if d.AvgOdd.String() != "2.2" || d.AvgStake.String() != "100" {
		t.Errorf("avgOdd=%s avgStake=%s", d.AvgOdd, d.AvgStake)
	}
}

func TestComputeDashboardEmpty(t *testing.T) {
	d := ComputeDashboard(nil)
	if d.WinRate != 0 || d.ROI != 0 || !d.TotalPnL.IsZero() {
		t.Errorf("empty dashboard not zeroed: %+v", d)
	}
}

func TestBankrollHistory(t *testing.T) {
	entries := []core.Entry{
		entry(day(2), core.ResultLoss, "1.5", "50", "-50"),
		entry(day(1), core.ResultWin, "2.0", "100", "100"),
		entry(day(1), core.ResultWin, "2.0", "30", "30"),
	}
	points := BankrollHistory(entries)
	if len(points) != 2 {
		t.Fatalf("got %d points, want 2", len(points))
	}
	if points[0].Date != day(1) || points[0].DayDelta.String() != "130" || points[0].Cumulative.String() != "130" {
		t.Errorf("first point: %+v", points[0])
	}
	if points[1].Date != day(2) || points[1].DayDelta.String() != "-50" || points[1].Cumulative.String() != "80" {
		t.Errorf("second point: %+v", points[1])
	}
}

func TestDailyPnL(t *testing.T) {
	entries := []core.Entry{
		entry(day(2), core.ResultLoss, "1.5", "50", "-50"),
		entry(day(1), core.ResultWin, "2.0", "100", "100"),
	}
	points := DailyPnL(entries)
	if len(points) != 2 || points[0].Profit.String() != "100" || points[1].Profit.String() != "-50" {
		t.Errorf("daily pnl: %+v", points)
	}
}

func TestMonthlyStats(t *testing.T) {
	entries := []core.Entry{
		entry(dates.New(2025, time.January, 10), core.ResultWin, "2.0", "100", "100"),
		entry(dates.New(2025, time.January, 20), core.ResultCashOut, "3.0", "50", "20"),
		entry(dates.New(2025, time.February, 5), core.ResultLoss, "1.8", "100", "-100"),
		entry(dates.New(2025, time.February, 6), core.ResultVoid, "2.0", "40", "0"),
	}
	stats := MonthlyStats(entries)
	if len(stats) != 2 {
		t.Fatalf("got %d months, want 2", len(stats))
	}

	jan := stats[0]
	if jan.Month != "2025-01" || jan.Entries != 2 || jan.Wins != 1 || jan.CashOuts != 1 {
		t.Errorf("january: %+v", jan)
	}
	if jan.Profit.String() != "120" || jan.Bankroll.String() != "120" {
		t.Errorf("january profit/bankroll: %s/%s", jan.Profit, jan.Bankroll)
	}

	feb := stats[1]
	if feb.Month != "2025-02" || feb.Losses != 1 || feb.Voids != 1 {
		t.Errorf("february: %+v", feb)
	}
	if feb.Profit.String() != "-100" || feb.Bankroll.String() != "20" {
		t.Errorf("february profit/bankroll: %s/%s", feb.Profit, feb.Bankroll)
	}
}

func TestComputeStreaksExample(t *testing.T) {
	// W W L W W W L in chronological order.
	results := []core.Result{
		core.ResultWin, core.ResultWin, core.ResultLoss,
		core.ResultWin, core.ResultWin, core.ResultWin, core.ResultLoss,
	}
	var entries []core.Entry
	for i, r := range results {
		entries = append(entries, entry(day(i+1), r, "2.0", "10", "0"))
	}
	s := ComputeStreaks(entries)
	if s.LongestWin != 3 {
		t.Errorf("longestWin = %d, want 3", s.LongestWin)
	}
	if s.LongestLoss != 1 {
		t.Errorf("longestLoss = %d, want 1", s.LongestLoss)
	}
}

func TestComputeStreaksIgnoresUndecided(t *testing.T) {
	entries := []core.Entry{
		entry(day(1), core.ResultWin, "2.0", "10", "10"),
		entry(day(2), core.ResultPending, "2.0", "10", "0"),
		entry(day(3), core.ResultVoid, "2.0", "10", "0"),
		entry(day(4), core.ResultWin, "2.0", "10", "10"),
	}
	s := ComputeStreaks(entries)
	if s.LongestWin != 2 {
		t.Errorf("longestWin = %d, want 2 (undecided must not break the run)", s.LongestWin)
	}
}

func TestCategoryBreakdownSplitsMultiLeg(t *testing.T) {
	e := core.Entry{
		CreatedDate: day(1),
		Legs: []core.Leg{
			{EventDate: day(2), Modality: "Soccer", Market: "1X2", Timing: core.TimingPre},
			{EventDate: day(3), Modality: "Basketball", Market: "Handicap", Timing: core.TimingPre},
		},
		Odd:    decimal.RequireFromString("4.0"),
		Stake:  decimal.RequireFromString("50"),
		Result: core.ResultWin,
		Profit: decimal.RequireFromString("100"),
	}
	stats := ByModality([]core.Entry{e})
	if len(stats) != 2 {
		t.Fatalf("got %d categories, want 2", len(stats))
	}
	for _, s := range stats {
		if s.Profit.String() != "50" || s.Volume.String() != "25" {
			t.Errorf("%s: profit=%s volume=%s, want 50/25", s.Label, s.Profit, s.Volume)
		}
		if s.Wins != 1 {
			t.Errorf("%s: wins=%d, want 1", s.Label, s.Wins)
		}
	}
}

func TestCategoryBreakdownSingleLeg(t *testing.T) {
	entries := []core.Entry{
		entry(day(1), core.ResultWin, "2.0", "100", "100"),
		entry(day(2), core.ResultLoss, "2.0", "50", "-50"),
	}
	stats := ByMarket(entries)
	if len(stats) != 1 {
		t.Fatalf("got %d categories, want 1", len(stats))
	}
	s := stats[0]
	if s.Label != "1X2" || s.Volume.String() != "150" || s.Profit.String() != "50" {
		t.Errorf("breakdown: %+v", s)
	}
	if s.WinRate != 50 {
		t.Errorf("winRate = %f, want 50", s.WinRate)
	}
}

func TestRecentEntries(t *testing.T) {
	entries := []core.Entry{
		entry(day(1), core.ResultWin, "2.0", "10", "10"),
		entry(day(3), core.ResultWin, "2.0", "10", "10"),
		entry(day(2), core.ResultWin, "2.0", "10", "10"),
	}
	recent := RecentEntries(entries, 2)
	if len(recent) != 2 {
		t.Fatalf("got %d entries, want 2", len(recent))
	}
	if recent[0].CreatedDate != day(3) || recent[1].CreatedDate != day(2) {
		t.Errorf("wrong order: %s then %s", recent[0].CreatedDate, recent[1].CreatedDate)
	}
	if got := RecentEntries(entries, 10); len(got) != 3 {
		t.Errorf("n beyond length should return all entries, got %d", len(got))
	}
}
