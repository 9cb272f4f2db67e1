package csvio

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"betledger/internal/core"
	"betledger/internal/dates"
)

func TestImportAcceptsAndRejects(t *testing.T) {
	input := strings.Join([]string{
		`2025-03-01,Soccer,2025-03-02,A vs B,1X2,A,1.85,50,GREEN,42.50`,
		`31/13/2025,Soccer,2025-03-02,C vs D,1X2,C,2.00,25,RED,-25`,
		`02/03/2025,Tennis,03/03/2025,E vs F,Winner,E,1.50,30,GANHA,15,LIVE,Bet365`,
	}, "\n")

	result, err := Import(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if len(result.Accepted) != 2 {
		t.Fatalf("accepted %d rows, want 2", len(result.Accepted))
	}
	if len(result.Rejected) != 1 {
		t.Fatalf("rejected %d rows, want 1", len(result.Rejected))
	}
	if result.Rejected[0].Row != 2 {
		t.Errorf("rejected row = %d, want 2", result.Rejected[0].Row)
	}
	if !strings.Contains(result.Rejected[0].Reason, "invalid date") {
		t.Errorf("rejection reason = %q, want invalid date", result.Rejected[0].Reason)
	}

	first := result.Accepted[0]
	if first.Result != core.ResultWin {
		t.Errorf("GREEN mapped to %s, want WIN", first.Result)
	}
	if first.Profit.String() != "42.5" {
		t.Errorf("profit = %s, want 42.5", first.Profit)
	}

	third := result.Accepted[1]
	if third.Site != "Bet365" || third.Legs[0].Timing != core.TimingLive {
		t.Errorf("optional columns not applied: %+v", third)
	}
	if third.CreatedDate.String() != "2025-03-02" {
		t.Errorf("day-first created date = %s, want 2025-03-02", third.CreatedDate)
	}
}

func TestImportQuotedFields(t *testing.T) {
	input := "2025-03-01,Soccer,2025-03-02,\"Team ,A\"\" vs\nTeam B\",1X2,A,1.85,50,WIN,42.50\n"
	result, err := Import(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if len(result.Accepted) != 1 {
		t.Fatalf("accepted %d rows, want 1 (rejected: %+v)", len(result.Accepted), result.Rejected)
	}
	want := "Team ,A\" vs\nTeam B"
	if got := result.Accepted[0].Legs[0].Event; got != want {
		t.Errorf("event = %q, want %q", got, want)
	}
}

func TestImportMoneyFormats(t *testing.T) {
	input := `2025-03-01,Soccer,2025-03-02,A vs B,1X2,A,"1,85","R$ 1.250,50",GREEN,"R$ -125,00"`
	result, err := Import(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if len(result.Accepted) != 1 {
		t.Fatalf("accepted %d rows, want 1 (rejected: %+v)", len(result.Accepted), result.Rejected)
	}
	e := result.Accepted[0]
	if e.Odd.String() != "1.85" || e.Stake.String() != "1250.5" || e.Profit.String() != "-125" {
		t.Errorf("parsed odd=%s stake=%s profit=%s", e.Odd, e.Stake, e.Profit)
	}
}

func TestImportTooFewColumns(t *testing.T) {
	result, err := Import(strings.NewReader("2025-03-01,Soccer,2025-03-02\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Rejected) != 1 || len(result.Accepted) != 0 {
		t.Fatalf("got %+v", result)
	}
}

func TestImportSkipsBOMAndHeader(t *testing.T) {
	input := "\xEF\xBB\xBFcreated_date,modality,event_date,event,market,selection,odd,stake,result,profit,timing,site\n" +
		"2025-03-01,Soccer,2025-03-02,A vs B,1X2,A,1.85,50,WIN,42.50,PRE,Bet365\n"
	result, err := Import(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Accepted) != 1 || len(result.Rejected) != 0 {
		t.Fatalf("got %+v", result)
	}
	if result.Accepted[0].Legs[0].Modality != "Soccer" {
		t.Errorf("modality = %q", result.Accepted[0].Legs[0].Modality)
	}
}

func TestResultCodeSynonyms(t *testing.T) {
	cases := map[string]core.Result{
		"green":      core.ResultWin,
		"GANHA":      core.ResultWin,
		"g":          core.ResultWin,
		"RED":        core.ResultLoss,
		"perdida":    core.ResultLoss,
		"meio green": core.ResultHalfWin,
		"MEIO RED":   core.ResultHalfLoss,
		"CashOut":    core.ResultCashOut,
		"reembolso":  core.ResultVoid,
		"anulada":    core.ResultVoid,
		"Pendente":   core.ResultPending,
		"WIN":        core.ResultWin,
	}
	for code, want := range cases {
		got, err := ParseResultCode(code)
		if err != nil {
			t.Errorf("ParseResultCode(%q) failed: %v", code, err)
			continue
		}
		if got != want {
			t.Errorf("ParseResultCode(%q) = %s, want %s", code, got, want)
		}
	}
	if _, err := ParseResultCode("maybe"); err == nil {
		t.Error("unknown code accepted")
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	entries := []core.Entry{
		{
			CreatedDate: dates.New(2025, time.March, 1),
			Legs: []core.Leg{{
				EventDate: dates.New(2025, time.March, 2),
				Modality:  "Soccer",
				Event:     "A, \"the favorite\" vs B",
				Market:    "1X2",
				Selection: "A",
				Timing:    core.TimingPre,
			}},
			Odd:    decimal.RequireFromString("1.85"),
			Stake:  decimal.RequireFromString("50"),
			Result: core.ResultWin,
			Profit: decimal.RequireFromString("42.5"),
			Site:   "Bet365",
		},
		{
			CreatedDate: dates.New(2025, time.March, 3),
			Legs: []core.Leg{
				{
					EventDate: dates.New(2025, time.March, 4),
					Modality:  "Soccer",
					Event:     "C vs D",
					Market:    "Over/Under",
					Selection: "Over 2.5",
					Timing:    core.TimingPre,
				},
				{
					EventDate: dates.New(2025, time.March, 5),
					Modality:  "Basketball",
					Event:     "E vs F",
					Market:    "Handicap",
					Selection: "F -3.5",
					Timing:    core.TimingLive,
				},
			},
			Odd:    decimal.RequireFromString("3.42"),
			Stake:  decimal.RequireFromString("20"),
			Result: core.ResultLoss,
			Profit: decimal.RequireFromString("-20"),
		},
	}

	var buf bytes.Buffer
	if err := Export(&buf, entries); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), utf8BOM) {
		t.Error("export missing byte-order marker")
	}

	result, err := Import(&buf)
	if err != nil {
		t.Fatalf("re-import failed: %v", err)
	}
	if len(result.Rejected) != 0 {
		t.Fatalf("re-import rejected rows: %+v", result.Rejected)
	}
	if len(result.Accepted) != len(entries) {
		t.Fatalf("re-import got %d entries, want %d", len(result.Accepted), len(entries))
	}

	for i, got := range result.Accepted {
		want := entries[i]
		if got.CreatedDate != want.CreatedDate || got.Result != want.Result || got.Site != want.Site {
			t.Errorf("entry %d scalar fields changed: %+v", i, got)
		}
		if !got.Odd.Equal(want.Odd) || !got.Stake.Equal(want.Stake) || !got.Profit.Equal(want.Profit) {
			t.Errorf("entry %d numeric fields changed: %+v", i, got)
		}
		if len(got.Legs) != len(want.Legs) {
			t.Fatalf("entry %d leg count changed", i)
		}
		for j := range got.Legs {
			if got.Legs[j] != want.Legs[j] {
				t.Errorf("entry %d leg %d changed: got %+v want %+v", i, j, got.Legs[j], want.Legs[j])
			}
		}
	}
}
