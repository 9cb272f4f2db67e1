package dates

import (
	"testing"
	"time"
)

func TestNormalizeCanonical(t *testing.T) {
	d, err := Normalize("2025-03-04")
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if d.Year() != 2025 || d.Month() != time.March || d.Day() != 4 {
		t.Errorf("got %s, want 2025-03-04", d)
	}
}

func TestNormalizeDayFirst(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"04/03/2025", "2025-03-04"},
		{"4/3/2025", "2025-03-04"},
		{"04-03-2025", "2025-03-04"},
		{"31/12/1999", "1999-12-31"},
		{"01/01/1900", "1900-01-01"},
	}
	for _, tt := range tests {
		d, err := Normalize(tt.in)
		if err != nil {
			t.Errorf("Normalize(%q) failed: %v", tt.in, err)
			continue
		}
		if d.String() != tt.want {
			t.Errorf("Normalize(%q) = %s, want %s", tt.in, d, tt.want)
		}
	}
}

func TestNormalizeEquivalence(t *testing.T) {
	a, err := Normalize("2025-03-04")
	if err != nil {
		t.Fatal(err)
	}
	b, err := Normalize("04/03/2025")
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Errorf("canonical and day-first forms disagree: %s vs %s", a, b)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"2025-03-04", "31/01/2024", "2024-02-29T10:30:00Z", "Jan 2, 2006"}
	for _, in := range inputs {
		first, err := Normalize(in)
		if err != nil {
			t.Fatalf("Normalize(%q): %v", in, err)
		}
		second, err := Normalize(first.String())
		if err != nil {
			t.Fatalf("re-normalize of %s: %v", first, err)
		}
		if first != second {
			t.Errorf("normalize not idempotent for %q: %s then %s", in, first, second)
		}
	}
}

func TestNormalizeFallbackLayouts(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2025-06-15T22:10:00Z", "2025-06-15"},
		{"2025-06-15 22:10:00", "2025-06-15"},
		{"2025/06/15", "2025-06-15"},
		{"20250615", "2025-06-15"},
		{"Jun 15, 2025", "2025-06-15"},
		{"15 Jun 2025", "2025-06-15"},
	}
	for _, tt := range tests {
		d, err := Normalize(tt.in)
		if err != nil {
			t.Errorf("Normalize(%q) failed: %v", tt.in, err)
			continue
		}
		if d.String() != tt.want {
			t.Errorf("Normalize(%q) = %s, want %s", tt.in, d, tt.want)
		}
	}
}

func TestNormalizeRejects(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"31/13/2025", // month out of range
		"32/01/2025", // day out of range
		"30/02/2025", // not a real calendar day
		"01/01/1899", // year below range
		"01/01/2201", // year above range
		"not a date",
		"2025-13-40",
	}
	for _, in := range inputs {
		if _, err := Normalize(in); err == nil {
			t.Errorf("Normalize(%q) accepted, want error", in)
		}
	}
}

func TestDateOrdering(t *testing.T) {
	a := New(2025, time.January, 1)
	b := New(2025, time.January, 2)
	if !a.Before(b) || b.Before(a) {
		t.Error("Before broken")
	}
	if !b.After(a) {
		t.Error("After broken")
	}
	if a.Compare(b) != -1 || b.Compare(a) != 1 || a.Compare(a) != 0 {
		t.Error("Compare broken")
	}
}

func TestMonthKey(t *testing.T) {
	if got := New(2025, time.March, 4).MonthKey(); got != "2025-03" {
		t.Errorf("MonthKey = %q, want 2025-03", got)
	}
}
