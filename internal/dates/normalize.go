package dates

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseError reports free-form text that could not be normalized to a date.
type ParseError struct {
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid date %q: %s", e.Text, e.Reason)
}

// Year bounds accepted for day-first numeric dates.
const (
	minYear = 1900
	maxYear = 2200
)

// Layouts tried by the general fallback rule, most specific first. Day-first
// numeric forms are handled before this list and never reach it.
var fallbackLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"20060102",
	"Jan 2, 2006",
	"2 Jan 2006",
	"January 2, 2006",
}

// Normalize parses free-form date text into a canonical Date. Recognized
// inputs, tried in order: the canonical YYYY-MM-DD form, day-first
// DD/MM/YYYY or DD-MM-YYYY, and a fixed list of general layouts truncated to
// their date component. The function is pure: identical input always yields
// an identical result.
func Normalize(text string) (Date, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return Date{}, &ParseError{Text: text, Reason: "empty"}
	}

	if t, err := time.Parse(Format, s); err == nil {
		return FromTime(t), nil
	}

	if d, ok, err := parseDayFirst(s); ok {
		if err != nil {
			return Date{}, err
		}
		return d, nil
	}

	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return FromTime(t), nil
		}
	}

	return Date{}, &ParseError{Text: text, Reason: "unrecognized format"}
}

// parseDayFirst handles DD/MM/YYYY and DD-MM-YYYY. The boolean result tells
// the caller whether the text matched the shape at all; shape matches with
// out-of-range components are hard failures rather than fallthroughs.
func parseDayFirst(s string) (Date, bool, error) {
	sep := "/"
	if !strings.Contains(s, sep) {
		sep = "-"
	}
	parts := strings.Split(s, sep)
	if len(parts) != 3 || len(parts[2]) != 4 {
		return Date{}, false, nil
	}

	day, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	year, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return Date{}, false, nil
	}

	if day < 1 || day > 31 {
		return Date{}, true, &ParseError{Text: s, Reason: fmt.Sprintf("day %d out of range", day)}
	}
	if month < 1 || month > 12 {
		return Date{}, true, &ParseError{Text: s, Reason: fmt.Sprintf("month %d out of range", month)}
	}
	if year < minYear || year > maxYear {
		return Date{}, true, &ParseError{Text: s, Reason: fmt.Sprintf("year %d out of range", year)}
	}

	d := New(year, time.Month(month), day)
	if d.Day() != day || d.Month() != time.Month(month) || d.Year() != year {
		return Date{}, true, &ParseError{Text: s, Reason: "no such calendar day"}
	}
	return d, true, nil
}
