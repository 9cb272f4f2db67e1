// Package dates provides the canonical calendar-date representation used
// across the ledger and the normalizer that produces it from free-form text.
package dates

import (
	"encoding/json"
	"fmt"
	"time"
)

// Format is the canonical textual representation of a Date.
const Format = "2006-01-02"

// Date represents a calendar date with day granularity. The zero value is
// not a valid date; use IsZero to detect it.
type Date struct {
	y int
	m time.Month
	d int
}

// New returns a normalized Date for the given year, month and day.
// Out-of-range values are normalized the way time.Date does.
func New(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.Time().Date()
	return d
}

// Today returns the current date in the local time zone.
func Today() Date {
	return New(time.Now().Date())
}

// FromTime truncates a time to its date component.
func FromTime(t time.Time) Date {
	return New(t.Date())
}

// Time returns the canonical time for the date (midnight UTC).
func (d Date) Time() time.Time {
	return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC)
}

// Year returns the year of the date.
func (d Date) Year() int { return d.y }

// Month returns the month of the date.
func (d Date) Month() time.Month { return d.m }

// Day returns the day of the month.
func (d Date) Day() int { return d.d }

// IsZero reports whether the date is the zero value.
func (d Date) IsZero() bool { return d == Date{} }

// Before reports whether d is before x.
func (d Date) Before(x Date) bool { return d.Time().Before(x.Time()) }

// After reports whether d is after x.
func (d Date) After(x Date) bool { return d.Time().After(x.Time()) }

// Compare returns -1, 0 or 1 depending on whether d is before, equal to or
// after x.
func (d Date) Compare(x Date) int { return d.Time().Compare(x.Time()) }

// MonthKey returns the "YYYY-MM" bucket the date falls in.
func (d Date) MonthKey() string { return d.Time().Format("2006-01") }

// String formats the date in the canonical format.
func (d Date) String() string { return d.Time().Format(Format) }

// MarshalJSON encodes the date as its canonical string.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes a date from any text the normalizer accepts.
func (d *Date) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := Normalize(str)
	if err != nil {
		return fmt.Errorf("unmarshal date: %w", err)
	}
	*d = parsed
	return nil
}

var (
	_ json.Marshaler   = (*Date)(nil)
	_ json.Unmarshaler = (*Date)(nil)
)
