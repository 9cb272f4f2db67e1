package core

import (
	"fmt"
	"strings"

	"betledger/internal/dates"
)

// LegSeparator joins per-leg segments inside single text fields at the
// persistence and CSV boundaries. Internally legs are always explicit.
const LegSeparator = "|"

// LegFields is the pipe-joined textual form of an entry's legs, one string
// per field. Segment i across all fields describes leg i.
type LegFields struct {
	EventDate string
	Modality  string
	Event     string
	Market    string
	Selection string
	Timing    string
}

// EncodeLegs serializes explicit legs back to the pipe-joined compatibility
// encoding.
func EncodeLegs(legs []Leg) LegFields {
	n := len(legs)
	eventDates := make([]string, n)
	modalities := make([]string, n)
	events := make([]string, n)
	markets := make([]string, n)
	selections := make([]string, n)
	timings := make([]string, n)
	for i, leg := range legs {
		eventDates[i] = leg.EventDate.String()
		modalities[i] = leg.Modality
		events[i] = leg.Event
		markets[i] = leg.Market
		selections[i] = leg.Selection
		timing := leg.Timing
		if timing == "" {
			timing = TimingPre
		}
		timings[i] = string(timing)
	}
	return LegFields{
		EventDate: strings.Join(eventDates, LegSeparator),
		Modality:  strings.Join(modalities, LegSeparator),
		Event:     strings.Join(events, LegSeparator),
		Market:    strings.Join(markets, LegSeparator),
		Selection: strings.Join(selections, LegSeparator),
		Timing:    strings.Join(timings, LegSeparator),
	}
}

// DecodeLegs parses pipe-joined fields into explicit legs. The event-date
// field fixes the leg count; every other non-empty field must agree on it.
// An empty timing field defaults every leg to PRE.
func DecodeLegs(f LegFields) ([]Leg, error) {
	eventDates := strings.Split(f.EventDate, LegSeparator)
	n := len(eventDates)

	modalities, err := splitAligned("modality", f.Modality, n)
	if err != nil {
		return nil, err
	}
	events, err := splitAligned("event", f.Event, n)
	if err != nil {
		return nil, err
	}
	markets, err := splitAligned("market", f.Market, n)
	if err != nil {
		return nil, err
	}
	selections, err := splitAligned("selection", f.Selection, n)
	if err != nil {
		return nil, err
	}
	timings, err := splitAligned("timing", f.Timing, n)
	if err != nil {
		return nil, err
	}

	legs := make([]Leg, n)
	for i := 0; i < n; i++ {
		eventDate, err := dates.Normalize(eventDates[i])
		if err != nil {
			return nil, NewValidationError("event_date", err.Error())
		}
		timing := TimingPre
		if timings[i] != "" {
			timing, err = ParseTiming(timings[i])
			if err != nil {
				return nil, err
			}
		}
		legs[i] = Leg{
			EventDate: eventDate,
			Modality:  strings.TrimSpace(modalities[i]),
			Event:     strings.TrimSpace(events[i]),
			Market:    strings.TrimSpace(markets[i]),
			Selection: strings.TrimSpace(selections[i]),
			Timing:    timing,
		}
	}
	return legs, nil
}

// splitAligned splits a pipe-joined field and checks its segment count
// against the leg count. An empty field yields n empty segments.
func splitAligned(field, value string, n int) ([]string, error) {
	if value == "" {
		return make([]string, n), nil
	}
	parts := strings.Split(value, LegSeparator)
	if len(parts) != n {
		return nil, NewValidationError(field,
			fmt.Sprintf("%d segment(s), want %d", len(parts), n))
	}
	return parts, nil
}

// ParseTiming maps textual timing labels to a Timing, case-insensitively.
func ParseTiming(s string) (Timing, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PRE", "PRE-LIVE", "PREMATCH", "PRE-MATCH":
		return TimingPre, nil
	case "LIVE", "AO VIVO":
		return TimingLive, nil
	}
	return "", NewValidationError("timing", "unknown timing "+s)
}
