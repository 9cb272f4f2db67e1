package core

import (
	"errors"
	"testing"
)

func TestDecodeLegsSingle(t *testing.T) {
	legs, err := DecodeLegs(LegFields{
		EventDate: "2025-03-04",
		Modality:  "Soccer",
		Event:     "A vs B",
		Market:    "1X2",
		Selection: "A",
		Timing:    "PRE",
	})
	if err != nil {
		t.Fatalf("DecodeLegs failed: %v", err)
	}
	if len(legs) != 1 {
		t.Fatalf("got %d legs, want 1", len(legs))
	}
	if legs[0].Modality != "Soccer" || legs[0].EventDate.String() != "2025-03-04" {
		t.Errorf("unexpected leg: %+v", legs[0])
	}
}

func TestDecodeLegsMulti(t *testing.T) {
	legs, err := DecodeLegs(LegFields{
		EventDate: "2025-03-04|2025-03-05",
		Modality:  "Soccer|Basketball",
		Event:     "A vs B|C vs D",
		Market:    "1X2|Handicap",
		Selection: "A|D -3.5",
		Timing:    "PRE|LIVE",
	})
	if err != nil {
		t.Fatalf("DecodeLegs failed: %v", err)
	}
	if len(legs) != 2 {
		t.Fatalf("got %d legs, want 2", len(legs))
	}
	if legs[1].Modality != "Basketball" || legs[1].Timing != TimingLive {
		t.Errorf("unexpected second leg: %+v", legs[1])
	}
}

func TestDecodeLegsSegmentMismatch(t *testing.T) {
	_, err := DecodeLegs(LegFields{
		EventDate: "2025-03-04|2025-03-05",
		Modality:  "Soccer",
		Event:     "A vs B|C vs D",
		Market:    "1X2|1X2",
		Selection: "A|C",
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want ValidationError, got %v", err)
	}
	if verr.Field != "modality" {
		t.Errorf("mismatch reported on %q, want modality", verr.Field)
	}
}

func TestDecodeLegsDefaultsTimingToPre(t *testing.T) {
	legs, err := DecodeLegs(LegFields{
		EventDate: "2025-03-04|2025-03-05",
		Modality:  "Soccer|Tennis",
		Event:     "A vs B|C vs D",
		Market:    "1X2|Winner",
		Selection: "A|C",
	})
	if err != nil {
		t.Fatalf("DecodeLegs failed: %v", err)
	}
	for i, leg := range legs {
		if leg.Timing != TimingPre {
			t.Errorf("leg %d timing = %q, want PRE", i, leg.Timing)
		}
	}
}

func TestDecodeLegsBadDate(t *testing.T) {
	_, err := DecodeLegs(LegFields{
		EventDate: "31/13/2025",
		Modality:  "Soccer",
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want ValidationError, got %v", err)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	fields := LegFields{
		EventDate: "2025-03-04|2025-03-05",
		Modality:  "Soccer|Basketball",
		Event:     "A vs B|C vs D",
		Market:    "1X2|Handicap",
		Selection: "A|D -3.5",
		Timing:    "PRE|LIVE",
	}
	legs, err := DecodeLegs(fields)
	if err != nil {
		t.Fatal(err)
	}
	got := EncodeLegs(legs)
	if got != fields {
		t.Errorf("round trip changed fields:\n got %+v\nwant %+v", got, fields)
	}
}
