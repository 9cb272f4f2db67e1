// Package core holds the domain model of the betting ledger: accounts,
// entries with their legs, wager results, and the shared error taxonomy.
package core

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"betledger/internal/dates"
)

// Result is the settled outcome of an entry.
type Result string

const (
	ResultWin      Result = "WIN"
	ResultLoss     Result = "LOSS"
	ResultHalfWin  Result = "HALF_WIN"
	ResultHalfLoss Result = "HALF_LOSS"
	ResultCashOut  Result = "CASHOUT"
	ResultVoid     Result = "VOID"
	ResultPending  Result = "PENDING"
)

// Valid reports whether r is one of the known results.
func (r Result) Valid() bool {
	switch r {
	case ResultWin, ResultLoss, ResultHalfWin, ResultHalfLoss, ResultCashOut, ResultVoid, ResultPending:
		return true
	}
	return false
}

// Decided reports whether r counts toward win-rate and streaks. Only
// outright wins and losses are decided; half results, cash-outs, voids and
// pending entries are excluded from both sides of the rate.
func (r Result) Decided() bool {
	return r == ResultWin || r == ResultLoss
}

// Timing tells whether a leg was placed before the event or in play.
type Timing string

const (
	TimingPre  Timing = "PRE"
	TimingLive Timing = "LIVE"
)

// Valid reports whether t is a known timing.
func (t Timing) Valid() bool {
	return t == TimingPre || t == TimingLive
}

type (
	// Account is a bankroll ledger. The balance invariant maintained by the
	// ledger service is Balance == InitialBalance + sum of owned entry profits.
	Account struct {
		ID             string          `json:"id"`
		Name           string          `json:"name"`
		Balance        decimal.Decimal `json:"balance"`
		InitialBalance decimal.Decimal `json:"initial_balance"`
	}

	// Leg is one constituent selection of an entry. Single wagers have
	// exactly one leg; combined wagers carry one leg per selection.
	Leg struct {
		EventDate dates.Date `json:"event_date"`
		Modality  string     `json:"modality"`
		Event     string     `json:"event"`
		Market    string     `json:"market"`
		Selection string     `json:"selection"`
		Timing    Timing     `json:"timing"`
	}

	// Entry is a single wager record. Odd is the combined odd across legs,
	// Stake the total amount risked. Profit is an input fact set by the
	// caller when the entry is created or edited; the ledger never
	// recomputes it from the other fields.
	Entry struct {
		ID          string          `json:"id"`
		AccountID   string          `json:"account_id"`
		CreatedDate dates.Date      `json:"created_date"`
		Legs        []Leg           `json:"legs"`
		Odd         decimal.Decimal `json:"odd"`
		Stake       decimal.Decimal `json:"stake"`
		Result      Result          `json:"result"`
		Profit      decimal.Decimal `json:"profit"`
		Site        string          `json:"site"`
		CreatedAt   time.Time       `json:"created_at"`
	}
)

// Validate checks the basic shape of an entry before it is accepted by the
// ledger: a created date, at least one leg with a dated event, a known
// result, an odd of at least 1 and a non-negative stake.
func (e *Entry) Validate() error {
	if e.CreatedDate.IsZero() {
		return NewValidationError("created_date", "missing")
	}
	if len(e.Legs) == 0 {
		return NewValidationError("legs", "entry has no legs")
	}
	for i, leg := range e.Legs {
		if leg.EventDate.IsZero() {
			return NewValidationError("event_date", "missing on leg "+strconv.Itoa(i+1))
		}
		if leg.Timing != "" && !leg.Timing.Valid() {
			return NewValidationError("timing", "unknown timing "+string(leg.Timing))
		}
	}
	if !e.Result.Valid() {
		return NewValidationError("result", "unknown result "+string(e.Result))
	}
	if e.Odd.LessThan(decimal.NewFromInt(1)) {
		return NewValidationError("odd", "must be at least 1")
	}
	if e.Stake.IsNegative() {
		return NewValidationError("stake", "must not be negative")
	}
	return nil
}

// EventDate returns the event date of the first leg, the date used to order
// entries chronologically for streaks.
func (e *Entry) EventDate() dates.Date {
	if len(e.Legs) == 0 {
		return dates.Date{}
	}
	return e.Legs[0].EventDate
}

// Clone returns a deep copy of the entry.
func (e Entry) Clone() Entry {
	c := e
	c.Legs = make([]Leg, len(e.Legs))
	copy(c.Legs, e.Legs)
	return c
}
