// Package csvio reads and writes the delimited text format used for bulk
// entry import and export. Import is tolerant: malformed rows are collected
// into a rejection report and never abort the run.
package csvio

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"betledger/internal/core"
	"betledger/internal/dates"
)

// Fixed positional columns of the import/export format. Timing and site are
// optional on import.
const (
	colCreatedDate = iota
	colModality
	colEventDate
	colEvent
	colMarket
	colSelection
	colOdd
	colStake
	colResult
	colProfit
	colTiming
	colSite

	minColumns = colProfit + 1
)

// RejectedRow records why a row was not imported. Row numbers are 1-based
// and count every physical record, the header included.
type RejectedRow struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportResult is the outcome of a bulk import parse.
type ImportResult struct {
	Accepted []core.Entry  `json:"accepted"`
	Rejected []RejectedRow `json:"rejected"`
}

// Import parses delimited text into entries. Quoted fields may contain
// commas, embedded newlines and doubled-quote escapes. A row is accepted
// only when it has enough columns and every typed field parses; anything
// else lands in the rejection list and parsing continues. A leading header
// row is skipped silently.
func Import(r io.Reader) (ImportResult, error) {
	reader := csv.NewReader(skipBOM(r))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var result ImportResult
	row := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		row++
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				result.Rejected = append(result.Rejected, RejectedRow{
					Row:    row,
					Reason: fmt.Sprintf("malformed record: %v", perr.Err),
				})
				continue
			}
			return result, fmt.Errorf("read csv: %w", err)
		}

		if row == 1 && isHeader(record) {
			row = 0 // data rows start counting at 1
			continue
		}

		entry, err := parseRow(record)
		if err != nil {
			result.Rejected = append(result.Rejected, RejectedRow{Row: row, Reason: err.Error()})
			continue
		}
		result.Accepted = append(result.Accepted, entry)
	}
	return result, nil
}

func parseRow(record []string) (core.Entry, error) {
	if len(record) < minColumns {
		return core.Entry{}, fmt.Errorf("%d column(s), want at least %d", len(record), minColumns)
	}

	createdDate, err := dates.Normalize(record[colCreatedDate])
	if err != nil {
		return core.Entry{}, fmt.Errorf("invalid date: %s", record[colCreatedDate])
	}

	timing := ""
	if len(record) > colTiming {
		timing = strings.TrimSpace(record[colTiming])
	}
	legs, err := core.DecodeLegs(core.LegFields{
		EventDate: strings.TrimSpace(record[colEventDate]),
		Modality:  strings.TrimSpace(record[colModality]),
		Event:     strings.TrimSpace(record[colEvent]),
		Market:    strings.TrimSpace(record[colMarket]),
		Selection: strings.TrimSpace(record[colSelection]),
		Timing:    timing,
	})
	if err != nil {
		return core.Entry{}, err
	}

	odd, err := core.ParseMoney(record[colOdd])
	if err != nil {
		return core.Entry{}, fmt.Errorf("invalid odd: %s", record[colOdd])
	}
	stake, err := core.ParseMoney(record[colStake])
	if err != nil {
		return core.Entry{}, fmt.Errorf("invalid stake: %s", record[colStake])
	}
	profit, err := core.ParseMoney(record[colProfit])
	if err != nil {
		return core.Entry{}, fmt.Errorf("invalid profit: %s", record[colProfit])
	}
	res, err := ParseResultCode(record[colResult])
	if err != nil {
		return core.Entry{}, err
	}

	site := ""
	if len(record) > colSite {
		site = strings.TrimSpace(record[colSite])
	}

	entry := core.Entry{
		CreatedDate: createdDate,
		Legs:        legs,
		Odd:         odd,
		Stake:       stake,
		Result:      res,
		Profit:      profit,
		Site:        site,
	}
	if err := entry.Validate(); err != nil {
		return core.Entry{}, err
	}
	return entry, nil
}

// isHeader detects the export header so round-tripped files import cleanly.
func isHeader(record []string) bool {
	return len(record) > 0 && strings.EqualFold(strings.TrimSpace(record[0]), Header[0])
}

// skipBOM drops a UTF-8 byte-order marker if the stream starts with one.
func skipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	head, err := br.Peek(3)
	if err == nil && head[0] == 0xEF && head[1] == 0xBB && head[2] == 0xBF {
		br.Discard(3)
	}
	return br
}
