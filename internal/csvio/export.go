package csvio

import (
	"encoding/csv"
	"fmt"
	"io"

	"betledger/internal/core"
)

// Header is the export header row, matching the fixed positional column
// order of the import format.
var Header = []string{
	"created_date", "modality", "event_date", "event", "market", "selection",
	"odd", "stake", "result", "profit", "timing", "site",
}

// utf8BOM lets spreadsheet tools infer the encoding of downloaded files.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Export serializes entries to delimited text with a header row and a
// byte-order marker. Filtering and ordering are the caller's job; rows are
// written exactly in the order given.
func Export(w io.Writer, entries []core.Entry) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("write byte-order marker: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, entry := range entries {
		if err := cw.Write(EncodeRow(entry)); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// EncodeRow renders one entry as a record in the fixed column order.
func EncodeRow(entry core.Entry) []string {
	fields := core.EncodeLegs(entry.Legs)
	return []string{
		entry.CreatedDate.String(),
		fields.Modality,
		fields.EventDate,
		fields.Event,
		fields.Market,
		fields.Selection,
		entry.Odd.String(),
		entry.Stake.String(),
		string(entry.Result),
		entry.Profit.String(),
		fields.Timing,
		entry.Site,
	}
}
