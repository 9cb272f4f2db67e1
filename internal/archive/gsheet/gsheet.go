// Package gsheet archives entries by appending rows to a Google
// spreadsheet, one row per entry in the export column order with the entry
// id prepended for later lookup.
package gsheet

import (
	"context"
	"errors"
	"fmt"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"betledger/internal/archive"
	"betledger/internal/core"
	"betledger/internal/csvio"
)

// Client appends entry rows to one sheet of one spreadsheet.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
	sheetID       int64
	sheetIDKnown  bool
}

var (
	_ archive.Appender = (*Client)(nil)
	_ archive.Remover  = (*Client)(nil)
)

// New builds a client authenticated with a service account credentials
// file.
func New(ctx context.Context, spreadsheetID, sheetName, credFile string) (*Client, error) {
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if sheetName == "" {
		return nil, errors.New("missing sheet name")
	}

	svc, err := gsheet.NewService(ctx, goption.WithCredentialsFile(credFile))
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// Append adds the entry as a new row and returns the updated range.
func (c *Client) Append(ctx context.Context, entry core.Entry) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	row := make([]any, 0, len(csvio.Header)+1)
	row = append(row, entry.ID)
	for _, field := range csvio.EncodeRow(entry) {
		row = append(row, field)
	}

	rng := fmt.Sprintf("%s!A:M", c.sheetName)
	vr := &gsheet.ValueRange{Values: [][]any{row}}

	resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append to sheet %s: %w", c.sheetName, err)
	}

	if resp.Updates != nil && resp.Updates.UpdatedRange != "" {
		return resp.Updates.UpdatedRange, nil
	}
	return rng, nil
}

// Remove deletes every row whose first cell matches the entry id. Missing
// ids are not an error; the entry may never have been archived.
func (c *Client) Remove(ctx context.Context, entryID string) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	if entryID == "" {
		return errors.New("missing entry id")
	}

	rng := fmt.Sprintf("%s!A:A", c.sheetName)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read %s: %w", rng, err)
	}

	var rows []int
	for i, row := range resp.Values {
		if len(row) > 0 && fmt.Sprint(row[0]) == entryID {
			rows = append(rows, i)
		}
	}
	if len(rows) == 0 {
		return nil
	}

	sheetID, err := c.resolveSheetID(ctx)
	if err != nil {
		return err
	}

	// Delete bottom-up so earlier indices stay valid.
	reqs := make([]*gsheet.Request, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		reqs = append(reqs, &gsheet.Request{
			DeleteDimension: &gsheet.DeleteDimensionRequest{
				Range: &gsheet.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(rows[i]),
					EndIndex:   int64(rows[i]) + 1,
				},
			},
		})
	}

	_, err = c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: reqs,
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("delete rows from sheet %s: %w", c.sheetName, err)
	}
	return nil
}

func (c *Client) resolveSheetID(ctx context.Context) (int64, error) {
	if c.sheetIDKnown {
		return c.sheetID, nil
	}
	meta, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("read spreadsheet metadata: %w", err)
	}
	for _, sh := range meta.Sheets {
		if sh.Properties != nil && sh.Properties.Title == c.sheetName {
			c.sheetID = sh.Properties.SheetId
			c.sheetIDKnown = true
			return c.sheetID, nil
		}
	}
	return 0, fmt.Errorf("sheet %q not found in spreadsheet", c.sheetName)
}
