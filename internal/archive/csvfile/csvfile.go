// Package csvfile archives entries by appending rows to a local delimited
// file in the export format, with the entry id prepended. A fresh file gets
// the byte-order marker and header first.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"betledger/internal/archive"
	"betledger/internal/core"
	"betledger/internal/csvio"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Appender appends entry rows to one file, serializing writers.
type Appender struct {
	mu   sync.Mutex
	path string
}

var _ archive.Appender = (*Appender)(nil)

// New returns an appender for the given file path.
func New(path string) (*Appender, error) {
	if path == "" {
		return nil, fmt.Errorf("missing archive file path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create archive directory: %w", err)
	}
	return &Appender{path: path}, nil
}

// Append writes the entry as one row and returns the file path as the
// destination reference.
func (a *Appender) Append(ctx context.Context, entry core.Entry) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	f, err := os.OpenFile(a.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return "", fmt.Errorf("open archive file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("stat archive file: %w", err)
	}

	cw := csv.NewWriter(f)
	if info.Size() == 0 {
		if _, err := f.Write(utf8BOM); err != nil {
			return "", fmt.Errorf("write byte-order marker: %w", err)
		}
		header := append([]string{"entry_id"}, csvio.Header...)
		if err := cw.Write(header); err != nil {
			return "", fmt.Errorf("write header: %w", err)
		}
	}

	row := append([]string{entry.ID}, csvio.EncodeRow(entry)...)
	if err := cw.Write(row); err != nil {
		return "", fmt.Errorf("write row: %w", err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", fmt.Errorf("flush archive row: %w", err)
	}
	return a.path, nil
}
