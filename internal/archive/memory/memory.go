// Package memory provides an in-process archive destination for tests and
// local development.
package memory

import (
	"context"
	"fmt"
	"sync"

	"betledger/internal/archive"
	"betledger/internal/core"
)

// Appender records appended entries in memory.
type Appender struct {
	mu      sync.Mutex
	entries []core.Entry
}

var (
	_ archive.Appender = (*Appender)(nil)
	_ archive.Remover  = (*Appender)(nil)
)

// New returns an empty in-memory appender.
func New() *Appender {
	return &Appender{}
}

// Append records the entry and returns a synthetic row reference.
func (a *Appender) Append(ctx context.Context, entry core.Entry) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, entry.Clone())
	return fmt.Sprintf("memory:%d", len(a.entries)), nil
}

// Remove drops every recorded row for the entry id.
func (a *Appender) Remove(ctx context.Context, entryID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	kept := a.entries[:0]
	for _, e := range a.entries {
		if e.ID != entryID {
			kept = append(kept, e)
		}
	}
	a.entries = kept
	return nil
}

// Entries returns a copy of the recorded entries.
func (a *Appender) Entries() []core.Entry {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]core.Entry, len(a.entries))
	for i, e := range a.entries {
		out[i] = e.Clone()
	}
	return out
}
