// Package archive defines the outbound ports for entry archiving. The
// worker drains the queue and pushes entries through an Appender; the
// ledger itself never blocks on these.
package archive

import (
	"context"

	"betledger/internal/core"
)

// Appender writes one entry to the archive destination.
type Appender interface {
	// Append records the entry and returns a destination reference for
	// logging (a sheet range, a file path).
	Append(ctx context.Context, entry core.Entry) (ref string, err error)
}

// Remover is optionally implemented by destinations that can drop an
// archived entry after it is deleted from the ledger.
type Remover interface {
	Remove(ctx context.Context, entryID string) error
}
