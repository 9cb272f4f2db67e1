// Package worker drains the archive queue: each message carries an entry
// id, the worker fetches the current entry from storage and appends it to
// the archive destination.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"betledger/internal/amqp"
	"betledger/internal/archive"
	"betledger/internal/core"
	"betledger/internal/storage"
)

// ArchiveWorker mirrors ledger entries into the archive destination.
type ArchiveWorker struct {
	store    storage.Store
	appender archive.Appender
}

// NewArchiveWorker builds a worker over the given collaborators.
func NewArchiveWorker(store storage.Store, appender archive.Appender) *ArchiveWorker {
	return &ArchiveWorker{store: store, appender: appender}
}

// HandleMessage dispatches one queue message by kind.
func (w *ArchiveWorker) HandleMessage(ctx context.Context, msg *amqp.EntryMessage) error {
	switch msg.Kind {
	case amqp.KindEntrySync:
		return w.handleSync(ctx, msg.EntryID)
	case amqp.KindEntryDelete:
		return w.handleDelete(ctx, msg.EntryID)
	default:
		return fmt.Errorf("unknown message kind %q", msg.Kind)
	}
}

// handleSync fetches the current entry state and appends it. An entry
// deleted between publish and consumption is skipped, not an error.
func (w *ArchiveWorker) handleSync(ctx context.Context, entryID string) error {
	entry, err := w.store.GetEntry(ctx, entryID)
	if err != nil {
		var nf *core.NotFoundError
		if errors.As(err, &nf) {
			slog.InfoContext(ctx, "Entry gone before archiving, skipping", "entry_id", entryID)
			return nil
		}
		return fmt.Errorf("get entry from storage: %w", err)
	}

	ref, err := w.appender.Append(ctx, entry)
	if err != nil {
		return fmt.Errorf("append to archive: %w", err)
	}

	slog.InfoContext(ctx, "Archived entry",
		"entry_id", entryID,
		"account_id", entry.AccountID,
		"result", string(entry.Result),
		"archive_ref", ref)
	return nil
}

// handleDelete drops the archived row when the destination supports it.
func (w *ArchiveWorker) handleDelete(ctx context.Context, entryID string) error {
	remover, ok := w.appender.(archive.Remover)
	if !ok {
		slog.WarnContext(ctx, "Archive destination cannot remove rows, skipping",
			"entry_id", entryID)
		return nil
	}

	if err := remover.Remove(ctx, entryID); err != nil {
		return fmt.Errorf("remove from archive: %w", err)
	}

	slog.InfoContext(ctx, "Removed archived entry", "entry_id", entryID)
	return nil
}
