// Package backend creates the configured persistence collaborator.
package backend

import (
	"fmt"
	"log/slog"

	"betledger/internal/storage"
	"betledger/internal/storage/memory"
	"betledger/internal/storage/sqlite"
)

// Type names the available storage backends.
type Type string

const (
	SQLite Type = "sqlite"
	Memory Type = "memory"
)

// IsValid reports whether t names a known backend.
func (t Type) IsValid() bool {
	return t == SQLite || t == Memory
}

// Config parameterizes backend creation.
type Config struct {
	Type       Type
	SQLitePath string
}

// Open creates the configured store.
func Open(cfg Config, logger *slog.Logger) (storage.Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Type {
	case SQLite:
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite backend: %w", err)
		}
		logger.Info("Initialized SQLite backend", "db_path", cfg.SQLitePath)
		return store, nil
	case Memory:
		logger.Info("Initialized memory backend")
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Type)
	}
}
