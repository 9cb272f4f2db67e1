// Package storage defines the persistence collaborator contract for the
// ledger. Any store honoring it is acceptable; the repo ships a SQLite
// implementation for durability and an in-memory one for tests and
// ephemeral runs.
package storage

import (
	"context"

	"github.com/shopspring/decimal"

	"betledger/internal/core"
)

// MaxPageSize is the largest page ListEntries may return. Callers iterate
// by offset until a short page comes back.
const MaxPageSize = 1000

// AccountFields is a partial account update; nil fields are left untouched.
type AccountFields struct {
	Name           *string
	Balance        *decimal.Decimal
	InitialBalance *decimal.Decimal
}

// Store is the persistence collaborator. Implementations generate ids on
// insert, return deep copies the caller may mutate freely, and report
// unknown ids as *core.NotFoundError. Deleting an account cascades to its
// entries.
type Store interface {
	ListAccounts(ctx context.Context) ([]core.Account, error)
	InsertAccount(ctx context.Context, name string, initialBalance decimal.Decimal) (core.Account, error)
	UpdateAccount(ctx context.Context, id string, fields AccountFields) error
	DeleteAccount(ctx context.Context, id string) error

	ListEntries(ctx context.Context, offset, limit int) ([]core.Entry, error)
	GetEntry(ctx context.Context, id string) (core.Entry, error)
	InsertEntries(ctx context.Context, accountID string, entries []core.Entry) ([]core.Entry, error)
	UpdateEntry(ctx context.Context, id string, entry core.Entry) error
	DeleteEntry(ctx context.Context, id string) error

	Close() error
}
