// Package memory provides an in-memory implementation of storage.Store,
// used by tests and by ephemeral runs without a database file.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"betledger/internal/core"
	"betledger/internal/storage"
)

// Store keeps accounts and entries in mutex-guarded maps. Entry order is
// preserved so pagination is deterministic.
type Store struct {
	mu         sync.Mutex
	accounts   map[string]core.Account
	accountIDs []string // insertion order
	entries    map[string]core.Entry
	entryIDs   []string // insertion order
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{
		accounts: make(map[string]core.Account),
		entries:  make(map[string]core.Entry),
	}
}

func (s *Store) ListAccounts(ctx context.Context) ([]core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.Account, 0, len(s.accountIDs))
	for _, id := range s.accountIDs {
		out = append(out, s.accounts[id])
	}
	return out, nil
}

func (s *Store) InsertAccount(ctx context.Context, name string, initialBalance decimal.Decimal) (core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account := core.Account{
		ID:             uuid.NewString(),
		Name:           name,
		Balance:        initialBalance,
		InitialBalance: initialBalance,
	}
	s.accounts[account.ID] = account
	s.accountIDs = append(s.accountIDs, account.ID)
	return account, nil
}

func (s *Store) UpdateAccount(ctx context.Context, id string, fields storage.AccountFields) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[id]
	if !ok {
		return &core.NotFoundError{Kind: "account", ID: id}
	}
	if fields.Name != nil {
		account.Name = *fields.Name
	}
	if fields.Balance != nil {
		account.Balance = *fields.Balance
	}
	if fields.InitialBalance != nil {
		account.InitialBalance = *fields.InitialBalance
	}
	s.accounts[id] = account
	return nil
}

func (s *Store) DeleteAccount(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[id]; !ok {
		return &core.NotFoundError{Kind: "account", ID: id}
	}
	delete(s.accounts, id)
	s.accountIDs = remove(s.accountIDs, id)

	// Cascade to owned entries.
	kept := s.entryIDs[:0]
	for _, entryID := range s.entryIDs {
		if s.entries[entryID].AccountID == id {
			delete(s.entries, entryID)
			continue
		}
		kept = append(kept, entryID)
	}
	s.entryIDs = kept
	return nil
}

func (s *Store) ListEntries(ctx context.Context, offset, limit int) ([]core.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 || limit > storage.MaxPageSize {
		limit = storage.MaxPageSize
	}
	if offset < 0 || offset >= len(s.entryIDs) {
		return nil, nil
	}
	end := offset + limit
	if end > len(s.entryIDs) {
		end = len(s.entryIDs)
	}

	out := make([]core.Entry, 0, end-offset)
	for _, id := range s.entryIDs[offset:end] {
		out = append(out, s.entries[id].Clone())
	}
	return out, nil
}

func (s *Store) GetEntry(ctx context.Context, id string) (core.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if !ok {
		return core.Entry{}, &core.NotFoundError{Kind: "entry", ID: id}
	}
	return entry.Clone(), nil
}

func (s *Store) InsertEntries(ctx context.Context, accountID string, entries []core.Entry) ([]core.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[accountID]; !ok {
		return nil, &core.NotFoundError{Kind: "account", ID: accountID}
	}

	persisted := make([]core.Entry, 0, len(entries))
	for _, entry := range entries {
		stored := entry.Clone()
		stored.ID = uuid.NewString()
		stored.AccountID = accountID
		if stored.CreatedAt.IsZero() {
			stored.CreatedAt = time.Now().UTC()
		}
		s.entries[stored.ID] = stored
		s.entryIDs = append(s.entryIDs, stored.ID)
		persisted = append(persisted, stored.Clone())
	}
	return persisted, nil
}

func (s *Store) UpdateEntry(ctx context.Context, id string, entry core.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.entries[id]
	if !ok {
		return &core.NotFoundError{Kind: "entry", ID: id}
	}
	stored := entry.Clone()
	stored.ID = id
	stored.AccountID = existing.AccountID
	stored.CreatedAt = existing.CreatedAt
	s.entries[id] = stored
	return nil
}

func (s *Store) DeleteEntry(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[id]; !ok {
		return &core.NotFoundError{Kind: "entry", ID: id}
	}
	delete(s.entries, id)
	s.entryIDs = remove(s.entryIDs, id)
	return nil
}

func (s *Store) Close() error { return nil }

// SortedEntryIDs returns entry ids sorted for deterministic assertions.
func (s *Store) SortedEntryIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, len(s.entryIDs))
	copy(out, s.entryIDs)
	sort.Strings(out)
	return out
}

func remove(ids []string, id string) []string {
	for i, candidate := range ids {
		if candidate == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

var _ storage.Store = (*Store)(nil)
