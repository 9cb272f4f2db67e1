// Package ledger owns account and entry state, applies mutations through
// the persistence collaborator, and maintains the balance invariant:
// balance == initial balance + sum of owned entry profits.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"betledger/internal/core"
	"betledger/internal/prefs"
	"betledger/internal/selection"
	"betledger/internal/storage"
)

// chunkSize bounds bulk inserts so a single store call stays within the
// collaborator's limits. Each chunk is confirmed before the next is sent.
const chunkSize = 200

// Publisher receives best-effort notifications after successful mutations.
// A nil publisher disables them.
type Publisher interface {
	PublishEntrySync(ctx context.Context, id string) error
	PublishEntryDelete(ctx context.Context, id string) error
}

// Service is the ledger store. It is safe for concurrent readers; mutations
// are serialized by the write lock.
type Service struct {
	mu    sync.RWMutex
	store storage.Store
	prefs *prefs.Store
	pub   Publisher

	accounts map[string]core.Account
	entries  map[string]core.Entry
	sel      *selection.Selection
}

// New builds a service over the given collaborators. prefsStore and pub may
// be nil.
func New(store storage.Store, prefsStore *prefs.Store, pub Publisher) *Service {
	return &Service{
		store:    store,
		prefs:    prefsStore,
		pub:      pub,
		accounts: make(map[string]core.Account),
		entries:  make(map[string]core.Entry),
		sel:      selection.NewOverview(),
	}
}

// Load hydrates in-memory state from the store and restores the saved
// selection. Entries are paged because a single page is capped.
func (s *Service) Load(ctx context.Context) error {
	accounts, err := s.store.ListAccounts(ctx)
	if err != nil {
		return fmt.Errorf("load accounts: %w", err)
	}

	entries := make(map[string]core.Entry)
	offset := 0
	for {
		page, err := s.store.ListEntries(ctx, offset, storage.MaxPageSize)
		if err != nil {
			return fmt.Errorf("load entries at offset %d: %w", offset, err)
		}
		for _, e := range page {
			entries[e.ID] = e
		}
		if len(page) < storage.MaxPageSize {
			break
		}
		offset += len(page)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.accounts = make(map[string]core.Account, len(accounts))
	ids := make([]string, 0, len(accounts))
	for _, a := range accounts {
		s.accounts[a.ID] = a
		ids = append(ids, a.ID)
	}
	s.entries = entries

	if s.prefs != nil {
		s.sel = prefs.Restore(s.prefs.Load(), ids)
	} else {
		s.sel = selection.NewOverview()
	}

	slog.InfoContext(ctx, "Ledger loaded",
		"accounts", len(accounts), "entries", len(entries), "selection", s.sel.Mode())
	return nil
}

// AddEntries validates and persists entries against one target account,
// then applies the summed profit delta to the account balance. Entries are
// written in bounded chunks; a chunk failure leaves earlier chunks durably
// committed and reports how many entries succeeded. In-memory state changes
// only after every persistence call has succeeded.
func (s *Service) AddEntries(ctx context.Context, accountID string, entries []core.Entry) ([]core.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	target, err := s.resolveTarget(accountID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	for i, entry := range entries {
		if err := entry.Validate(); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
	}

	var persisted []core.Entry
	for start := 0; start < len(entries); start += chunkSize {
		end := start + chunkSize
		if end > len(entries) {
			end = len(entries)
		}
		chunk, err := s.store.InsertEntries(ctx, target.ID, entries[start:end])
		if err != nil {
			// Committed chunks stay committed; there is no rollback.
			return nil, &core.PersistenceError{
				Op:        "insert entries",
				Succeeded: len(persisted),
				Err:       err,
			}
		}
		persisted = append(persisted, chunk...)
	}

	delta := decimal.Zero
	for _, e := range persisted {
		delta = delta.Add(e.Profit)
	}
	newBalance := target.Balance.Add(delta)
	if err := s.store.UpdateAccount(ctx, target.ID, storage.AccountFields{Balance: &newBalance}); err != nil {
		return nil, &core.PersistenceError{
			Op:        "apply balance delta",
			Succeeded: len(persisted),
			Err:       err,
		}
	}

	for _, e := range persisted {
		s.entries[e.ID] = e
	}
	target.Balance = newBalance
	s.accounts[target.ID] = target

	slog.InfoContext(ctx, "Entries added",
		"account_id", target.ID, "count", len(persisted), "balance_delta", delta.String())
	s.publishSync(ctx, persisted)
	return cloneAll(persisted), nil
}

// UpdateEntry replaces an entry and moves the owning account's balance by
// the profit difference. Both writes must succeed before in-memory state
// changes.
func (s *Service) UpdateEntry(ctx context.Context, entry core.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.entries[entry.ID]
	if !ok {
		return &core.NotFoundError{Kind: "entry", ID: entry.ID}
	}
	if err := entry.Validate(); err != nil {
		return err
	}
	account, ok := s.accounts[old.AccountID]
	if !ok {
		return &core.NotFoundError{Kind: "account", ID: old.AccountID}
	}

	if err := s.store.UpdateEntry(ctx, entry.ID, entry); err != nil {
		return fmt.Errorf("persist entry update: %w", err)
	}

	delta := entry.Profit.Sub(old.Profit)
	newBalance := account.Balance.Add(delta)
	if err := s.store.UpdateAccount(ctx, account.ID, storage.AccountFields{Balance: &newBalance}); err != nil {
		return &core.PersistenceError{Op: "apply balance delta", Succeeded: 1, Err: err}
	}

	stored := entry.Clone()
	stored.AccountID = old.AccountID
	stored.CreatedAt = old.CreatedAt
	s.entries[entry.ID] = stored
	account.Balance = newBalance
	s.accounts[account.ID] = account

	slog.InfoContext(ctx, "Entry updated", "entry_id", entry.ID, "profit_delta", delta.String())
	s.publishSync(ctx, []core.Entry{stored})
	return nil
}

// DeleteEntry removes an entry and takes its profit back out of the owning
// account's balance, symmetric to creation.
func (s *Service) DeleteEntry(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if !ok {
		return &core.NotFoundError{Kind: "entry", ID: id}
	}
	account, ok := s.accounts[entry.AccountID]
	if !ok {
		return &core.NotFoundError{Kind: "account", ID: entry.AccountID}
	}

	if err := s.store.DeleteEntry(ctx, id); err != nil {
		return fmt.Errorf("persist entry deletion: %w", err)
	}

	newBalance := account.Balance.Sub(entry.Profit)
	if err := s.store.UpdateAccount(ctx, account.ID, storage.AccountFields{Balance: &newBalance}); err != nil {
		return &core.PersistenceError{Op: "apply balance delta", Succeeded: 1, Err: err}
	}

	delete(s.entries, id)
	account.Balance = newBalance
	s.accounts[account.ID] = account

	slog.InfoContext(ctx, "Entry deleted", "entry_id", id)
	if s.pub != nil {
		if err := s.pub.PublishEntryDelete(ctx, id); err != nil {
			slog.WarnContext(ctx, "Failed to publish delete message", "entry_id", id, "error", err)
		}
	}
	return nil
}

// AddAccount creates an account whose balance starts at its initial
// balance.
func (s *Service) AddAccount(ctx context.Context, name string, initialBalance decimal.Decimal) (core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, err := s.store.InsertAccount(ctx, name, initialBalance)
	if err != nil {
		return core.Account{}, fmt.Errorf("persist account: %w", err)
	}
	s.accounts[account.ID] = account

	slog.InfoContext(ctx, "Account added", "account_id", account.ID, "name", name)
	return account, nil
}

// EditAccount replaces an account's name and balances.
func (s *Service) EditAccount(ctx context.Context, id, name string, balance, initialBalance decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[id]
	if !ok {
		return &core.NotFoundError{Kind: "account", ID: id}
	}

	fields := storage.AccountFields{Name: &name, Balance: &balance, InitialBalance: &initialBalance}
	if err := s.store.UpdateAccount(ctx, id, fields); err != nil {
		return fmt.Errorf("persist account update: %w", err)
	}

	account.Name = name
	account.Balance = balance
	account.InitialBalance = initialBalance
	s.accounts[id] = account
	return nil
}

// DeleteAccount removes an account and all its entries. The store cascades
// the entry deletion on its side.
func (s *Service) DeleteAccount(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[id]; !ok {
		return &core.NotFoundError{Kind: "account", ID: id}
	}

	if err := s.store.DeleteAccount(ctx, id); err != nil {
		return fmt.Errorf("persist account deletion: %w", err)
	}

	delete(s.accounts, id)
	for entryID, entry := range s.entries {
		if entry.AccountID == id {
			delete(s.entries, entryID)
		}
	}
	s.sel.AccountDeleted(id)
	s.saveSelection(ctx)

	slog.InfoContext(ctx, "Account deleted", "account_id", id)
	return nil
}

// Accounts returns all accounts, sorted by name then id.
func (s *Service) Accounts() []core.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]core.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Account returns one account by id.
func (s *Service) Account(id string) (core.Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accounts[id]
	return a, ok
}

// EntriesForSelection returns a snapshot of the entries owned by the active
// selection, ordered by created date then creation time. Aggregations run
// over this snapshot, never over the live collection.
func (s *Service) EntriesForSelection() []core.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]core.Entry, 0, len(s.entries))
	for _, e := range s.entries {
		if s.sel.Contains(e.AccountID) {
			out = append(out, e.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].CreatedDate.Compare(out[j].CreatedDate); c != 0 {
			return c < 0
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// TotalBalance sums the balances of the selected accounts.
func (s *Service) TotalBalance() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := decimal.Zero
	for _, a := range s.accounts {
		if s.sel.Contains(a.ID) {
			total = total.Add(a.Balance)
		}
	}
	return total
}

// TotalInitialBalance sums the initial balances of the selected accounts.
func (s *Service) TotalInitialBalance() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := decimal.Zero
	for _, a := range s.accounts {
		if s.sel.Contains(a.ID) {
			total = total.Add(a.InitialBalance)
		}
	}
	return total
}

// EnterOverview activates every account.
func (s *Service) EnterOverview(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sel.EnterOverview()
	s.saveSelection(ctx)
}

// SelectAccount activates exactly one account.
func (s *Service) SelectAccount(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[id]; !ok {
		return &core.NotFoundError{Kind: "account", ID: id}
	}
	s.sel.SelectSingle(id)
	s.saveSelection(ctx)
	return nil
}

// ToggleAccount adds or removes an account from the selection, preserving
// the never-empty guarantee.
func (s *Service) ToggleAccount(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sel.Toggle(id, s.accountIDsLocked())
	s.saveSelection(ctx)
}

// SelectionState reports the current mode and, in specific mode, the
// selected ids.
func (s *Service) SelectionState() (selection.Mode, []string) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.sel.Mode(), s.sel.SelectedIDs()
}

// resolveTarget picks the single account a mutation applies to: the given
// id when present, otherwise the selection if it targets exactly one
// account.
func (s *Service) resolveTarget(accountID string) (core.Account, error) {
	if accountID != "" {
		account, ok := s.accounts[accountID]
		if !ok {
			return core.Account{}, &core.NotFoundError{Kind: "account", ID: accountID}
		}
		return account, nil
	}

	active := s.sel.ActiveIDs(s.accountIDsLocked())
	if len(active) != 1 {
		return core.Account{}, &core.SelectionError{
			Reason: fmt.Sprintf("exactly one account must be targeted, %d active", len(active)),
		}
	}
	return s.accounts[active[0]], nil
}

func (s *Service) accountIDsLocked() []string {
	ids := make([]string, 0, len(s.accounts))
	for id := range s.accounts {
		ids = append(ids, id)
	}
	return ids
}

func (s *Service) saveSelection(ctx context.Context) {
	if s.prefs == nil {
		return
	}
	p := prefs.Preferences{ViewMode: s.sel.Mode(), SelectedAccountIDs: s.sel.SelectedIDs()}
	if err := s.prefs.Save(p); err != nil {
		slog.WarnContext(ctx, "Failed to save selection preferences", "error", err)
	}
}

// publishSync notifies the archive queue about persisted entries. Archive
// delivery is best effort and never fails the mutation.
func (s *Service) publishSync(ctx context.Context, entries []core.Entry) {
	if s.pub == nil {
		return
	}
	for _, e := range entries {
		if err := s.pub.PublishEntrySync(ctx, e.ID); err != nil {
			slog.WarnContext(ctx, "Failed to publish sync message", "entry_id", e.ID, "error", err)
		}
	}
}

func cloneAll(entries []core.Entry) []core.Entry {
	out := make([]core.Entry, len(entries))
	for i, e := range entries {
		out[i] = e.Clone()
	}
	return out
}
