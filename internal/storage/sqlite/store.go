// Package sqlite implements storage.Store on a local SQLite database.
// Dates are stored in their canonical textual form, decimals as TEXT, and
// multi-leg fields pipe-joined for compatibility with the import format.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"betledger/internal/core"
	"betledger/internal/csvio"
	"betledger/internal/dates"
	"betledger/internal/storage"
)

// Store is the SQLite-backed persistence collaborator.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at dbPath, runs migrations
// and returns a ready store.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) ListAccounts(ctx context.Context) ([]core.Account, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, balance, initial_balance FROM accounts ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []core.Account
	for rows.Next() {
		var account core.Account
		var balance, initial string
		if err := rows.Scan(&account.ID, &account.Name, &balance, &initial); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		if account.Balance, err = decimal.NewFromString(balance); err != nil {
			return nil, fmt.Errorf("decode balance of account %s: %w", account.ID, err)
		}
		if account.InitialBalance, err = decimal.NewFromString(initial); err != nil {
			return nil, fmt.Errorf("decode initial balance of account %s: %w", account.ID, err)
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

func (s *Store) InsertAccount(ctx context.Context, name string, initialBalance decimal.Decimal) (core.Account, error) {
	account := core.Account{
		ID:             uuid.NewString(),
		Name:           name,
		Balance:        initialBalance,
		InitialBalance: initialBalance,
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO accounts (id, name, balance, initial_balance) VALUES (?, ?, ?, ?)`,
		account.ID, account.Name, account.Balance.String(), account.InitialBalance.String())
	if err != nil {
		return core.Account{}, fmt.Errorf("insert account: %w", err)
	}
	return account, nil
}

func (s *Store) UpdateAccount(ctx context.Context, id string, fields storage.AccountFields) error {
	var sets []string
	var args []any
	if fields.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *fields.Name)
	}
	if fields.Balance != nil {
		sets = append(sets, "balance = ?")
		args = append(args, fields.Balance.String())
	}
	if fields.InitialBalance != nil {
		sets = append(sets, "initial_balance = ?")
		args = append(args, fields.InitialBalance.String())
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)

	res, err := s.db.ExecContext(ctx,
		"UPDATE accounts SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	return requireRow(res, "account", id)
}

func (s *Store) DeleteAccount(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return requireRow(res, "account", id)
}

const entryColumns = `id, account_id, created_date, event_date, modality, event,
	market, selection, odd, stake, result, profit, timing, site, created_at`

func (s *Store) ListEntries(ctx context.Context, offset, limit int) ([]core.Entry, error) {
	if limit <= 0 || limit > storage.MaxPageSize {
		limit = storage.MaxPageSize
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM entries ORDER BY created_at, id LIMIT ? OFFSET ?`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []core.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (s *Store) GetEntry(ctx context.Context, id string) (core.Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM entries WHERE id = ?`, id)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Entry{}, &core.NotFoundError{Kind: "entry", ID: id}
	}
	return entry, err
}

func (s *Store) InsertEntries(ctx context.Context, accountID string, entries []core.Entry) ([]core.Entry, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin insert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO entries
		(id, account_id, created_date, event_date, modality, event, market, selection,
		 odd, stake, result, profit, timing, site, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	persisted := make([]core.Entry, 0, len(entries))
	for _, entry := range entries {
		stored := entry.Clone()
		stored.ID = uuid.NewString()
		stored.AccountID = accountID
		if stored.CreatedAt.IsZero() {
			stored.CreatedAt = time.Now().UTC()
		}
		fields := core.EncodeLegs(stored.Legs)
		_, err := stmt.ExecContext(ctx,
			stored.ID, stored.AccountID, stored.CreatedDate.String(),
			fields.EventDate, fields.Modality, fields.Event, fields.Market, fields.Selection,
			stored.Odd.String(), stored.Stake.String(), string(stored.Result),
			stored.Profit.String(), fields.Timing, stored.Site, stored.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("insert entry: %w", err)
		}
		persisted = append(persisted, stored)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit insert: %w", err)
	}
	return persisted, nil
}

func (s *Store) UpdateEntry(ctx context.Context, id string, entry core.Entry) error {
	fields := core.EncodeLegs(entry.Legs)
	res, err := s.db.ExecContext(ctx, `UPDATE entries SET
		created_date = ?, event_date = ?, modality = ?, event = ?, market = ?,
		selection = ?, odd = ?, stake = ?, result = ?, profit = ?, timing = ?, site = ?
		WHERE id = ?`,
		entry.CreatedDate.String(), fields.EventDate, fields.Modality, fields.Event,
		fields.Market, fields.Selection, entry.Odd.String(), entry.Stake.String(),
		string(entry.Result), entry.Profit.String(), fields.Timing, entry.Site, id)
	if err != nil {
		return fmt.Errorf("update entry: %w", err)
	}
	return requireRow(res, "entry", id)
}

func (s *Store) DeleteEntry(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	return requireRow(res, "entry", id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (core.Entry, error) {
	var entry core.Entry
	var createdDate, odd, stake, result, profit string
	var fields core.LegFields

	err := row.Scan(&entry.ID, &entry.AccountID, &createdDate,
		&fields.EventDate, &fields.Modality, &fields.Event, &fields.Market, &fields.Selection,
		&odd, &stake, &result, &profit, &fields.Timing, &entry.Site, &entry.CreatedAt)
	if err != nil {
		return core.Entry{}, err
	}

	if entry.CreatedDate, err = dates.Normalize(createdDate); err != nil {
		return core.Entry{}, fmt.Errorf("decode created date of entry %s: %w", entry.ID, err)
	}
	if entry.Legs, err = core.DecodeLegs(fields); err != nil {
		return core.Entry{}, fmt.Errorf("decode legs of entry %s: %w", entry.ID, err)
	}
	if entry.Odd, err = decimal.NewFromString(odd); err != nil {
		return core.Entry{}, fmt.Errorf("decode odd of entry %s: %w", entry.ID, err)
	}
	if entry.Stake, err = decimal.NewFromString(stake); err != nil {
		return core.Entry{}, fmt.Errorf("decode stake of entry %s: %w", entry.ID, err)
	}
	if entry.Profit, err = decimal.NewFromString(profit); err != nil {
		return core.Entry{}, fmt.Errorf("decode profit of entry %s: %w", entry.ID, err)
	}
	entry.Result = core.Result(result)
	if !entry.Result.Valid() {
		res, err := csvio.ParseResultCode(result)
		if err != nil {
			return core.Entry{}, fmt.Errorf("decode result of entry %s: %w", entry.ID, err)
		}
		entry.Result = res
	}
	return entry, nil
}

func requireRow(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return &core.NotFoundError{Kind: kind, ID: id}
	}
	return nil
}

var _ storage.Store = (*Store)(nil)
