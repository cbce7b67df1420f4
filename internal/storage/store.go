// Package storage persists the full ledger state in an embedded SQLite
// database with three tables: scalar settings, the record list, and the
// per-account type map. Every save rewrites all three tables inside one
// transaction; a failed save rolls back and leaves the previously
// durable state intact.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"ledgerbook/internal/core"

	_ "modernc.org/sqlite"
)

const (
	settingAccounts       = "accounts"
	settingCurrentAccount = "currentAccount"
	settingBackupPassword = "backupPassword"
)

type Store struct {
	db *sql.DB
}

func NewStore(dbPath string) (*Store, error) {
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

	if err := RunMigrations(dbPath); err != nil {
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

// Save durably writes the complete state as one logical unit. The
// three tables are cleared and rewritten on every call; there is no
// incremental diffing. Errors match core.ErrPersistence.
func (s *Store) Save(ctx context.Context, state *core.State) error {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := saveSettings(ctx, tx, state.Settings); err != nil {
			return err
		}
		if err := saveRecords(ctx, tx, state.Records); err != nil {
			return err
		}
		return saveTypes(ctx, tx, state.Types)
	})
	if err != nil {
		return fmt.Errorf("%w: save state: %v", core.ErrPersistence, err)
	}

	slog.DebugContext(ctx, "State saved",
		"component", "storage",
		"accounts", len(state.Settings.Accounts),
		"records", len(state.Records))
	return nil
}

// Load reconstructs the complete state, returning empty defaults when
// no prior state exists.
func (s *Store) Load(ctx context.Context) (*core.State, error) {
	state := core.NewState()

	if err := loadSettings(ctx, s.db, &state.Settings); err != nil {
		return nil, fmt.Errorf("%w: load settings: %v", core.ErrPersistence, err)
	}
	records, err := loadRecords(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("%w: load records: %v", core.ErrPersistence, err)
	}
	state.Records = records
	if err := loadTypes(ctx, s.db, state.Types); err != nil {
		return nil, fmt.Errorf("%w: load account types: %v", core.ErrPersistence, err)
	}

	return state, nil
}

// withTx runs fn inside a transaction, committing on success and
// rolling back on error or panic. Panics are rethrown.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	err = fn(tx)
	return err
}

func saveSettings(ctx context.Context, tx *sql.Tx, settings core.Settings) error {
	accounts, err := json.Marshal(settings.Accounts)
	if err != nil {
		return fmt.Errorf("marshal accounts: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM settings`); err != nil {
		return fmt.Errorf("clear settings: %w", err)
	}

	query := `INSERT INTO settings (key, value) VALUES (?, ?)`
	pairs := [][2]string{
		{settingAccounts, string(accounts)},
		{settingCurrentAccount, settings.CurrentAccount},
		{settingBackupPassword, settings.BackupPassword},
	}
	for _, p := range pairs {
		if _, err := tx.ExecContext(ctx, query, p[0], p[1]); err != nil {
			return fmt.Errorf("write setting %s: %w", p[0], err)
		}
	}
	return nil
}

func saveRecords(ctx context.Context, tx *sql.Tx, records []core.Record) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM records`); err != nil {
		return fmt.Errorf("clear records: %w", err)
	}
	// Reset the autoincrement counter so row ids mirror list positions.
	if _, err := tx.ExecContext(ctx, `DELETE FROM sqlite_sequence WHERE name = 'records'`); err != nil {
		return fmt.Errorf("reset record sequence: %w", err)
	}

	query := `INSERT INTO records
		(date_time, type, description, amount, account, created_by, created_time, edited_by, edited_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for i, r := range records {
		_, err := tx.ExecContext(ctx, query,
			r.DateTime, r.Type, r.Description, r.Amount.String(), r.Account,
			r.CreatedBy, r.CreatedTime, r.EditedBy, r.EditedTime)
		if err != nil {
			return fmt.Errorf("write record %d: %w", i, err)
		}
	}
	return nil
}

func saveTypes(ctx context.Context, tx *sql.Tx, types map[string]core.CategoryTypes) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM account_types`); err != nil {
		return fmt.Errorf("clear account types: %w", err)
	}

	query := `INSERT INTO account_types (account, income, expense) VALUES (?, ?, ?)`
	for account, ct := range types {
		income, err := json.Marshal(ct.Income)
		if err != nil {
			return fmt.Errorf("marshal income labels: %w", err)
		}
		expense, err := json.Marshal(ct.Expense)
		if err != nil {
			return fmt.Errorf("marshal expense labels: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, account, string(income), string(expense)); err != nil {
			return fmt.Errorf("write account types for %s: %w", account, err)
		}
	}
	return nil
}

func loadSettings(ctx context.Context, db *sql.DB, settings *core.Settings) error {
	rows, err := db.QueryContext(ctx, `SELECT key, value FROM settings`)
	if err != nil {
		return fmt.Errorf("select settings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return err
		}
		switch key {
		case settingAccounts:
			if err := json.Unmarshal([]byte(value), &settings.Accounts); err != nil {
				return fmt.Errorf("unmarshal accounts: %w", err)
			}
		case settingCurrentAccount:
			settings.CurrentAccount = value
		case settingBackupPassword:
			settings.BackupPassword = value
		}
	}
	return rows.Err()
}

func loadRecords(ctx context.Context, db *sql.DB) ([]core.Record, error) {
	query := `SELECT date_time, type, description, amount, account,
		created_by, created_time, edited_by, edited_time
		FROM records ORDER BY id`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select records: %w", err)
	}
	defer rows.Close()

	var records []core.Record
	for rows.Next() {
		var r core.Record
		var amount string
		if err := rows.Scan(&r.DateTime, &r.Type, &r.Description, &amount,
			&r.Account, &r.CreatedBy, &r.CreatedTime, &r.EditedBy, &r.EditedTime); err != nil {
			return nil, err
		}
		r.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("parse stored amount %q: %w", amount, err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func loadTypes(ctx context.Context, db *sql.DB, types map[string]core.CategoryTypes) error {
	rows, err := db.QueryContext(ctx, `SELECT account, income, expense FROM account_types`)
	if err != nil {
		return fmt.Errorf("select account types: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var account, income, expense string
		if err := rows.Scan(&account, &income, &expense); err != nil {
			return err
		}
		var ct core.CategoryTypes
		if err := json.Unmarshal([]byte(income), &ct.Income); err != nil {
			return fmt.Errorf("unmarshal income labels for %s: %w", account, err)
		}
		if err := json.Unmarshal([]byte(expense), &ct.Expense); err != nil {
			return fmt.Errorf("unmarshal expense labels for %s: %w", account, err)
		}
		types[account] = ct
	}
	return rows.Err()
}
