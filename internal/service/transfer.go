package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ledgerbook/internal/codec"
	"ledgerbook/internal/core"
)

// BackupPassword returns the stored export password, "" when exports
// are unencrypted.
func (l *Ledger) BackupPassword() string {
	return l.state.Settings.BackupPassword
}

// SetBackupPassword stores the password used to seal exports. An empty
// password turns encryption off.
func (l *Ledger) SetBackupPassword(ctx context.Context, password string) error {
	next := l.state.Clone()
	next.Settings.BackupPassword = password
	if err := l.commit(ctx, next); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Backup password updated",
		"component", "service", "encrypted", password != "")
	return nil
}

// ExportFullBackup builds the whole-store document. The stored backup
// password is never part of the document.
func (l *Ledger) ExportFullBackup() *codec.FullBackup {
	state := l.state.Clone()
	doc := &codec.FullBackup{
		Accounts:     state.Settings.Accounts,
		Records:      state.Records,
		AccountTypes: codec.TypeEntriesFromMap(state.Types, state.Settings.Accounts),
	}
	if state.Settings.CurrentAccount != "" {
		current := state.Settings.CurrentAccount
		doc.CurrentAccount = &current
	}
	return doc
}

// ExportAccount builds the snapshot of the current account.
func (l *Ledger) ExportAccount() (*codec.AccountSnapshot, error) {
	account := l.state.Settings.CurrentAccount
	if account == "" {
		return nil, core.ErrNoAccountSelected
	}

	ct, ok := l.state.Types[account]
	if !ok {
		ct = core.DefaultCategoryTypes()
	}
	return &codec.AccountSnapshot{
		AccountName:  account,
		Records:      l.accountRecords(account),
		AccountTypes: ct.Clone(),
	}, nil
}

// ExportDay builds the snapshot of one calendar day of the current
// account.
func (l *Ledger) ExportDay(day time.Time) (*codec.DaySnapshot, error) {
	account := l.state.Settings.CurrentAccount
	if account == "" {
		return nil, core.ErrNoAccountSelected
	}

	start, end := core.DayStart(day), core.DayEnd(day)
	var records []core.Record
	for _, r := range l.accountRecords(account) {
		t, err := core.ParseDateTime(r.DateTime)
		if err != nil {
			continue
		}
		if !t.Before(start) && !t.After(end) {
			records = append(records, r)
		}
	}

	return &codec.DaySnapshot{
		AccountName:   account,
		IsDailyExport: true,
		ExportDate:    day.Format(core.DateLayout),
		Records:       records,
	}, nil
}

// ExportRange builds the snapshot of a closed date interval of the
// current account, including its type map so the receiver can classify
// the records.
func (l *Ledger) ExportRange(from, to time.Time) (*codec.RangeSnapshot, error) {
	account := l.state.Settings.CurrentAccount
	if account == "" {
		return nil, core.ErrNoAccountSelected
	}

	start, end := core.DayStart(from), core.DayEnd(to)
	if end.Before(start) {
		return nil, fmt.Errorf("%w: interval end before start", core.ErrValidation)
	}

	var records []core.Record
	for _, r := range l.accountRecords(account) {
		t, err := core.ParseDateTime(r.DateTime)
		if err != nil {
			continue
		}
		if !t.Before(start) && !t.After(end) {
			records = append(records, r)
		}
	}

	ct, ok := l.state.Types[account]
	if !ok {
		ct = core.DefaultCategoryTypes()
	}
	return &codec.RangeSnapshot{
		AccountName:       account,
		IsDateRangeExport: true,
		ExportStartDate:   from.Format(core.DateLayout),
		ExportEndDate:     to.Format(core.DateLayout),
		ExportTimestamp:   l.now(),
		RecordCount:       len(records),
		Records:           records,
		AccountTypes:      ct.Clone(),
	}, nil
}

func (l *Ledger) accountRecords(account string) []core.Record {
	var out []core.Record
	for _, r := range l.state.Records {
		if r.Account == account {
			out = append(out, r.Clone())
		}
	}
	return out
}

// ImportResult reports what an import changed.
type ImportResult struct {
	Kind     string
	Account  string
	Inserted int
	Skipped  int
	Replaced int
}

// ImportDocument applies a decoded document to the store.
//
// A full backup replaces everything except the locally stored backup
// password. An account snapshot replaces that one account's records
// and types, creating the account when absent. Day and range snapshots
// merge into their account, skipping records that are already present.
func (l *Ledger) ImportDocument(ctx context.Context, doc codec.Document) (*ImportResult, error) {
	var (
		result *ImportResult
		err    error
	)
	switch d := doc.(type) {
	case *codec.FullBackup:
		result, err = l.restoreFullBackup(ctx, d)
	case *codec.AccountSnapshot:
		result, err = l.importAccountSnapshot(ctx, d)
	case *codec.DaySnapshot:
		result, err = l.mergeSnapshot(ctx, d.AccountName, d.Records, nil, "day snapshot")
	case *codec.RangeSnapshot:
		result, err = l.mergeSnapshot(ctx, d.AccountName, d.Records, &d.AccountTypes, "range snapshot")
	default:
		return nil, core.ErrMalformedDocument
	}
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Document imported", "component", "service",
		"kind", result.Kind, "account", result.Account,
		"inserted", result.Inserted, "skipped", result.Skipped, "replaced", result.Replaced)
	return result, nil
}

func (l *Ledger) restoreFullBackup(ctx context.Context, doc *codec.FullBackup) (*ImportResult, error) {
	next := core.NewState()
	next.Settings.Accounts = append([]string(nil), doc.Accounts...)
	// The local password survives a restore; backups never carry one.
	next.Settings.BackupPassword = l.state.Settings.BackupPassword

	if doc.CurrentAccount != nil && next.HasAccount(*doc.CurrentAccount) {
		next.Settings.CurrentAccount = *doc.CurrentAccount
	} else if len(next.Settings.Accounts) > 0 {
		next.Settings.CurrentAccount = next.Settings.Accounts[0]
	}

	for _, r := range doc.Records {
		next.Records = append(next.Records, r.Clone())
	}
	for account, ct := range doc.AccountTypes.ToMap() {
		next.Types[account] = ct.Clone()
	}

	if err := l.commit(ctx, next, ChangeAccounts, ChangeRecords, ChangeTypes); err != nil {
		return nil, err
	}
	return &ImportResult{
		Kind:     "full backup",
		Inserted: len(doc.Records),
		Replaced: len(doc.Accounts),
	}, nil
}

func (l *Ledger) importAccountSnapshot(ctx context.Context, doc *codec.AccountSnapshot) (*ImportResult, error) {
	if doc.AccountName == "" {
		return nil, core.ErrMalformedDocument
	}

	next := l.state.Clone()
	if !next.HasAccount(doc.AccountName) {
		next.Settings.Accounts = append(next.Settings.Accounts, doc.AccountName)
		if next.Settings.CurrentAccount == "" {
			next.Settings.CurrentAccount = doc.AccountName
		}
	}

	replaced := 0
	records := next.Records[:0]
	for _, r := range next.Records {
		if r.Account == doc.AccountName {
			replaced++
			continue
		}
		records = append(records, r)
	}
	next.Records = records
	for _, r := range doc.Records {
		rec := r.Clone()
		rec.Account = doc.AccountName
		next.Records = append(next.Records, rec)
	}
	next.Types[doc.AccountName] = doc.AccountTypes.Clone()

	if err := l.commit(ctx, next, ChangeAccounts, ChangeRecords, ChangeTypes); err != nil {
		return nil, err
	}
	return &ImportResult{
		Kind:     "account snapshot",
		Account:  doc.AccountName,
		Inserted: len(doc.Records),
		Replaced: replaced,
	}, nil
}

func (l *Ledger) mergeSnapshot(ctx context.Context, account string, records []core.Record, types *core.CategoryTypes, kind string) (*ImportResult, error) {
	if account == "" {
		return nil, core.ErrMalformedDocument
	}

	next := l.state.Clone()
	if !next.HasAccount(account) {
		next.Settings.Accounts = append(next.Settings.Accounts, account)
		if next.Settings.CurrentAccount == "" {
			next.Settings.CurrentAccount = account
		}
	}

	// Adopt the snapshot's type labels that the account does not have
	// yet, so merged records stay classifiable.
	ct := next.TypesFor(account)
	if types != nil {
		for _, label := range types.Income {
			if _, ok := ct.Find(label); !ok {
				ct.Add(core.CategoryIncome, label)
			}
		}
		for _, label := range types.Expense {
			if _, ok := ct.Find(label); !ok {
				ct.Add(core.CategoryExpense, label)
			}
		}
		next.Types[account] = ct
	}

	inserted, skipped := mergeRecords(next, account, records)

	if err := l.commit(ctx, next, ChangeAccounts, ChangeRecords, ChangeTypes); err != nil {
		return nil, err
	}
	return &ImportResult{
		Kind:     kind,
		Account:  account,
		Inserted: inserted,
		Skipped:  skipped,
	}, nil
}
