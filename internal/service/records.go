package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"

	"ledgerbook/internal/core"
)

// AddRecordParams describes one new entry. SplitAccounts lists extra
// accounts that receive an identical copy of the record.
type AddRecordParams struct {
	DateTime      string
	Type          string
	Description   string
	Amount        decimal.Decimal
	SplitAccounts []string
}

// IndexedRecord pairs a record with its stable position in the store.
// The position is the record's identity for edit and delete.
type IndexedRecord struct {
	Index int
	core.Record
}

// AddRecord appends a record to the current account and a copy to each
// split account. The type label must belong to the current account's
// type map.
func (l *Ledger) AddRecord(ctx context.Context, p AddRecordParams) error {
	account := l.state.Settings.CurrentAccount
	if account == "" {
		return core.ErrNoAccountSelected
	}

	next := l.state.Clone()
	ct := next.TypesFor(account)
	if _, ok := ct.Find(p.Type); !ok {
		return fmt.Errorf("%w: unknown type %q", core.ErrValidation, p.Type)
	}

	accounts := []string{account}
	for _, split := range p.SplitAccounts {
		if split == account {
			continue
		}
		if !next.HasAccount(split) {
			return fmt.Errorf("%w: account %s", core.ErrNotFound, split)
		}
		duplicate := false
		for _, a := range accounts {
			if a == split {
				duplicate = true
			}
		}
		if !duplicate {
			accounts = append(accounts, split)
		}
	}

	createdTime := l.now()
	for _, a := range accounts {
		rec := core.Record{
			DateTime:    p.DateTime,
			Type:        p.Type,
			Description: p.Description,
			Amount:      p.Amount,
			Account:     a,
			CreatedBy:   l.actor,
			CreatedTime: createdTime,
		}
		if err := rec.Validate(); err != nil {
			return err
		}
		next.Records = append(next.Records, rec)
	}

	if err := l.commit(ctx, next, ChangeRecords); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Record added", "component", "service",
		"type", p.Type, "amount", p.Amount.String(), "accounts", len(accounts))
	return nil
}

// EditRecordParams carries the editable fields of a record. The owning
// account and the creation audit fields never change on edit.
type EditRecordParams struct {
	DateTime    string
	Type        string
	Description string
	Amount      decimal.Decimal
}

// EditRecord replaces the editable fields of the record at index and
// stamps the edit audit fields.
func (l *Ledger) EditRecord(ctx context.Context, index int, p EditRecordParams) error {
	if index < 0 || index >= len(l.state.Records) {
		return fmt.Errorf("%w: record %d", core.ErrNotFound, index)
	}

	next := l.state.Clone()
	rec := &next.Records[index]
	rec.DateTime = p.DateTime
	rec.Type = p.Type
	rec.Description = p.Description
	rec.Amount = p.Amount
	editedBy, editedTime := l.actor, l.now()
	rec.EditedBy = &editedBy
	rec.EditedTime = &editedTime

	if err := rec.Validate(); err != nil {
		return err
	}

	if err := l.commit(ctx, next, ChangeRecords); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Record edited", "component", "service", "index", index)
	return nil
}

// DeleteRecord removes the record at index.
func (l *Ledger) DeleteRecord(ctx context.Context, index int) error {
	if index < 0 || index >= len(l.state.Records) {
		return fmt.Errorf("%w: record %d", core.ErrNotFound, index)
	}

	next := l.state.Clone()
	next.Records = append(next.Records[:index], next.Records[index+1:]...)

	if err := l.commit(ctx, next, ChangeRecords); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Record deleted", "component", "service", "index", index)
	return nil
}

// Record returns a copy of the record at index.
func (l *Ledger) Record(index int) (core.Record, error) {
	if index < 0 || index >= len(l.state.Records) {
		return core.Record{}, fmt.Errorf("%w: record %d", core.ErrNotFound, index)
	}
	return l.state.Records[index].Clone(), nil
}

// RecordsByAccount returns the account's records newest first. Ties on
// date-time keep their insertion order relative to each other.
func (l *Ledger) RecordsByAccount(account string) []IndexedRecord {
	var out []IndexedRecord
	for i, r := range l.state.Records {
		if r.Account == account {
			out = append(out, IndexedRecord{Index: i, Record: r.Clone()})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		ti, erri := core.ParseDateTime(out[i].DateTime)
		tj, errj := core.ParseDateTime(out[j].DateTime)
		if erri != nil || errj != nil {
			return false
		}
		return ti.After(tj)
	})
	return out
}

// recordKey is the duplicate-detection identity used by merge imports.
type recordKey struct {
	dateTime    string
	amount      string
	description string
	typ         string
}

func keyOf(r core.Record) recordKey {
	return recordKey{
		dateTime:    r.DateTime,
		amount:      r.Amount.String(),
		description: r.Description,
		typ:         r.Type,
	}
}

// mergeRecords appends the incoming records that are not already
// present in the account, rewriting their account reference. It reports
// how many were inserted and how many skipped as duplicates.
func mergeRecords(state *core.State, account string, incoming []core.Record) (inserted, skipped int) {
	existing := make(map[recordKey]bool)
	for _, r := range state.Records {
		if r.Account == account {
			existing[keyOf(r)] = true
		}
	}

	for _, r := range incoming {
		key := keyOf(r)
		if existing[key] {
			skipped++
			continue
		}
		rec := r.Clone()
		rec.Account = account
		state.Records = append(state.Records, rec)
		existing[key] = true
		inserted++
	}
	return inserted, skipped
}
