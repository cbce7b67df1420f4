package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"ledgerbook/internal/core"
)

// Accounts returns the account list in creation order.
func (l *Ledger) Accounts() []string {
	return append([]string(nil), l.state.Settings.Accounts...)
}

// CurrentAccount returns the selected account name, or "" when none is
// selected.
func (l *Ledger) CurrentAccount() string {
	return l.state.Settings.CurrentAccount
}

// AddAccount appends a new account. The first account ever created is
// selected automatically.
func (l *Ledger) AddAccount(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: empty account name", core.ErrValidation)
	}
	if l.state.HasAccount(name) {
		return fmt.Errorf("%w: %s", core.ErrDuplicateName, name)
	}

	next := l.state.Clone()
	next.Settings.Accounts = append(next.Settings.Accounts, name)
	if next.Settings.CurrentAccount == "" {
		next.Settings.CurrentAccount = name
	}
	next.TypesFor(name)

	if err := l.commit(ctx, next, ChangeAccounts, ChangeTypes); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Account added", "component", "service", "account", name)
	return nil
}

// RenameAccount renames an account, cascading the new name into every
// record and the type map. The selection follows the rename.
func (l *Ledger) RenameAccount(ctx context.Context, oldName, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return fmt.Errorf("%w: empty account name", core.ErrValidation)
	}
	if !l.state.HasAccount(oldName) {
		return fmt.Errorf("%w: account %s", core.ErrNotFound, oldName)
	}
	if newName != oldName && l.state.HasAccount(newName) {
		return fmt.Errorf("%w: %s", core.ErrDuplicateName, newName)
	}

	next := l.state.Clone()
	for i, a := range next.Settings.Accounts {
		if a == oldName {
			next.Settings.Accounts[i] = newName
		}
	}
	if next.Settings.CurrentAccount == oldName {
		next.Settings.CurrentAccount = newName
	}
	for i := range next.Records {
		if next.Records[i].Account == oldName {
			next.Records[i].Account = newName
		}
	}
	if ct, ok := next.Types[oldName]; ok {
		delete(next.Types, oldName)
		next.Types[newName] = ct
	}

	if err := l.commit(ctx, next, ChangeAccounts, ChangeRecords, ChangeTypes); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Account renamed", "component", "service", "from", oldName, "to", newName)
	return nil
}

// DeleteAccount removes an account together with its records and type
// map entry. When the selected account is deleted, the first remaining
// account becomes the selection.
func (l *Ledger) DeleteAccount(ctx context.Context, name string) error {
	if !l.state.HasAccount(name) {
		return fmt.Errorf("%w: account %s", core.ErrNotFound, name)
	}

	next := l.state.Clone()
	accounts := next.Settings.Accounts[:0]
	for _, a := range next.Settings.Accounts {
		if a != name {
			accounts = append(accounts, a)
		}
	}
	next.Settings.Accounts = accounts

	records := next.Records[:0]
	for _, r := range next.Records {
		if r.Account != name {
			records = append(records, r)
		}
	}
	next.Records = records
	delete(next.Types, name)

	if next.Settings.CurrentAccount == name {
		next.Settings.CurrentAccount = ""
		if len(next.Settings.Accounts) > 0 {
			next.Settings.CurrentAccount = next.Settings.Accounts[0]
		}
	}

	if err := l.commit(ctx, next, ChangeAccounts, ChangeRecords, ChangeTypes); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Account deleted", "component", "service", "account", name)
	return nil
}

// SelectAccount makes name the current account.
func (l *Ledger) SelectAccount(ctx context.Context, name string) error {
	if !l.state.HasAccount(name) {
		return fmt.Errorf("%w: account %s", core.ErrNotFound, name)
	}
	if l.state.Settings.CurrentAccount == name {
		return nil
	}

	next := l.state.Clone()
	next.Settings.CurrentAccount = name
	return l.commit(ctx, next, ChangeAccounts)
}

// Types returns the current account's type map, seeding and persisting
// the default labels on first reference.
func (l *Ledger) Types(ctx context.Context) (core.CategoryTypes, error) {
	account := l.state.Settings.CurrentAccount
	if account == "" {
		return core.CategoryTypes{}, core.ErrNoAccountSelected
	}
	if ct, ok := l.state.Types[account]; ok {
		return ct.Clone(), nil
	}

	next := l.state.Clone()
	ct := next.TypesFor(account)
	if err := l.commit(ctx, next, ChangeTypes); err != nil {
		return core.CategoryTypes{}, err
	}
	return ct.Clone(), nil
}

// AddType appends a label to one bucket of the current account. Labels
// are unique across both buckets.
func (l *Ledger) AddType(ctx context.Context, category core.Category, label string) error {
	account := l.state.Settings.CurrentAccount
	if account == "" {
		return core.ErrNoAccountSelected
	}
	if !core.ValidCategory(category) {
		return fmt.Errorf("%w: %s", core.ErrInvalidCategory, category)
	}
	label = strings.TrimSpace(label)
	if label == "" {
		return fmt.Errorf("%w: empty type label", core.ErrValidation)
	}

	next := l.state.Clone()
	ct := next.TypesFor(account)
	if _, exists := ct.Find(label); exists {
		return fmt.Errorf("%w: %s", core.ErrDuplicateLabel, label)
	}
	ct.Add(category, label)
	next.Types[account] = ct

	if err := l.commit(ctx, next, ChangeTypes); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Type added", "component", "service",
		"account", account, "category", category, "label", label)
	return nil
}

// EditType renames a label, optionally moving it to the other bucket,
// and cascades the new label into the current account's records.
func (l *Ledger) EditType(ctx context.Context, oldLabel string, oldCategory core.Category, newLabel string, newCategory core.Category) error {
	account := l.state.Settings.CurrentAccount
	if account == "" {
		return core.ErrNoAccountSelected
	}
	if !core.ValidCategory(oldCategory) || !core.ValidCategory(newCategory) {
		return core.ErrInvalidCategory
	}
	newLabel = strings.TrimSpace(newLabel)
	if newLabel == "" {
		return fmt.Errorf("%w: empty type label", core.ErrValidation)
	}
	if newLabel == oldLabel && newCategory == oldCategory {
		return nil
	}

	next := l.state.Clone()
	ct := next.TypesFor(account)

	found := false
	for _, lbl := range ct.Labels(oldCategory) {
		if lbl == oldLabel {
			found = true
		}
	}
	if !found {
		return fmt.Errorf("%w: type %s", core.ErrNotFound, oldLabel)
	}
	if newLabel != oldLabel {
		if _, exists := ct.Find(newLabel); exists {
			return fmt.Errorf("%w: %s", core.ErrDuplicateLabel, newLabel)
		}
	}

	if oldCategory == newCategory {
		// Rename in place so the label keeps its position.
		labels := ct.Labels(oldCategory)
		for i, lbl := range labels {
			if lbl == oldLabel {
				labels[i] = newLabel
			}
		}
	} else {
		ct.Remove(oldCategory, oldLabel)
		ct.Add(newCategory, newLabel)
	}
	next.Types[account] = ct

	if newLabel != oldLabel {
		for i := range next.Records {
			if next.Records[i].Account == account && next.Records[i].Type == oldLabel {
				next.Records[i].Type = newLabel
			}
		}
	}

	if err := l.commit(ctx, next, ChangeTypes, ChangeRecords); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Type edited", "component", "service",
		"account", account, "from", oldLabel, "to", newLabel)
	return nil
}

// DeleteType removes a label from the current account and deletes the
// account's records carrying it. It returns the number of records
// removed.
func (l *Ledger) DeleteType(ctx context.Context, category core.Category, label string) (int, error) {
	account := l.state.Settings.CurrentAccount
	if account == "" {
		return 0, core.ErrNoAccountSelected
	}
	if !core.ValidCategory(category) {
		return 0, fmt.Errorf("%w: %s", core.ErrInvalidCategory, category)
	}

	next := l.state.Clone()
	ct := next.TypesFor(account)
	found := false
	for _, lbl := range ct.Labels(category) {
		if lbl == label {
			found = true
		}
	}
	if !found {
		return 0, fmt.Errorf("%w: type %s", core.ErrNotFound, label)
	}
	ct.Remove(category, label)
	next.Types[account] = ct

	removed := 0
	records := next.Records[:0]
	for _, r := range next.Records {
		if r.Account == account && r.Type == label {
			removed++
			continue
		}
		records = append(records, r)
	}
	next.Records = records

	if err := l.commit(ctx, next, ChangeTypes, ChangeRecords); err != nil {
		return 0, err
	}
	slog.InfoContext(ctx, "Type deleted", "component", "service",
		"account", account, "label", label, "records_removed", removed)
	return removed, nil
}

// RecordsWithType counts the current account's records carrying label,
// so callers can warn before a destructive type deletion.
func (l *Ledger) RecordsWithType(label string) int {
	account := l.state.Settings.CurrentAccount
	count := 0
	for _, r := range l.state.Records {
		if r.Account == account && r.Type == label {
			count++
		}
	}
	return count
}
