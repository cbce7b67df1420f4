package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	CategoryIncome  Category = "income"
	CategoryExpense Category = "expense"
)

type (
	// Category is one of the two fixed classification buckets.
	Category string

	// CategoryTypes holds the user-defined type labels of one account,
	// split into the income and expense buckets. A label may appear in
	// at most one bucket.
	CategoryTypes struct {
		Income  []string `json:"income"`
		Expense []string `json:"expense"`
	}

	// Record is a single dated financial entry. DateTime is a local
	// calendar date-time string with minute precision (see DateTimeLayout);
	// Account is a back-reference to the owning account name.
	Record struct {
		DateTime    string          `json:"dateTime"`
		Type        string          `json:"type"`
		Description string          `json:"description"`
		Amount      decimal.Decimal `json:"amount"`
		Account     string          `json:"account"`
		CreatedBy   string          `json:"createdBy"`
		CreatedTime string          `json:"createdTime"`
		EditedBy    *string         `json:"editedBy"`
		EditedTime  *string         `json:"editedTime"`
	}

	// Settings is the singleton scalar state of the ledger.
	// Empty CurrentAccount means no account is selected; empty
	// BackupPassword means exports are written unencrypted.
	Settings struct {
		Accounts       []string
		CurrentAccount string
		BackupPassword string
	}

	// State is the complete in-memory ledger state: settings, the flat
	// record list, and the per-account type map. It is owned by a single
	// service; presentation code never mutates it directly.
	State struct {
		Settings Settings
		Records  []Record
		Types    map[string]CategoryTypes
	}
)

// DefaultCategoryTypes returns the labels seeded into an account's type
// map on first reference.
func DefaultCategoryTypes() CategoryTypes {
	return CategoryTypes{
		Income:  []string{"Lottery Win", "Capital Top-Up"},
		Expense: []string{"Lottery Ticket", "Profit Transfer", "Groceries"},
	}
}

// ValidCategory reports whether c is one of the two recognized buckets.
func ValidCategory(c Category) bool {
	return c == CategoryIncome || c == CategoryExpense
}

// Labels returns the label list of the given bucket.
func (ct CategoryTypes) Labels(c Category) []string {
	if c == CategoryIncome {
		return ct.Income
	}
	return ct.Expense
}

// Find returns the bucket containing label, or false when the label is
// unknown to this account.
func (ct CategoryTypes) Find(label string) (Category, bool) {
	for _, l := range ct.Income {
		if l == label {
			return CategoryIncome, true
		}
	}
	for _, l := range ct.Expense {
		if l == label {
			return CategoryExpense, true
		}
	}
	return "", false
}

// Add appends label to the given bucket.
func (ct *CategoryTypes) Add(c Category, label string) {
	if c == CategoryIncome {
		ct.Income = append(ct.Income, label)
	} else {
		ct.Expense = append(ct.Expense, label)
	}
}

// Remove deletes label from the given bucket, preserving order.
func (ct *CategoryTypes) Remove(c Category, label string) {
	labels := ct.Labels(c)
	out := labels[:0]
	for _, l := range labels {
		if l != label {
			out = append(out, l)
		}
	}
	if c == CategoryIncome {
		ct.Income = out
	} else {
		ct.Expense = out
	}
}

// Clone returns a deep copy.
func (ct CategoryTypes) Clone() CategoryTypes {
	return CategoryTypes{
		Income:  append([]string(nil), ct.Income...),
		Expense: append([]string(nil), ct.Expense...),
	}
}

// Validate checks the required fields of a record before it enters the
// store. The account reference is checked by the caller, which knows
// the current account list.
func (r Record) Validate() error {
	if _, err := ParseDateTime(r.DateTime); err != nil {
		return err
	}
	if strings.TrimSpace(r.Type) == "" {
		return ErrValidation
	}
	if strings.TrimSpace(r.Description) == "" {
		return ErrValidation
	}
	if !r.Amount.IsPositive() {
		return ErrValidation
	}
	return nil
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	out := r
	if r.EditedBy != nil {
		v := *r.EditedBy
		out.EditedBy = &v
	}
	if r.EditedTime != nil {
		v := *r.EditedTime
		out.EditedTime = &v
	}
	return out
}

// NewState returns an empty ledger state.
func NewState() *State {
	return &State{Types: make(map[string]CategoryTypes)}
}

// HasAccount reports whether name is in the account list.
func (s *State) HasAccount(name string) bool {
	for _, a := range s.Settings.Accounts {
		if a == name {
			return true
		}
	}
	return false
}

// TypesFor returns the type map entry of account, seeding the defaults
// on first reference.
func (s *State) TypesFor(account string) CategoryTypes {
	if ct, ok := s.Types[account]; ok {
		return ct
	}
	ct := DefaultCategoryTypes()
	s.Types[account] = ct
	return ct
}

// Clone returns a deep copy of the whole state. Mutators work on a
// clone and commit it only after the state has been persisted, so a
// failed save leaves both memory and storage untouched.
func (s *State) Clone() *State {
	out := &State{
		Settings: Settings{
			Accounts:       append([]string(nil), s.Settings.Accounts...),
			CurrentAccount: s.Settings.CurrentAccount,
			BackupPassword: s.Settings.BackupPassword,
		},
		Records: make([]Record, len(s.Records)),
		Types:   make(map[string]CategoryTypes, len(s.Types)),
	}
	for i, r := range s.Records {
		out.Records[i] = r.Clone()
	}
	for k, v := range s.Types {
		out.Types[k] = v.Clone()
	}
	return out
}
