// Package codec serializes ledger entities to and from the portable
// export formats: JSON documents (canonical), an optional password
// envelope around them, and a legacy-compatible tabular (CSV) encoding
// of the same document model.
package codec

import (
	"encoding/json"
	"fmt"
	"sort"

	"ledgerbook/internal/core"
)

// Document is one of the four recognized export shapes.
type Document interface {
	document()
}

// FullBackup is the whole-store export. BackupPassword is serialized
// as null; the secret itself never leaves the local database.
type FullBackup struct {
	Accounts       []string      `json:"accounts"`
	CurrentAccount *string       `json:"currentAccount"`
	Records        []core.Record `json:"records"`
	AccountTypes   TypeEntries   `json:"accountTypes"`
	BackupPassword *string       `json:"backupPassword"`
}

// AccountSnapshot is a single-account export; importing it replaces
// that account's records and types.
type AccountSnapshot struct {
	AccountName  string             `json:"accountName"`
	Records      []core.Record      `json:"records"`
	AccountTypes core.CategoryTypes `json:"accountTypes"`
}

// DaySnapshot holds one account's records of a single calendar day.
type DaySnapshot struct {
	AccountName   string        `json:"accountName"`
	IsDailyExport bool          `json:"isDailyExport"`
	ExportDate    string        `json:"exportDate"`
	Records       []core.Record `json:"records"`
}

// RangeSnapshot holds one account's records of a closed date interval,
// together with the account's type map.
type RangeSnapshot struct {
	AccountName       string             `json:"accountName"`
	IsDateRangeExport bool               `json:"isDateRangeExport"`
	ExportStartDate   string             `json:"exportStartDate"`
	ExportEndDate     string             `json:"exportEndDate"`
	ExportTimestamp   string             `json:"exportTimestamp"`
	RecordCount       int                `json:"recordCount"`
	Records           []core.Record      `json:"records"`
	AccountTypes      core.CategoryTypes `json:"accountTypes"`
}

func (*FullBackup) document()      {}
func (*AccountSnapshot) document() {}
func (*DaySnapshot) document()     {}
func (*RangeSnapshot) document()   {}

// TypeEntry is one account's slot in a full backup's type map.
type TypeEntry struct {
	Account string
	Types   core.CategoryTypes
}

// TypeEntries serializes as the map-entries array of the document
// format: [ [account, {income, expense}], ... ].
type TypeEntries []TypeEntry

func (e TypeEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{e.Account, e.Types})
}

func (e *TypeEntry) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("account types entry: want 2 elements, got %d", len(pair))
	}
	if err := json.Unmarshal(pair[0], &e.Account); err != nil {
		return err
	}
	return json.Unmarshal(pair[1], &e.Types)
}

// ToMap converts the entries array back to the in-memory type map.
func (es TypeEntries) ToMap() map[string]core.CategoryTypes {
	out := make(map[string]core.CategoryTypes, len(es))
	for _, e := range es {
		out[e.Account] = e.Types
	}
	return out
}

// TypeEntriesFromMap builds the entries array, ordered by the given
// account list so exports are deterministic; unlisted accounts follow.
func TypeEntriesFromMap(types map[string]core.CategoryTypes, order []string) TypeEntries {
	out := make(TypeEntries, 0, len(types))
	seen := make(map[string]bool, len(types))
	for _, account := range order {
		if ct, ok := types[account]; ok {
			out = append(out, TypeEntry{Account: account, Types: ct})
			seen[account] = true
		}
	}
	var rest []string
	for account := range types {
		if !seen[account] {
			rest = append(rest, account)
		}
	}
	sort.Strings(rest)
	for _, account := range rest {
		out = append(out, TypeEntry{Account: account, Types: types[account]})
	}
	return out
}
