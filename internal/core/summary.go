package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// TypeTotal aggregates the records of one type label within a period.
type TypeTotal struct {
	Count  int
	Amount decimal.Decimal
}

// Summary is the read-only aggregate for one account over a closed date
// interval. RunningBalance covers everything up to the interval end,
// the remaining fields only the interval itself.
type Summary struct {
	Account string
	From    time.Time
	To      time.Time

	// Per-type breakdown of the period, keyed by type label.
	Income  map[string]TypeTotal
	Expense map[string]TypeTotal

	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	IncomeCount  int
	ExpenseCount int

	// RunningBalance is cumulative income minus expense up to the end
	// of the interval. Records whose type matches neither bucket are
	// excluded; see the drift note on Summarize.
	RunningBalance decimal.Decimal

	// PeriodRecords are the interval's records, ascending by date-time.
	PeriodRecords []Record

	// ActiveDays counts distinct local calendar days with at least one
	// record in the period; TotalDays is the interval length in days.
	ActiveDays int
	TotalDays  int
}
