package service

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"ledgerbook/internal/core"
)

// Summarize aggregates one account over the closed interval from..to.
// Bounds are widened to whole local days. Records whose type label is
// in neither bucket of the account's type map are excluded from the
// balance and the per-type breakdown; they still count as period
// records and active days, so the user can spot and fix the
// classification.
func (l *Ledger) Summarize(account string, from, to time.Time) (*core.Summary, error) {
	if account == "" {
		return nil, core.ErrNoAccountSelected
	}
	if !l.state.HasAccount(account) {
		return nil, fmt.Errorf("%w: account %s", core.ErrNotFound, account)
	}

	from = core.DayStart(from)
	to = core.DayEnd(to)
	if to.Before(from) {
		return nil, fmt.Errorf("%w: interval end before start", core.ErrValidation)
	}

	ct, ok := l.state.Types[account]
	if !ok {
		ct = core.DefaultCategoryTypes()
	}

	s := &core.Summary{
		Account: account,
		From:    from,
		To:      to,
		Income:  make(map[string]core.TypeTotal),
		Expense: make(map[string]core.TypeTotal),
	}

	activeDays := make(map[string]bool)
	for _, r := range l.state.Records {
		if r.Account != account {
			continue
		}
		t, err := core.ParseDateTime(r.DateTime)
		if err != nil {
			continue
		}
		category, classified := ct.Find(r.Type)

		if classified && !t.After(to) {
			if category == core.CategoryIncome {
				s.RunningBalance = s.RunningBalance.Add(r.Amount)
			} else {
				s.RunningBalance = s.RunningBalance.Sub(r.Amount)
			}
		}

		if t.Before(from) || t.After(to) {
			continue
		}

		s.PeriodRecords = append(s.PeriodRecords, r.Clone())
		activeDays[t.Format(core.DateLayout)] = true

		if !classified {
			continue
		}
		if category == core.CategoryIncome {
			total := s.Income[r.Type]
			total.Count++
			total.Amount = total.Amount.Add(r.Amount)
			s.Income[r.Type] = total
			s.TotalIncome = s.TotalIncome.Add(r.Amount)
			s.IncomeCount++
		} else {
			total := s.Expense[r.Type]
			total.Count++
			total.Amount = total.Amount.Add(r.Amount)
			s.Expense[r.Type] = total
			s.TotalExpense = s.TotalExpense.Add(r.Amount)
			s.ExpenseCount++
		}
	}

	sort.SliceStable(s.PeriodRecords, func(i, j int) bool {
		ti, erri := core.ParseDateTime(s.PeriodRecords[i].DateTime)
		tj, errj := core.ParseDateTime(s.PeriodRecords[j].DateTime)
		if erri != nil || errj != nil {
			return false
		}
		return ti.Before(tj)
	})

	s.ActiveDays = len(activeDays)
	s.TotalDays = core.DaysBetween(from, to) + 1
	return s, nil
}

// SummarizeDay aggregates a single calendar day.
func (l *Ledger) SummarizeDay(account string, day time.Time) (*core.Summary, error) {
	return l.Summarize(account, day, day)
}

// SummarizeAll aggregates the account's full history, bounded by its
// earliest and latest records. An account with no parseable records
// has no interval to aggregate and returns core.ErrNotFound.
func (l *Ledger) SummarizeAll(account string) (*core.Summary, error) {
	if account == "" {
		return nil, core.ErrNoAccountSelected
	}
	if !l.state.HasAccount(account) {
		return nil, fmt.Errorf("%w: account %s", core.ErrNotFound, account)
	}

	var first, last time.Time
	found := false
	for _, r := range l.state.Records {
		if r.Account != account {
			continue
		}
		t, err := core.ParseDateTime(r.DateTime)
		if err != nil {
			continue
		}
		if !found || t.Before(first) {
			first = t
		}
		if !found || t.After(last) {
			last = t
		}
		found = true
	}
	if !found {
		return nil, fmt.Errorf("%w: account %s has no records", core.ErrNotFound, account)
	}
	return l.Summarize(account, first, last)
}

// Balance returns the account's running balance over its whole
// history. An account without records has a zero balance.
func (l *Ledger) Balance(account string) (decimal.Decimal, error) {
	if account == "" {
		return decimal.Zero, core.ErrNoAccountSelected
	}
	if !l.state.HasAccount(account) {
		return decimal.Zero, fmt.Errorf("%w: account %s", core.ErrNotFound, account)
	}
	s, err := l.SummarizeAll(account)
	if errors.Is(err, core.ErrNotFound) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	return s.RunningBalance, nil
}
