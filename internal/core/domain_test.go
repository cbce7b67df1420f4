package core

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestCategoryTypes_FindAddRemove(t *testing.T) {
	ct := CategoryTypes{
		Income:  []string{"Salary"},
		Expense: []string{"Rent", "Food"},
	}

	if c, ok := ct.Find("Rent"); !ok || c != CategoryExpense {
		t.Errorf("Find(Rent) = %v, %v; want expense, true", c, ok)
	}
	if _, ok := ct.Find("Unknown"); ok {
		t.Error("Find(Unknown) reported a match")
	}

	ct.Add(CategoryIncome, "Bonus")
	if c, ok := ct.Find("Bonus"); !ok || c != CategoryIncome {
		t.Errorf("after Add, Find(Bonus) = %v, %v", c, ok)
	}

	ct.Remove(CategoryExpense, "Rent")
	if _, ok := ct.Find("Rent"); ok {
		t.Error("Remove(Rent) left the label behind")
	}
	if len(ct.Expense) != 1 || ct.Expense[0] != "Food" {
		t.Errorf("Expense after remove = %v, want [Food]", ct.Expense)
	}
}

func TestState_TypesForSeedsDefaults(t *testing.T) {
	s := NewState()
	ct := s.TypesFor("Shop")

	want := DefaultCategoryTypes()
	if len(ct.Income) != len(want.Income) || len(ct.Expense) != len(want.Expense) {
		t.Fatalf("seeded types = %+v, want defaults %+v", ct, want)
	}
	if _, ok := s.Types["Shop"]; !ok {
		t.Error("TypesFor did not store the seeded entry")
	}
}

func TestState_CloneIsIndependent(t *testing.T) {
	s := NewState()
	s.Settings.Accounts = []string{"Shop"}
	s.Settings.CurrentAccount = "Shop"
	s.Records = []Record{{
		DateTime:    "2024-03-01 10:00",
		Type:        "Groceries",
		Description: "market",
		Amount:      decimal.NewFromInt(100),
		Account:     "Shop",
	}}
	s.Types["Shop"] = CategoryTypes{Income: []string{"Salary"}}

	clone := s.Clone()
	clone.Settings.Accounts[0] = "Changed"
	clone.Records[0].Description = "changed"
	ct := clone.Types["Shop"]
	ct.Income[0] = "Changed"

	if s.Settings.Accounts[0] != "Shop" {
		t.Error("clone shares the accounts slice")
	}
	if s.Records[0].Description != "market" {
		t.Error("clone shares the records slice")
	}
	if s.Types["Shop"].Income[0] != "Salary" {
		t.Error("clone shares the type label slices")
	}
}

func TestRecord_Validate(t *testing.T) {
	valid := Record{
		DateTime:    "2024-03-01 10:00",
		Type:        "Groceries",
		Description: "market",
		Amount:      decimal.NewFromInt(100),
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid record rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Record)
	}{
		{name: "bad date-time", mutate: func(r *Record) { r.DateTime = "01/03/2024" }},
		{name: "empty type", mutate: func(r *Record) { r.Type = "  " }},
		{name: "empty description", mutate: func(r *Record) { r.Description = "" }},
		{name: "zero amount", mutate: func(r *Record) { r.Amount = decimal.Zero }},
		{name: "negative amount", mutate: func(r *Record) { r.Amount = decimal.NewFromInt(-1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			tt.mutate(&r)
			if err := r.Validate(); !errors.Is(err, ErrValidation) {
				t.Errorf("Validate() = %v, want ErrValidation", err)
			}
		})
	}
}

func TestParseDateTimeLocal(t *testing.T) {
	got, err := ParseDateTime("2024-03-01 23:59")
	if err != nil {
		t.Fatalf("ParseDateTime: %v", err)
	}
	if got.Hour() != 23 || got.Minute() != 59 {
		t.Errorf("parsed clock = %02d:%02d, want 23:59", got.Hour(), got.Minute())
	}
	if got.Location().String() != "Local" {
		t.Errorf("parsed location = %s, want Local", got.Location())
	}

	if _, err := ParseDateTime("2024-03-01T23:59"); err == nil {
		t.Error("ISO separator accepted, want error")
	}
}

func TestDayBounds(t *testing.T) {
	day, _ := ParseDate("2024-03-15")
	start, end := DayStart(day.Add(5*time.Minute)), DayEnd(day)

	if start.Hour() != 0 || start.Minute() != 0 {
		t.Errorf("DayStart = %v, want midnight", start)
	}
	if end.Hour() != 23 || end.Minute() != 59 || end.Second() != 59 {
		t.Errorf("DayEnd = %v, want end of day", end)
	}
	if !end.After(start) {
		t.Error("DayEnd not after DayStart")
	}
}

func TestDaysBetween(t *testing.T) {
	// Standard and daylight offsets of the same region; a range whose
	// ends straddle the clock change is an hour short in wall time but
	// must still count full calendar days.
	std := time.FixedZone("STD", -5*3600)
	dst := time.FixedZone("DST", -4*3600)

	tests := []struct {
		name string
		a, b time.Time
		want int
	}{
		{"same day", time.Date(2024, 3, 1, 9, 0, 0, 0, time.Local), time.Date(2024, 3, 1, 23, 0, 0, 0, time.Local), 0},
		{"adjacent days", time.Date(2024, 3, 1, 23, 0, 0, 0, time.Local), time.Date(2024, 3, 2, 1, 0, 0, 0, time.Local), 1},
		{"two weeks", time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local), time.Date(2024, 3, 14, 0, 0, 0, 0, time.Local), 13},
		{"across month", time.Date(2024, 1, 31, 12, 0, 0, 0, time.Local), time.Date(2024, 2, 1, 12, 0, 0, 0, time.Local), 1},
		{"spring forward", time.Date(2026, 3, 1, 0, 0, 0, 0, std), time.Date(2026, 3, 14, 23, 59, 59, 0, dst), 13},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysBetween(tt.a, tt.b); got != tt.want {
				t.Errorf("DaysBetween = %d, want %d", got, tt.want)
			}
		})
	}
}
