package core

import (
	"fmt"
	"time"
)

const (
	// DateTimeLayout is the wire form of Record.DateTime.
	DateTimeLayout = "2006-01-02 15:04"
	// DateLayout is the wire form of calendar dates in export documents.
	DateLayout = "2006-01-02"
)

// ParseDateTime parses a record date-time string in the local calendar.
// Strings are never routed through a UTC-converting parser; exports and
// summaries would otherwise drift by a day or an hour near midnight.
func ParseDateTime(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateTimeLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad date-time %q", ErrValidation, s)
	}
	return t, nil
}

// FormatDateTime renders t in the record date-time layout.
func FormatDateTime(t time.Time) string {
	return t.Format(DateTimeLayout)
}

// ParseDate parses a YYYY-MM-DD string in the local calendar.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad date %q", ErrValidation, s)
	}
	return t, nil
}

// DayStart returns midnight of t's calendar day.
func DayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysBetween counts the whole calendar days from a's day to b's day.
// The count runs over date components, so a daylight-saving shift
// inside the interval does not skew it.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	start := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	end := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours() / 24)
}

// DayEnd returns the last representable instant of t's calendar day.
func DayEnd(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
