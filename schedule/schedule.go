// Package schedule computes task due dates.
//
// Every date the service writes goes through NormalizeNoon first. A calendar
// date stored at 12:00 local time survives a round trip through UTC storage
// for any offset within ±12h, so the displayed day never shifts near midnight.
package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

type Type string

const (
	FixedDate    Type = "FIXED_DATE"
	EveryNMonths Type = "EVERY_N_MONTHS"
	Yearly       Type = "YEARLY"
)

func (t Type) Valid() bool {
	switch t {
	case FixedDate, EveryNMonths, Yearly:
		return true
	}
	return false
}

// Interval reports whether the due date advances on completion.
func (t Type) Interval() bool {
	return t == EveryNMonths || t == Yearly
}

// MaxMonths bounds EVERY_N_MONTHS values.
const MaxMonths = 120

var (
	ErrUnknownType     = errors.New("unknown schedule type")
	ErrInvalidValue    = errors.New("schedule value must be a positive number of months")
	ErrMissingDate     = errors.New("due date is required for fixed date tasks")
	ErrInvalidMonthDay = errors.New("month-day must be formatted as MM-DD")
)

// NormalizeNoon returns t's calendar date at 12:00 in t's location.
func NormalizeNoon(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 12, 0, 0, 0, t.Location())
}

// DateIn returns the noon-normalized calendar date of t as seen in loc.
func DateIn(t time.Time, loc *time.Location) time.Time {
	return NormalizeNoon(t.In(loc))
}

// Today is the noon-normalized current date in loc.
func Today(now time.Time, loc *time.Location) time.Time {
	return DateIn(now, loc)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 12, 0, 0, 0, time.UTC).Day()
}

// AddMonths moves t by n calendar months. A day that does not exist in the
// target month is clamped to that month's last day (Jan 31 + 1 = Feb 28/29).
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, 12, 0, 0, 0, t.Location())
	if last := daysIn(first.Year(), first.Month()); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 12, 0, 0, 0, t.Location())
}

// InitialDueDate computes the first due date of a new task.
func InitialDueDate(typ Type, value *int, due *time.Time, today time.Time) (time.Time, error) {
	today = NormalizeNoon(today)
	switch typ {
	case FixedDate:
		if due == nil {
			return time.Time{}, ErrMissingDate
		}
		return DateIn(*due, today.Location()), nil
	case EveryNMonths:
		if value == nil || *value <= 0 || *value > MaxMonths {
			return time.Time{}, ErrInvalidValue
		}
		if due != nil {
			return DateIn(*due, today.Location()), nil
		}
		return AddMonths(today, *value), nil
	case Yearly:
		if value == nil {
			return time.Time{}, ErrInvalidMonthDay
		}
		month, day, err := MonthDayFromValue(*value)
		if err != nil {
			return time.Time{}, err
		}
		return nextOccurrence(month, day, today), nil
	}
	return time.Time{}, ErrUnknownType
}

// NextDueDate returns the due date after a completion on completedOn.
// FIXED_DATE tasks keep their current due date.
func NextDueDate(typ Type, value *int, current, completedOn time.Time) (time.Time, error) {
	completedOn = NormalizeNoon(completedOn)
	switch typ {
	case FixedDate:
		return current, nil
	case EveryNMonths:
		if value == nil || *value <= 0 {
			return time.Time{}, ErrInvalidValue
		}
		return AddMonths(completedOn, *value), nil
	case Yearly:
		return AddMonths(completedOn, 12), nil
	}
	return time.Time{}, ErrUnknownType
}

func nextOccurrence(month time.Month, day int, today time.Time) time.Time {
	candidate := onDay(today.Year(), month, day, today.Location())
	if candidate.Before(today) {
		candidate = onDay(today.Year()+1, month, day, today.Location())
	}
	return candidate
}

func onDay(year int, month time.Month, day int, loc *time.Location) time.Time {
	if last := daysIn(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 12, 0, 0, 0, loc)
}

// EncodeMonthDay formats a month-day pair as MM-DD.
func EncodeMonthDay(month time.Month, day int) string {
	return fmt.Sprintf("%02d-%02d", int(month), day)
}

// DecodeMonthDay parses MM-DD. Feb 29 is accepted.
func DecodeMonthDay(s string) (time.Month, int, error) {
	if len(s) != 5 || s[2] != '-' {
		return 0, 0, ErrInvalidMonthDay
	}
	m, err := strconv.Atoi(s[:2])
	if err != nil {
		return 0, 0, ErrInvalidMonthDay
	}
	d, err := strconv.Atoi(s[3:])
	if err != nil {
		return 0, 0, ErrInvalidMonthDay
	}
	if m < 1 || m > 12 || d < 1 || d > daysIn(2024, time.Month(m)) {
		return 0, 0, ErrInvalidMonthDay
	}
	return time.Month(m), d, nil
}

// MonthDayValue packs a month-day pair into the integer stored as a YEARLY
// task's schedule value (April 15 -> 415).
func MonthDayValue(month time.Month, day int) int {
	return int(month)*100 + day
}

func MonthDayFromValue(v int) (time.Month, int, error) {
	month, day := time.Month(v/100), v%100
	if month < 1 || month > 12 || day < 1 || day > daysIn(2024, month) {
		return 0, 0, ErrInvalidMonthDay
	}
	return month, day, nil
}
