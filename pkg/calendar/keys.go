// Package calendar holds the date arithmetic behind the planner: month and day
// keys, month labels and the fixed 42-cell month grid.
package calendar

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var (
	// ErrInvalidMonthKey is returned when a string is not a "YYYY-MM" month key.
	ErrInvalidMonthKey = errors.New("calendar: invalid month key")
	// ErrInvalidDayKey is returned when a string is not a "YYYY-MM-DD" day key.
	ErrInvalidDayKey = errors.New("calendar: invalid day key")
)

const (
	monthLayout = "2006-01"
	dayLayout   = "2006-01-02"
	labelLayout = "January 2006"
)

var (
	monthKeyPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)
	dayKeyPattern   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// MonthKey identifies a calendar month as "YYYY-MM".
type MonthKey string

// DayKey identifies a calendar day as "YYYY-MM-DD".
type DayKey string

// NewMonthKey builds a zero-padded month key. Out of range months roll over
// into the adjacent year.
func NewMonthKey(year int, month time.Month) MonthKey {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return MonthKey(fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month())))
}

// ParseMonthKey validates s and returns it as a MonthKey.
func ParseMonthKey(s string) (MonthKey, error) {
	if !monthKeyPattern.MatchString(s) {
		return "", fmt.Errorf("%w: %q", ErrInvalidMonthKey, s)
	}
	if _, err := time.Parse(monthLayout, s); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidMonthKey, s)
	}
	return MonthKey(s), nil
}

// MonthKeyOf returns the month key for the local date of t.
func MonthKeyOf(t time.Time) MonthKey {
	return NewMonthKey(t.Year(), t.Month())
}

// Validate reports whether k is a well formed month key.
func (k MonthKey) Validate() error {
	_, err := ParseMonthKey(string(k))
	return err
}

func (k MonthKey) String() string { return string(k) }

// Year returns the year part of the key. The key must be valid.
func (k MonthKey) Year() int {
	y, _ := strconv.Atoi(string(k)[:4])
	return y
}

// Month returns the month part of the key. The key must be valid.
func (k MonthKey) Month() time.Month {
	m, _ := strconv.Atoi(string(k)[5:7])
	return time.Month(m)
}

// Shift moves the key by delta months, crossing year boundaries.
func (k MonthKey) Shift(delta int) MonthKey {
	return NewMonthKey(k.Year(), k.Month()+time.Month(delta))
}

// DaysIn returns the number of days in the month.
func (k MonthKey) DaysIn() int {
	return DaysIn(k.Year(), k.Month())
}

// Day returns the key of day d (1-based) within the month.
func (k MonthKey) Day(d int) DayKey {
	return NewDayKey(k.Year(), k.Month(), d)
}

// First returns midnight UTC of the first day of the month.
func (k MonthKey) First() time.Time {
	return time.Date(k.Year(), k.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// Label renders the month as "January 2006".
func (k MonthKey) Label() string {
	return MonthLabel(k.Year(), k.Month())
}

// NewDayKey builds a zero-padded day key. Out of range values are normalized
// the way time.Date normalizes them.
func NewDayKey(year int, month time.Month, day int) DayKey {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return DayKey(fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day()))
}

// ParseDayKey validates s and returns it as a DayKey. Impossible dates such as
// "2023-02-29" are rejected.
func ParseDayKey(s string) (DayKey, error) {
	if !dayKeyPattern.MatchString(s) {
		return "", fmt.Errorf("%w: %q", ErrInvalidDayKey, s)
	}
	if _, err := time.Parse(dayLayout, s); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDayKey, s)
	}
	return DayKey(s), nil
}

// DayKeyOf returns the day key for the local date of t.
func DayKeyOf(t time.Time) DayKey {
	return NewDayKey(t.Year(), t.Month(), t.Day())
}

// Validate reports whether k is a well formed day key.
func (k DayKey) Validate() error {
	_, err := ParseDayKey(string(k))
	return err
}

func (k DayKey) String() string { return string(k) }

// Month returns the month the day belongs to. The key must be valid.
func (k DayKey) Month() MonthKey {
	return MonthKey(string(k)[:7])
}

// Day returns the 1-based day of month. The key must be valid.
func (k DayKey) Day() int {
	d, _ := strconv.Atoi(string(k)[8:10])
	return d
}

// Time returns midnight UTC of the day.
func (k DayKey) Time() time.Time {
	m := k.Month()
	return time.Date(m.Year(), m.Month(), k.Day(), 0, 0, 0, 0, time.UTC)
}

// Weekday returns the day of week, Sunday == 0.
func (k DayKey) Weekday() time.Weekday {
	return k.Time().Weekday()
}

// UnmarshalText validates day keys read back from storage.
func (k *DayKey) UnmarshalText(b []byte) error {
	parsed, err := ParseDayKey(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// MarshalText writes the key as is.
func (k DayKey) MarshalText() ([]byte, error) {
	return []byte(k), nil
}
