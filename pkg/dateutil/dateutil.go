package dateutil

import (
	"fmt"
	"time"
)

// DateLayout is the calendar date format used in configuration and reports.
const DateLayout = "2006-01-02"

// ParseDate parses a calendar date ("2006-01-02") or an RFC3339 timestamp and
// normalizes it to midnight UTC.
func ParseDate(value string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", value)
	}
	return Normalize(t), nil
}

// Normalize truncates a time to its calendar date at midnight UTC.
func Normalize(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Format renders a date with DateLayout.
func Format(t time.Time) string {
	return t.Format(DateLayout)
}

// IsLeapYear checks if a year is a leap year
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// AddMonths adds months to a date, clamping the day to the end of the target
// month (Jan 31 + 1 month = Feb 28/29) instead of overflowing like time.AddDate.
func AddMonths(date time.Time, months int) time.Time {
	y, m, d := date.Date()
	total := int(m) - 1 + months
	y += total / 12
	total %= 12
	if total < 0 {
		total += 12
		y--
	}
	target := time.Month(total + 1)
	if last := DaysInMonth(y, target); d > last {
		d = last
	}
	return time.Date(y, target, d, date.Hour(), date.Minute(), date.Second(), date.Nanosecond(), date.Location())
}

// AddYears adds a specified number of years to a date
func AddYears(date time.Time, years int) time.Time {
	return AddMonths(date, years*12)
}

// AddPeriods returns the date n periods after start for a cadence of
// periodsPerYear. Calendar cadences (1, 2, 4, 12) step in months, 24 steps in
// half months, 26 and 52 step in 14 and 7 days. Always computed from start so
// repeated stepping never drifts.
func AddPeriods(start time.Time, n int, periodsPerYear int) time.Time {
	switch periodsPerYear {
	case 1, 2, 3, 4, 6, 12:
		return AddMonths(start, n*(12/periodsPerYear))
	case 24:
		d := AddMonths(start, n/2)
		if n%2 != 0 {
			d = d.AddDate(0, 0, 15)
		}
		return d
	case 26:
		return start.AddDate(0, 0, 14*n)
	case 52:
		return start.AddDate(0, 0, 7*n)
	default:
		days := 365 * n / periodsPerYear
		return start.AddDate(0, 0, days)
	}
}

// WholeYearsBetween counts completed anniversaries of from on or before to.
func WholeYearsBetween(from, to time.Time) int {
	years := to.Year() - from.Year()
	if to.Month() < from.Month() ||
		(to.Month() == from.Month() && to.Day() < from.Day()) {
		years--
	}
	return years
}

// WholeMonthsBetween counts completed months from from to to. A month that ends
// on the last day of a shorter month counts as completed.
func WholeMonthsBetween(from, to time.Time) int {
	months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	if to.Day() < from.Day() && to.Day() != DaysInMonth(to.Year(), to.Month()) {
		months--
	}
	return months
}

// PeriodsBetween counts whole periods of the given cadence from from to to.
func PeriodsBetween(from, to time.Time, periodsPerYear int) int {
	if !to.After(from) {
		return 0
	}
	n := 0
	switch periodsPerYear {
	case 1, 2, 3, 4, 6, 12:
		return WholeMonthsBetween(from, to) / (12 / periodsPerYear)
	default:
		for !AddPeriods(from, n+1, periodsPerYear).After(to) {
			n++
		}
		return n
	}
}

// BeginningOfYear returns the first day of the year for a given date
func BeginningOfYear(date time.Time) time.Time {
	return time.Date(date.Year(), 1, 1, 0, 0, 0, 0, date.Location())
}
