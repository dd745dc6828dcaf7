package util

import (
	"fmt"
	"time"
)

// MonthKeyLayout is the layout of "YYYY-MM" month keys
const MonthKeyLayout = "2006-01"

// DateLayout is the layout of "YYYY-MM-DD" calendar dates
const DateLayout = "2006-01-02"

// PreviousMonth returns the year and month for the previous month
func PreviousMonth(year, month int) (int, int) {
	if month == 1 {
		return year - 1, 12
	}
	return year, month - 1
}

// MonthKey formats the "YYYY-MM" bucket a date belongs to
func MonthKey(t time.Time) string {
	return t.Format(MonthKeyLayout)
}

// PreviousMonthKey returns the "YYYY-MM" key of the month before t
func PreviousMonthKey(t time.Time) string {
	year, month := PreviousMonth(t.Year(), int(t.Month()))
	return fmt.Sprintf("%04d-%02d", year, month)
}

// ParseMonthKey parses a "YYYY-MM" key into the first day of that month (UTC)
func ParseMonthKey(key string) (time.Time, error) {
	return time.Parse(MonthKeyLayout, key)
}

// IsValidMonthKey reports whether key is a well-formed "YYYY-MM" string
func IsValidMonthKey(key string) bool {
	if len(key) != len(MonthKeyLayout) {
		return false
	}
	_, err := ParseMonthKey(key)
	return err == nil
}

// MonthLabel returns the display label of a month, e.g. "October 2026"
func MonthLabel(t time.Time) string {
	return t.Format("January 2006")
}

// DateOnly truncates t to midnight UTC of its calendar date
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a "YYYY-MM-DD" calendar date
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// StartOfMonth returns the first day of t's month
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// DayInMonth returns the given day of the month offset months away from t.
// Days past the end of the month roll over into the following month
// (day 31 in a 30-day month becomes the 1st of the next month).
func DayInMonth(t time.Time, offset int, day int) time.Time {
	return time.Date(t.Year(), t.Month()+time.Month(offset), day, 0, 0, 0, 0, time.UTC)
}

// AddMonths advances t by n calendar months, keeping the day of month when possible
// and clamping it to the last day of the target month otherwise (Jan 31 + 1 month = Feb 28/29)
func AddMonths(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	return CalculateActualDate(first.Year(), first.Month(), t.Day())
}

// CalculateActualDate returns the actual date for a target day in a given month,
// handling months with fewer days (e.g., day 31 in February returns Feb 28/29)
func CalculateActualDate(year int, month time.Month, targetDay int) time.Time {
	// Get last day of month by going to day 0 of next month
	lastDay := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()

	actualDay := targetDay
	if actualDay > lastDay {
		actualDay = lastDay
	}

	return time.Date(year, month, actualDay, 0, 0, 0, 0, time.UTC)
}
