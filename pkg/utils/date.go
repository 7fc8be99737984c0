package utils

import "time"

// DateLayout is the storage format for all date-only columns.
const DateLayout = "2006-01-02"

// Today returns the current date truncated to midnight UTC.
func Today() time.Time {
	return DateOnly(time.Now())
}

// DateOnly strips the time-of-day portion from t.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
