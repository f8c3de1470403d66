package utils

import "time"

// DateLayout is the calendar date format used on the wire and in the stores.
const DateLayout = "2006-01-02"

// DateOf truncates t to its calendar date, keeping t's year/month/day and dropping the zone.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// FormatDate renders a calendar date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses YYYY-MM-DD into a UTC midnight date.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// InclusiveDays counts calendar days in [start, end], both ends included.
func InclusiveDays(start, end time.Time) int {
	days := DateOf(end).Sub(DateOf(start)).Hours() / 24
	return int(days) + 1
}

// Overlaps reports whether the inclusive ranges [s1, e1] and [s2, e2] intersect.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return !DateOf(s1).After(DateOf(e2)) && !DateOf(e1).Before(DateOf(s2))
}

// MonthBounds returns the first day of the month and the first day of the following month.
func MonthBounds(year int, month time.Month) (time.Time, time.Time) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, 0)
}
