// Package timeutil provides timezone and month-boundary utilities for the
// kicker league. Seasons are calendar months in the office timezone, so
// every "which season is it" decision must go through this package instead
// of using the server's local time.
// No external dependencies - uses only standard library.
package timeutil

import (
	"time"
)

// OfficeTZ is the league office timezone (UTC+3, no DST).
var OfficeTZ = time.FixedZone("Europe/Moscow", 3*60*60)

// Now returns the current time in the office timezone.
func Now() time.Time {
	return time.Now().In(OfficeTZ)
}

// ToOffice converts a time to the office timezone.
func ToOffice(t time.Time) time.Time {
	return t.In(OfficeTZ)
}

// Date creates a time in the office timezone with the given date.
func Date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, OfficeTZ)
}

// StartOfDay returns the start of the day (00:00:00) in the office timezone.
func StartOfDay(t time.Time) time.Time {
	local := ToOffice(t)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, OfficeTZ)
}

// StartOfMonth returns the start of the month in the office timezone.
func StartOfMonth(t time.Time) time.Time {
	local := ToOffice(t)
	return time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, OfficeTZ)
}

// EndOfMonth returns the last instant of the month in the office timezone.
func EndOfMonth(t time.Time) time.Time {
	start := StartOfMonth(t)
	return start.AddDate(0, 1, 0).Add(-time.Nanosecond)
}

// StartOfNextMonth returns the first instant of the following month.
func StartOfNextMonth(t time.Time) time.Time {
	return StartOfMonth(t).AddDate(0, 1, 0)
}

// IsSameMonth reports whether both times fall into the same office-timezone
// calendar month.
func IsSameMonth(a, b time.Time) bool {
	la, lb := ToOffice(a), ToOffice(b)
	return la.Year() == lb.Year() && la.Month() == lb.Month()
}

// IsFirstDayOfMonth reports whether the time falls on the first office-
// timezone day of a month. Used by the monthly rollover schedule.
func IsFirstDayOfMonth(t time.Time) bool {
	return ToOffice(t).Day() == 1
}
