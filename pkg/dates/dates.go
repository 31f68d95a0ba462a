// Package dates holds the billing-period calendar arithmetic.
//
// Billing periods are derived from the run date and a lease's due day each
// run rather than persisted. All helpers take an explicit *time.Location so
// month and year rollovers are evaluated in the business timezone, not in
// whatever zone the input happens to carry.
package dates

import "time"

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	// day 0 of the next month normalizes to the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DueDate returns midnight of the rent due day within year/month, clamping
// the day to the month's length (due day 31 bills on April 30).
func DueDate(year int, month time.Month, day int, loc *time.Location) time.Time {
	if last := DaysIn(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

// PreviousDueDate returns the due date one month before due. The clamp is
// applied independently per month, so a due day of 31 yields
// [Jan 31, Feb 28) followed by [Feb 28, Mar 31).
func PreviousDueDate(due time.Time, day int) time.Time {
	anchor := time.Date(due.Year(), due.Month(), 1, 0, 0, 0, 0, due.Location()).AddDate(0, -1, 0)
	return DueDate(anchor.Year(), anchor.Month(), day, due.Location())
}

// IsMonthEnd reports whether t falls on the last day of its month.
func IsMonthEnd(t time.Time) bool {
	return t.Day() == DaysIn(t.Year(), t.Month())
}

// DayOf returns midnight of the calendar day containing the instant t,
// evaluated in loc.
func DayOf(t time.Time, loc *time.Location) time.Time {
	year, month, day := t.In(loc).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

// FromDateFields rebuilds t's calendar fields at midnight in loc without
// converting the instant. DATE columns scan as UTC midnight; converting that
// instant into a zone west of UTC would land on the previous day.
func FromDateFields(t time.Time, loc *time.Location) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

// SameDay reports whether a and b fall on the same calendar day as carried
// by their own fields.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
