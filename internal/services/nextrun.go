package services

import (
	"log"
	"time"

	"fintrack/internal/models"
)

// NextRun computes the next scheduled time for a reminder from its cadence
// and its current scheduled time. Monthly and yearly advancement is
// calendar-aware and clamps to the last day of the target month, so a
// reminder for Jan 31 lands on Feb 28 (29 in a leap year) rather than
// rolling into March. An unrecognized cadence falls back to daily.
func NextRun(cadence models.Cadence, current time.Time) time.Time {
	switch cadence {
	case models.CadenceDaily:
		return current.AddDate(0, 0, 1)
	case models.CadenceWeekly:
		return current.AddDate(0, 0, 7)
	case models.CadenceMonthly:
		return addMonthsClamped(current, 1)
	case models.CadenceYearly:
		return addMonthsClamped(current, 12)
	default:
		log.Printf("Warning: unknown cadence %q, defaulting to daily", cadence)
		return current.AddDate(0, 0, 1)
	}
}

// addMonthsClamped advances by whole months, clamping the day of month to
// the target month's length. Stepping from the first of the month keeps
// AddDate from normalizing across month boundaries.
func addMonthsClamped(t time.Time, months int) time.Time {
	firstOfTarget := time.Date(t.Year(), t.Month(), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location()).
		AddDate(0, months, 0)

	day := t.Day()
	if last := daysInMonth(firstOfTarget.Year(), firstOfTarget.Month()); day > last {
		day = last
	}

	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// daysInMonth returns the number of days in the given month
func daysInMonth(year int, month time.Month) int {
	// Day zero of the next month is the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
