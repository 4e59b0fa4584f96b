package finance

import (
	"fmt"
	"time"
)

// Period is an optional year and month filter. Zero values mean "not set".
type Period struct {
	Year  int
	Month int
}

// IsFiltered reports whether any part of the period is set
func (p Period) IsFiltered() bool {
	return p.Year != 0 || p.Month != 0
}

// HasYearAndMonth reports whether the period names exactly one month
func (p Period) HasYearAndMonth() bool {
	return p.Year != 0 && p.Month != 0
}

// Contains reports whether t falls inside the period
func (p Period) Contains(t time.Time) bool {
	if p.Year != 0 && t.Year() != p.Year {
		return false
	}
	if p.Month != 0 && int(t.Month()) != p.Month {
		return false
	}
	return true
}

// ContainsMonth reports whether the (year, month) pair falls inside the period
func (p Period) ContainsMonth(year, month int) bool {
	if p.Year != 0 && year != p.Year {
		return false
	}
	if p.Month != 0 && month != p.Month {
		return false
	}
	return true
}

// Title is a short human label for the period
func (p Period) Title() string {
	switch {
	case p.HasYearAndMonth():
		return fmt.Sprintf("%d/%d", p.Month, p.Year)
	case p.Year != 0:
		return fmt.Sprintf("Year %d", p.Year)
	case p.Month != 0:
		return fmt.Sprintf("Month %d (all years)", p.Month)
	default:
		return "All time"
	}
}

// monthStart truncates t to the first day of its month in UTC
func monthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// dateOnly truncates t to midnight UTC
func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Range returns the half-open [from, to) interval covered by the period.
// ok is false when no year is set, because a month alone spans every year.
func (p Period) Range() (from, to time.Time, ok bool) {
	if p.Year == 0 {
		return time.Time{}, time.Time{}, false
	}
	if p.Month == 0 {
		from = time.Date(p.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
		return from, from.AddDate(1, 0, 0), true
	}
	from = time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0), true
}
