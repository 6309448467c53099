// Package birthday computes which birthdays fall into an upcoming window of days.
//
// A birthday is compared by month and day only. In years without a February 29, contacts born
// on that day celebrate on February 28.
package birthday

import "time"

// DefaultDays is the length of the upcoming-birthday window including today.
const DefaultDays = 7

// Window is an inclusive range of calendar dates. Start and End are at midnight UTC.
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow returns the window of the given number of days that starts on today's calendar
// date. A window always covers at least one day.
func NewWindow(today time.Time, days int) Window {
	if days < 1 {
		days = 1
	}
	start := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	return Window{Start: start, End: start.AddDate(0, 0, days-1)}
}

// Days returns the number of days covered by the window.
func (w Window) Days() int {
	return int(w.End.Sub(w.Start).Hours()/24) + 1
}

// Contains reports whether a person born on the given date has a birthday inside the window.
// The birthday is placed into the year of the window start and into the following year so that
// windows crossing New Year are handled.
func (w Window) Contains(birth time.Time) bool {
	for _, year := range []int{w.Start.Year(), w.Start.Year() + 1} {
		candidate := Anniversary(birth, year)
		if !candidate.Before(w.Start) && !candidate.After(w.End) {
			return true
		}
	}
	return false
}

// Keys returns the month*100+day keys of all days in the window, in chronological order. When
// the window contains February 28 of a year without February 29, the key 229 follows 228.
func (w Window) Keys() []int {
	keys := make([]int, 0, w.Days()+1)
	for d := w.Start; !d.After(w.End); d = d.AddDate(0, 0, 1) {
		keys = append(keys, Key(d))
		if d.Month() == time.February && d.Day() == 28 && !IsLeapYear(d.Year()) {
			keys = append(keys, 229)
		}
	}
	return keys
}

// Key returns month*100+day for the given date.
func Key(t time.Time) int {
	return int(t.Month())*100 + t.Day()
}

// Anniversary returns the birthday of a person born on the given date in the given year.
func Anniversary(birth time.Time, year int) time.Time {
	month, day := birth.Month(), birth.Day()
	if month == time.February && day == 29 && !IsLeapYear(year) {
		day = 28
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// IsLeapYear reports whether the year has a February 29.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
