package birthday

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// TestNewWindow verifies that the window starts at today's date and covers the given number of
// days, independent of the time of day and the location of today.
func TestNewWindow(t *testing.T) {
	prague := time.FixedZone("CEST", 2*60*60)

	w := NewWindow(time.Date(2024, time.June, 27, 23, 59, 0, 0, prague), DefaultDays)
	assert.Equal(t, date(2024, time.June, 27), w.Start)
	assert.Equal(t, date(2024, time.July, 3), w.End)
	assert.Equal(t, 7, w.Days())

	single := NewWindow(date(2024, time.June, 27), 0)
	assert.Equal(t, single.Start, single.End)
	assert.Equal(t, 1, single.Days())
}

// TestContains checks window membership at month and year boundaries.
func TestContains(t *testing.T) {
	tests := []struct {
		name  string
		today time.Time
		birth time.Time
		want  bool
	}{
		{"today", date(2024, time.June, 27), date(1990, time.June, 27), true},
		{"cross month", date(2024, time.June, 27), date(1985, time.July, 2), true},
		{"last day", date(2024, time.June, 27), date(1985, time.July, 3), true},
		{"one day too late", date(2024, time.June, 27), date(1985, time.July, 4), false},
		{"already passed", date(2024, time.June, 27), date(1970, time.June, 20), false},
		{"yesterday", date(2024, time.June, 27), date(1970, time.June, 26), false},
		{"cross year", date(2024, time.December, 28), date(2001, time.January, 2), true},
		{"cross year same month passed", date(2024, time.December, 28), date(2001, time.December, 20), false},
		{"cross year new year's eve", date(2024, time.December, 28), date(1999, time.December, 31), true},
		{"end of january", date(2025, time.January, 30), date(1980, time.January, 31), true},
		{"start of same month not upcoming", date(2025, time.January, 30), date(1980, time.January, 3), false},
		{"start of next month", date(2025, time.January, 30), date(1980, time.February, 5), true},
		{"tomorrow", date(2024, time.June, 27), date(2000, time.June, 28), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWindow(tt.today, DefaultDays)
			assert.Equal(t, tt.want, w.Contains(tt.birth))
			assert.Equal(t, tt.want, containsKey(w.Keys(), Key(tt.birth)))
		})
	}
}

// TestLeapDay verifies that February 29 birthdays are celebrated on February 28 in years
// without a leap day.
func TestLeapDay(t *testing.T) {
	leapling := date(2000, time.February, 29)

	// 2025 is not a leap year: February 28 counts.
	assert.True(t, NewWindow(date(2025, time.February, 28), DefaultDays).Contains(leapling))
	assert.True(t, NewWindow(date(2025, time.February, 22), DefaultDays).Contains(leapling))
	assert.False(t, NewWindow(date(2025, time.March, 1), DefaultDays).Contains(leapling))
	assert.False(t, NewWindow(date(2025, time.February, 20), DefaultDays).Contains(leapling))

	// 2024 is a leap year: only February 29 itself counts.
	assert.True(t, NewWindow(date(2024, time.February, 29), DefaultDays).Contains(leapling))
	assert.False(t, NewWindow(date(2024, time.March, 1), DefaultDays).Contains(leapling))

	// Window crossing New Year into a year without February 29 does not reach February.
	assert.False(t, NewWindow(date(2024, time.December, 28), DefaultDays).Contains(leapling))

	assert.Equal(t, date(2025, time.February, 28), Anniversary(leapling, 2025))
	assert.Equal(t, date(2028, time.February, 29), Anniversary(leapling, 2028))
}

// TestKeys verifies the keys generated for windows at the month, year and leap day boundaries.
func TestKeys(t *testing.T) {
	assert.Equal(t, []int{627, 628, 629, 630, 701, 702, 703},
		NewWindow(date(2024, time.June, 27), DefaultDays).Keys())
	assert.Equal(t, []int{1228, 1229, 1230, 1231, 101, 102, 103},
		NewWindow(date(2024, time.December, 28), DefaultDays).Keys())
	assert.Equal(t, []int{226, 227, 228, 229, 301, 302, 303, 304},
		NewWindow(date(2025, time.February, 26), DefaultDays).Keys())
	assert.Equal(t, []int{226, 227, 228, 229, 301, 302, 303},
		NewWindow(date(2024, time.February, 26), DefaultDays).Keys())
}

// TestKeysAgreeWithContains compares both membership tests for every birthday of a leap year and
// every window start over two years.
func TestKeysAgreeWithContains(t *testing.T) {
	for today := date(2023, time.January, 1); today.Year() < 2025; today = today.AddDate(0, 0, 1) {
		w := NewWindow(today, DefaultDays)
		keys := w.Keys()
		for birth := date(2000, time.January, 1); birth.Year() == 2000; birth = birth.AddDate(0, 0, 1) {
			if w.Contains(birth) != containsKey(keys, Key(birth)) {
				t.Fatalf("disagreement for today %s and birthday %s", today.Format("2006-01-02"), birth.Format("01-02"))
			}
		}
	}
}

func TestIsLeapYear(t *testing.T) {
	assert.True(t, IsLeapYear(2000))
	assert.True(t, IsLeapYear(2024))
	assert.False(t, IsLeapYear(1900))
	assert.False(t, IsLeapYear(2025))
}

func containsKey(keys []int, key int) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}
