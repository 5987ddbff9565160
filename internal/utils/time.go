package utils

import (
	"fmt"
	"time"
)

// DateKeyLayout is the layout used for per-day notification identifiers.
const DateKeyLayout = "2006-01-02"

// Clock returns the current time. Services take one so tests can pin "now".
type Clock func() time.Time

// SystemClock returns a Clock reporting wall time in loc.
func SystemClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return func() time.Time {
		return time.Now().In(loc)
	}
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day in a's location.
func SameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// civilDays counts calendar days since the epoch, ignoring DST shifts.
func civilDays(t time.Time) int64 {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).Unix() / 86400
}

// DaysBetween returns the number of calendar days from a to b (negative if b is earlier).
// b is evaluated in a's location.
func DaysBetween(a, b time.Time) int {
	return int(civilDays(b.In(a.Location())) - civilDays(a))
}

// StartOfISOWeek returns the Monday midnight of the ISO week containing t.
func StartOfISOWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7 // Monday = 0
	day := StartOfDay(t)
	return time.Date(day.Year(), day.Month(), day.Day()-offset, 0, 0, 0, 0, day.Location())
}

// WeeksBetween counts the Monday boundaries crossed between from and to.
// Two instants in the same ISO week are 0 weeks apart; Sunday to the next Monday is 1.
func WeeksBetween(from, to time.Time) int {
	// Both ends are Mondays, so the difference is always a whole number of weeks.
	return DaysBetween(StartOfISOWeek(from), StartOfISOWeek(to.In(from.Location()))) / 7
}

// EachDay calls fn for every calendar day from start to end inclusive.
// Nothing happens when end falls before start.
func EachDay(start, end time.Time, fn func(day time.Time)) {
	day := StartOfDay(start)
	last := StartOfDay(end.In(start.Location()))
	for !day.After(last) {
		fn(day)
		day = time.Date(day.Year(), day.Month(), day.Day()+1, 0, 0, 0, 0, day.Location())
	}
}

// DateKey formats the calendar day of t as YYYY-MM-DD.
func DateKey(t time.Time) string {
	return t.Format(DateKeyLayout)
}

// MaxTime returns the later of a and b.
func MaxTime(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}

// FormatDuration renders d as HH:MM:SS with hours allowed to grow past 24 (and 99).
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// ParseDate parses YYYY-MM-DD in loc.
func ParseDate(str string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateKeyLayout, str, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse date %q: %w", str, err)
	}
	return t, nil
}

// ParseDateTime parses "YYYY-MM-DD HH:MM" in loc.
func ParseDateTime(str string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02 15:04", str, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse date and time %q: %w", str, err)
	}
	return t, nil
}
