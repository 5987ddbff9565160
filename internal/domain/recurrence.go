package domain

import (
	"time"

	"github.com/vladimiradmaev/mammafy-helper/internal/utils"
)

type recurrenceKind int

const (
	recurrenceAlways recurrenceKind = iota
	recurrenceRange
)

// Recurrence is either Always (legacy records without a range) or an
// inclusive calendar-day Range. The zero value is Always.
type Recurrence struct {
	kind  recurrenceKind
	start time.Time
	end   time.Time
}

// Always returns a recurrence active on every day.
func Always() Recurrence {
	return Recurrence{kind: recurrenceAlways}
}

// Range returns a recurrence active from start to end inclusive, compared by day.
func Range(start, end time.Time) Recurrence {
	return Recurrence{kind: recurrenceRange, start: start, end: end}
}

// IsAlways reports whether the recurrence has no date range.
func (r Recurrence) IsAlways() bool {
	return r.kind == recurrenceAlways
}

// Bounds returns the stored range. ok is false for Always.
func (r Recurrence) Bounds() (start, end time.Time, ok bool) {
	if r.kind != recurrenceRange {
		return time.Time{}, time.Time{}, false
	}
	return r.start, r.end, true
}

// Valid is false for ranges that are inverted or missing a bound.
// Such ranges are kept as-is but never active.
func (r Recurrence) Valid() bool {
	if r.kind == recurrenceAlways {
		return true
	}
	if r.start.IsZero() || r.end.IsZero() {
		return false
	}
	return !utils.StartOfDay(r.end.In(r.start.Location())).Before(utils.StartOfDay(r.start))
}

// Contains reports whether the calendar day of now lies inside the recurrence.
func (r Recurrence) Contains(now time.Time) bool {
	if r.kind == recurrenceAlways {
		return true
	}
	if !r.Valid() {
		return false
	}
	return utils.DaysBetween(r.start, now) >= 0 && utils.DaysBetween(now, r.end) >= 0
}
