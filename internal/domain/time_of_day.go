package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

const timeOfDayLayout = "15:04"

// TimeOfDay is a date-independent hour and minute
type TimeOfDay struct {
	Hour   int
	Minute int
}

// NewTimeOfDay takes the hour and minute of t.
func NewTimeOfDay(t time.Time) TimeOfDay {
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}
}

// ParseTimeOfDay parses "HH:MM".
func ParseTimeOfDay(str string) (TimeOfDay, error) {
	t, err := time.Parse(timeOfDayLayout, str)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("failed to parse time of day: %v", err)
	}
	return NewTimeOfDay(t), nil
}

// On places the time of day on the calendar day of day.
func (t TimeOfDay) On(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour, t.Minute, 0, 0, day.Location())
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("failed to parse time of day: %v", err)
	}
	parsed, err := ParseTimeOfDay(str)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
