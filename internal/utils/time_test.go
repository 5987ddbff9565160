package utils

import (
	"testing"
	"time"
)

func TestWeeksBetween(t *testing.T) {
	// 2026-03-08 is a Sunday, 2026-03-09 a Monday.
	sunday := time.Date(2026, 3, 8, 23, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		to   time.Time
		want int
	}{
		{name: "same instant", to: sunday, want: 0},
		{name: "next monday", to: time.Date(2026, 3, 9, 0, 30, 0, 0, time.UTC), want: 1},
		{name: "next sunday", to: time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC), want: 1},
		{name: "two mondays later", to: time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC), want: 2},
		{name: "previous week", to: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), want: -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WeeksBetween(sunday, tt.to); got != tt.want {
				t.Fatalf("WeeksBetween = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDaysBetweenAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}
	before := time.Date(2026, 3, 28, 12, 0, 0, 0, loc)
	after := time.Date(2026, 3, 30, 0, 30, 0, 0, loc)
	if got := DaysBetween(before, after); got != 2 {
		t.Fatalf("DaysBetween = %d, want 2", got)
	}
	if !SameDay(before, before.Add(11*time.Hour)) {
		t.Fatal("expected same day")
	}
}

func TestEachDay(t *testing.T) {
	var keys []string
	EachDay(time.Date(2026, 2, 27, 18, 0, 0, 0, time.UTC), time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC), func(day time.Time) {
		keys = append(keys, DateKey(day))
	})
	want := []string{"2026-02-27", "2026-02-28", "2026-03-01"}
	if len(keys) != len(want) {
		t.Fatalf("got %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("got %v, want %v", keys, want)
		}
	}

	called := false
	EachDay(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), func(time.Time) {
		called = true
	})
	if called {
		t.Fatal("inverted range should not iterate")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00:00"},
		{-time.Minute, "00:00:00"},
		{time.Second, "00:00:01"},
		{999 * time.Millisecond, "00:00:00"},
		{26*time.Hour + 3*time.Minute, "26:03:00"},
		{646*time.Hour + 45*time.Minute + 15*time.Second, "646:45:15"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2026-03-10", time.UTC)
	if err != nil || !got.Equal(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("ParseDate = %v, %v", got, err)
	}
	if _, err := ParseDateTime("2026-03-10 9am", time.UTC); err == nil {
		t.Fatal("expected parse error")
	}
}
