package notifications

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vladimiradmaev/mammafy-helper/internal/domain"
)

var testNow = time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func day(offset int) time.Time {
	return time.Date(2026, 3, 10+offset, 0, 0, 0, 0, time.UTC)
}

func staticContent(time.Time) (string, string) { return "title", "body" }

func ids(reqs []domain.NotificationRequest) []string {
	out := make([]string, len(reqs))
	for i, r := range reqs {
		out[i] = r.ID
	}
	return out
}

func TestProjectDaily(t *testing.T) {
	s := NewScheduler(fixedClock)
	nine := domain.TimeOfDay{Hour: 9}

	tests := []struct {
		name       string
		start, end time.Time
		wantIDs    []string
	}{
		{
			name:    "future range",
			start:   day(1),
			end:     day(3),
			wantIDs: []string{"sup_2026-03-11", "sup_2026-03-12", "sup_2026-03-13"},
		},
		{
			name:    "clipped to today",
			start:   day(-2),
			end:     day(1),
			wantIDs: []string{"sup_2026-03-10", "sup_2026-03-11"},
		},
		{
			name:    "single day with time component",
			start:   day(0).Add(20 * time.Hour),
			end:     day(0).Add(time.Hour),
			wantIDs: []string{"sup_2026-03-10"},
		},
		{
			name:  "entirely in the past",
			start: day(-5),
			end:   day(-1),
		},
		{
			name:  "inverted",
			start: day(3),
			end:   day(1),
		},
		{
			name:  "missing bound",
			start: day(1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(s.ProjectDaily("sup", tt.start, tt.end, nine, staticContent))
			if strings.Join(got, ",") != strings.Join(tt.wantIDs, ",") {
				t.Fatalf("got ids %v, want %v", got, tt.wantIDs)
			}
		})
	}
}

func TestProjectDailyFireTimes(t *testing.T) {
	s := NewScheduler(fixedClock)
	reqs := s.ProjectDaily("sup", day(0), day(1), domain.TimeOfDay{Hour: 9, Minute: 15}, staticContent)
	if len(reqs) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(reqs))
	}

	// Today's 09:15 has passed; it is still projected and left to the delivery side.
	want := []time.Time{
		time.Date(2026, 3, 10, 9, 15, 0, 0, time.UTC),
		time.Date(2026, 3, 11, 9, 15, 0, 0, time.UTC),
	}
	for i, req := range reqs {
		if !req.FireDate.Equal(want[i]) {
			t.Errorf("request %d fires at %v, want %v", i, req.FireDate, want[i])
		}
		if req.Title == "" || req.Body == "" {
			t.Errorf("request %d has empty content", i)
		}
	}
}

func TestRetractDailyCoversFullRange(t *testing.T) {
	s := NewScheduler(fixedClock)

	got := s.RetractDaily("sup", day(-1), day(1))
	want := []string{"sup_2026-03-09", "sup_2026-03-10", "sup_2026-03-11"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("got %v, want %v", got, want)
	}

	if got := s.RetractDaily("sup", day(2), day(1)); len(got) != 0 {
		t.Fatalf("inverted range should retract nothing, got %v", got)
	}
}

func TestRecurrenceHelpers(t *testing.T) {
	s := NewScheduler(fixedClock)
	sup := domain.Supplement{
		ID:         uuid.New(),
		Name:       "Iron",
		Time:       domain.TimeOfDay{Hour: 9},
		Recurrence: domain.Always(),
	}

	if reqs := s.ProjectRecurrence(sup, staticContent); len(reqs) != 0 {
		t.Fatalf("always-recurrence should not project reminders, got %d", len(reqs))
	}
	if got := s.RetractRecurrence(sup); len(got) != 0 {
		t.Fatalf("always-recurrence should not retract anything, got %v", got)
	}

	sup.Recurrence = domain.Range(day(0), day(2))
	reqs := s.ProjectRecurrence(sup, staticContent)
	if len(reqs) != 3 {
		t.Fatalf("expected 3 reminders, got %d", len(reqs))
	}
	if !strings.HasPrefix(reqs[0].ID, sup.ID.String()+"_") {
		t.Fatalf("reminder id %q should be prefixed by the supplement id", reqs[0].ID)
	}
}

func TestProjectFixed(t *testing.T) {
	s := NewScheduler(fixedClock)
	visit := domain.Appointment{
		DoctorName: "Dr. X",
		Location:   "Clinic",
		Date:       time.Date(2026, 3, 20, 10, 0, 0, 0, time.UTC),
	}

	reqs := s.ProjectFixed(visit)
	if len(reqs) != 3 {
		t.Fatalf("expected 3 requests, got %d", len(reqs))
	}

	want := map[string]time.Time{
		VisitDayBeforeID:    time.Date(2026, 3, 19, 10, 0, 0, 0, time.UTC),
		Visit3HoursBeforeID: time.Date(2026, 3, 20, 7, 0, 0, 0, time.UTC),
		VisitExactTimeID:    visit.Date,
	}
	for _, req := range reqs {
		if !req.FireDate.Equal(want[req.ID]) {
			t.Errorf("%s fires at %v, want %v", req.ID, req.FireDate, want[req.ID])
		}
		if !strings.Contains(req.Body, "Dr. X") {
			t.Errorf("%s body should mention the doctor: %q", req.ID, req.Body)
		}
	}

	// Past appointments are projected too.
	visit.Date = testNow.Add(-time.Hour)
	if got := s.ProjectFixed(visit); len(got) != 3 {
		t.Fatalf("past appointment should still yield 3 requests, got %d", len(got))
	}
}

func TestSupplementContent(t *testing.T) {
	title, body := SupplementContent("Iron", "1 Tablet", FirstPicker)(day(0))
	if title != "Time for your Iron 💊" {
		t.Fatalf("unexpected title %q", title)
	}
	if !strings.Contains(body, "Iron (1 Tablet)") {
		t.Fatalf("unexpected body %q", body)
	}

	a := SupplementContent("Iron", "", RandomPicker(7))
	b := SupplementContent("Iron", "", RandomPicker(7))
	for i := 0; i < 5; i++ {
		ta, ba := a(day(i))
		tb, bb := b(day(i))
		if ta != tb || ba != bb {
			t.Fatalf("same seed should give the same copy at step %d", i)
		}
		if ta == "" || ba == "" {
			t.Fatal("copy must not be empty")
		}
	}
}
