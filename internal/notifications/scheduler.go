package notifications

import (
	"fmt"
	"time"

	"github.com/vladimiradmaev/mammafy-helper/internal/domain"
	"github.com/vladimiradmaev/mammafy-helper/internal/utils"
)

// Fixed identifiers of the appointment reminders. The "NextVisit_" prefix keeps
// them apart from the uuid-prefixed daily reminder ids.
const (
	VisitDayBeforeID    = "NextVisit_DayBefore"
	Visit3HoursBeforeID = "NextVisit_3HoursBefore"
	VisitExactTimeID    = "NextVisit_ExactTime"
)

// VisitReminderIDs lists the fixed appointment reminder ids.
var VisitReminderIDs = []string{VisitDayBeforeID, Visit3HoursBeforeID, VisitExactTimeID}

// ContentFunc produces title and body for the reminder firing on day.
type ContentFunc func(day time.Time) (title, body string)

// Scheduler turns reminder definitions into concrete requests. It holds no state
// besides the clock used to avoid scheduling daily reminders into the past.
type Scheduler struct {
	now utils.Clock
}

// NewScheduler creates a scheduler reading "today" from clock
func NewScheduler(clock utils.Clock) *Scheduler {
	if clock == nil {
		clock = time.Now
	}
	return &Scheduler{now: clock}
}

// DailyID is the identifier of the reminder for owner on day.
func DailyID(owner string, day time.Time) string {
	return fmt.Sprintf("%s_%s", owner, utils.DateKey(day))
}

// ProjectDaily produces one request per calendar day from max(start, today) to end
// inclusive, firing at the given time of day. Inverted or past ranges yield nothing.
func (s *Scheduler) ProjectDaily(owner string, start, end time.Time, at domain.TimeOfDay, content ContentFunc) []domain.NotificationRequest {
	if start.IsZero() || end.IsZero() {
		return nil
	}

	today := utils.StartOfDay(s.now().In(start.Location()))
	from := utils.MaxTime(utils.StartOfDay(start), today)

	var requests []domain.NotificationRequest
	utils.EachDay(from, end, func(day time.Time) {
		title, body := content(day)
		requests = append(requests, domain.NotificationRequest{
			ID:       DailyID(owner, day),
			Title:    title,
			Body:     body,
			FireDate: at.On(day),
		})
	})
	return requests
}

// RetractDaily lists every daily id for owner over the full stored range, past days
// included. Callers must pass the range as it was stored before any edit.
func (s *Scheduler) RetractDaily(owner string, start, end time.Time) []string {
	if start.IsZero() || end.IsZero() {
		return nil
	}

	var ids []string
	utils.EachDay(start, end, func(day time.Time) {
		ids = append(ids, DailyID(owner, day))
	})
	return ids
}

// ProjectRecurrence projects the daily reminders of a supplement.
// Always-recurrences have no bounded day set and produce nothing.
func (s *Scheduler) ProjectRecurrence(sup domain.Supplement, content ContentFunc) []domain.NotificationRequest {
	start, end, ok := sup.Recurrence.Bounds()
	if !ok || !sup.Recurrence.Valid() {
		return nil
	}
	return s.ProjectDaily(sup.ID.String(), start, end, sup.Time, content)
}

// RetractRecurrence lists the daily ids a supplement may have scheduled.
func (s *Scheduler) RetractRecurrence(sup domain.Supplement) []string {
	start, end, ok := sup.Recurrence.Bounds()
	if !ok {
		return nil
	}
	return s.RetractDaily(sup.ID.String(), start, end)
}

// ProjectFixed produces the day-before, 3-hours-before and exact-time reminders.
// Past fire times are not filtered here.
func (s *Scheduler) ProjectFixed(appointment domain.Appointment) []domain.NotificationRequest {
	date := appointment.Date
	clock := date.Format("3:04 PM")

	return []domain.NotificationRequest{
		{
			ID:       VisitDayBeforeID,
			Title:    "Appointment Tomorrow",
			Body:     fmt.Sprintf("Remember your appointment with %s tomorrow at %s.", appointment.DoctorName, clock),
			FireDate: date.AddDate(0, 0, -1),
		},
		{
			ID:       Visit3HoursBeforeID,
			Title:    "Appointment Soon",
			Body:     fmt.Sprintf("You have an appointment with %s in 3 hours at %s.", appointment.DoctorName, appointment.Location),
			FireDate: date.Add(-3 * time.Hour),
		},
		{
			ID:       VisitExactTimeID,
			Title:    "Appointment Now",
			Body:     fmt.Sprintf("It's time for your appointment with %s at %s.", appointment.DoctorName, appointment.Location),
			FireDate: date,
		},
	}
}
