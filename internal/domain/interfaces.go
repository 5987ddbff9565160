package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Notifier is the notification delivery collaborator.
// Both calls are idempotent by id.
type Notifier interface {
	Schedule(ctx context.Context, req NotificationRequest) error
	Cancel(ctx context.Context, id string) error
}

// SupplementInput carries the user-editable fields of a supplement
type SupplementInput struct {
	Name         string
	Dosage       string
	Instructions string
	Time         TimeOfDay
	Recurrence   Recurrence
}

// PregnancyService tracks the gestational week and onboarding state
type PregnancyService interface {
	SetStartDate(ctx context.Context, date time.Time) error
	StartDate() time.Time
	CurrentWeek(now time.Time) int
	BabySize(week int) BabySize
	CompleteOnboarding(ctx context.Context, name string, startDate time.Time) error
	ResetOnboarding(ctx context.Context) error
	HasCompletedOnboarding() bool
	UserName() string
}

// SupplementService owns the intake routine
type SupplementService interface {
	Add(ctx context.Context, input SupplementInput) (*Supplement, error)
	Update(ctx context.Context, supplement Supplement) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status SupplementStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAt(ctx context.Context, index int) error
	List() []Supplement
	ActiveToday(now time.Time) []Supplement
	Progress(now time.Time) (taken, total int)
	ProgressRatio(now time.Time) float64
	CheckDayRollover(ctx context.Context) bool
}

// VisitService owns the next appointment, its checklist and questions
type VisitService interface {
	ScheduleAppointment(ctx context.Context, doctor, location string, date time.Time) error
	ResetAppointment(ctx context.Context) error
	Appointment() (Appointment, bool)
	AddChecklistItem(ctx context.Context, title string) (*ChecklistItem, error)
	ToggleChecklistItem(ctx context.Context, id uuid.UUID) error
	DeleteChecklistItem(ctx context.Context, id uuid.UUID) error
	DeleteChecklistItemAt(ctx context.Context, index int) error
	Checklist() []ChecklistItem
	ChecklistProgress() (done, total int)
	SetQuestions(ctx context.Context, text string) error
	Questions() string
	Countdown(now time.Time) (string, bool)
}
