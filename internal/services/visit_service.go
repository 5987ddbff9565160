package services

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vladimiradmaev/mammafy-helper/internal/domain"
	apperrors "github.com/vladimiradmaev/mammafy-helper/internal/errors"
	"github.com/vladimiradmaev/mammafy-helper/internal/notifications"
	"github.com/vladimiradmaev/mammafy-helper/internal/storage"
	"github.com/vladimiradmaev/mammafy-helper/internal/utils"
)

var _ domain.VisitService = (*VisitService)(nil)

type VisitService struct {
	store       storage.Store
	notifier    domain.Notifier
	scheduler   *notifications.Scheduler
	errs        *apperrors.Handler
	appointment *domain.Appointment
	checklist   []domain.ChecklistItem
	questions   string
	mu          sync.Mutex
}

// NewVisitService loads the appointment, checklist and questions and reinstalls
// the reminders of a stored appointment.
func NewVisitService(
	ctx context.Context,
	store storage.Store,
	notifier domain.Notifier,
	scheduler *notifications.Scheduler,
	errs *apperrors.Handler,
) *VisitService {
	s := &VisitService{
		store:     store,
		notifier:  notifier,
		scheduler: scheduler,
		errs:      errs,
		checklist: []domain.ChecklistItem{},
	}

	var appointment domain.Appointment
	if load(ctx, store, errs, storage.KeySavedAppointment, &appointment) {
		s.appointment = &appointment
		s.scheduleReminders(ctx, appointment)
	}

	var checklist []domain.ChecklistItem
	if load(ctx, store, errs, storage.KeySavedChecklist, &checklist) && checklist != nil {
		s.checklist = checklist
	}

	var questions string
	if load(ctx, store, errs, storage.KeySavedQuestions, &questions) {
		s.questions = questions
	}

	return s
}

// ScheduleAppointment replaces the appointment and its three reminders.
func (s *VisitService) ScheduleAppointment(ctx context.Context, doctor, location string, date time.Time) error {
	if date.IsZero() {
		return apperrors.NewValidationError("Appointment date is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.appointment != nil {
		s.cancelReminders(ctx)
	}

	appointment := domain.Appointment{DoctorName: doctor, Location: location, Date: date}
	s.appointment = &appointment
	s.persist(ctx, storage.KeySavedAppointment, appointment)
	s.scheduleReminders(ctx, appointment)
	return nil
}

// ResetAppointment clears the appointment together with the checklist and questions
// and retracts the fixed reminders.
func (s *VisitService) ResetAppointment(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelReminders(ctx)

	s.appointment = nil
	s.checklist = []domain.ChecklistItem{}
	s.questions = ""

	if err := s.store.Remove(ctx, storage.KeySavedAppointment); err != nil {
		s.errs.Handle(ctx, apperrors.NewPersistenceError(err, storage.KeySavedAppointment))
	}
	s.persist(ctx, storage.KeySavedChecklist, s.checklist)
	s.persist(ctx, storage.KeySavedQuestions, s.questions)
	return nil
}

// Appointment returns the current appointment, if any
func (s *VisitService) Appointment() (domain.Appointment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.appointment == nil {
		return domain.Appointment{}, false
	}
	return *s.appointment, true
}

func (s *VisitService) AddChecklistItem(ctx context.Context, title string) (*domain.ChecklistItem, error) {
	if strings.TrimSpace(title) == "" {
		return nil, apperrors.ErrEmptyTitle
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item := domain.ChecklistItem{ID: uuid.New(), Title: title}
	s.checklist = append(s.checklist, item)
	s.persist(ctx, storage.KeySavedChecklist, s.checklist)
	return &item, nil
}

// ToggleChecklistItem flips completion of one item. An unknown id is a no-op.
func (s *VisitService) ToggleChecklistItem(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := s.checklistIndex(id)
	if index < 0 {
		s.errs.Handle(ctx, apperrors.NewNotFoundError("checklist item", id.String()))
		return nil
	}
	s.checklist[index].IsCompleted = !s.checklist[index].IsCompleted
	s.persist(ctx, storage.KeySavedChecklist, s.checklist)
	return nil
}

func (s *VisitService) DeleteChecklistItem(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := s.checklistIndex(id)
	if index < 0 {
		s.errs.Handle(ctx, apperrors.NewNotFoundError("checklist item", id.String()))
		return nil
	}
	s.removeChecklistAt(ctx, index)
	return nil
}

func (s *VisitService) DeleteChecklistItemAt(ctx context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.checklist) {
		s.errs.Handle(ctx, apperrors.NewNotFoundError("checklist position", strconv.Itoa(index)))
		return nil
	}
	s.removeChecklistAt(ctx, index)
	return nil
}

func (s *VisitService) Checklist() []domain.ChecklistItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.ChecklistItem(nil), s.checklist...)
}

// ChecklistProgress counts completed and total checklist items
func (s *VisitService) ChecklistProgress() (done, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.checklist {
		if item.IsCompleted {
			done++
		}
	}
	return done, len(s.checklist)
}

func (s *VisitService) SetQuestions(ctx context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions = text
	s.persist(ctx, storage.KeySavedQuestions, text)
	return nil
}

func (s *VisitService) Questions() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.questions
}

// Countdown renders the time left until the appointment as HH:MM:SS.
// Hours do not roll over into days. ok is false when there is no appointment.
func (s *VisitService) Countdown(now time.Time) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.appointment == nil {
		return "", false
	}
	if !s.appointment.Date.After(now) {
		return "00:00:00", true
	}
	return utils.FormatDuration(s.appointment.Date.Sub(now)), true
}

func (s *VisitService) scheduleReminders(ctx context.Context, appointment domain.Appointment) {
	for _, req := range s.scheduler.ProjectFixed(appointment) {
		if err := s.notifier.Schedule(ctx, req); err != nil {
			s.errs.Handle(ctx, apperrors.NewDeliveryError(err, req.ID))
		}
	}
}

func (s *VisitService) cancelReminders(ctx context.Context) {
	for _, id := range notifications.VisitReminderIDs {
		if err := s.notifier.Cancel(ctx, id); err != nil {
			s.errs.Handle(ctx, apperrors.NewDeliveryError(err, id))
		}
	}
}

func (s *VisitService) checklistIndex(id uuid.UUID) int {
	for i, item := range s.checklist {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func (s *VisitService) removeChecklistAt(ctx context.Context, index int) {
	s.checklist = append(s.checklist[:index], s.checklist[index+1:]...)
	s.persist(ctx, storage.KeySavedChecklist, s.checklist)
}

func (s *VisitService) persist(ctx context.Context, key string, v interface{}) {
	if err := storage.SaveJSON(ctx, s.store, key, v); err != nil {
		s.errs.Handle(ctx, apperrors.NewPersistenceError(err, key))
	}
}
