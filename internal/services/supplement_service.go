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

var _ domain.SupplementService = (*SupplementService)(nil)

type SupplementService struct {
	store       storage.Store
	notifier    domain.Notifier
	scheduler   *notifications.Scheduler
	errs        *apperrors.Handler
	now         utils.Clock
	pick        notifications.Picker
	supplements []domain.Supplement
	lastChecked time.Time
	mu          sync.Mutex
}

// SupplementOption customises a SupplementService
type SupplementOption func(*SupplementService)

// WithPicker sets how reminder copy is chosen
func WithPicker(pick notifications.Picker) SupplementOption {
	return func(s *SupplementService) {
		s.pick = pick
	}
}

// NewSupplementService loads the routine, runs the day-rollover check and
// reinstalls the daily reminders of every stored supplement.
// Unreadable stored data falls back to an empty routine.
func NewSupplementService(
	ctx context.Context,
	store storage.Store,
	notifier domain.Notifier,
	scheduler *notifications.Scheduler,
	errs *apperrors.Handler,
	clock utils.Clock,
	opts ...SupplementOption,
) *SupplementService {
	if clock == nil {
		clock = time.Now
	}
	s := &SupplementService{
		store:       store,
		notifier:    notifier,
		scheduler:   scheduler,
		errs:        errs,
		now:         clock,
		pick:        notifications.RandomPicker(clock().UnixNano()),
		supplements: []domain.Supplement{},
	}
	for _, opt := range opts {
		opt(s)
	}

	var loaded []domain.Supplement
	if load(ctx, store, errs, storage.KeySupplements, &loaded) && loaded != nil {
		s.supplements = loaded
	}

	var lastChecked time.Time
	if load(ctx, store, errs, storage.KeyLastOpenedDate, &lastChecked) {
		s.lastChecked = lastChecked
	}

	s.CheckDayRollover(ctx)

	// Reminders live only in the notifier, so they are installed again on every start.
	for _, sup := range s.supplements {
		s.schedule(ctx, sup)
	}
	return s
}

// Add appends a new pending supplement and schedules its daily reminders.
// An empty name is rejected before anything changes.
func (s *SupplementService) Add(ctx context.Context, input domain.SupplementInput) (*domain.Supplement, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sup := domain.Supplement{
		ID:           uuid.New(),
		Name:         input.Name,
		Dosage:       input.Dosage,
		Instructions: input.Instructions,
		Time:         input.Time,
		Status:       domain.StatusPending,
		DateAdded:    s.now(),
		Recurrence:   input.Recurrence,
	}
	s.checkRange(ctx, sup)

	s.supplements = append(s.supplements, sup)
	s.persist(ctx)
	s.schedule(ctx, sup)

	return &sup, nil
}

// Update replaces the stored supplement with the same id, keeping its position.
// Reminders of the old range are retracted before the new range is scheduled.
// An unknown id is a no-op.
func (s *SupplementService) Update(ctx context.Context, updated domain.Supplement) error {
	if strings.TrimSpace(updated.Name) == "" {
		return apperrors.ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	index := s.indexOf(updated.ID)
	if index < 0 {
		s.errs.Handle(ctx, apperrors.NewNotFoundError("supplement", updated.ID.String()))
		return nil
	}

	old := s.supplements[index]
	if !updated.Status.Valid() {
		updated.Status = old.Status
	}
	if updated.DateAdded.IsZero() {
		updated.DateAdded = old.DateAdded
	}
	s.checkRange(ctx, updated)

	s.retract(ctx, old)
	s.supplements[index] = updated
	s.persist(ctx)
	s.schedule(ctx, updated)
	return nil
}

// UpdateStatus sets the status of one supplement. An unknown id is a no-op.
func (s *SupplementService) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.SupplementStatus) error {
	if !status.Valid() {
		return apperrors.ErrInvalidStatus
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	index := s.indexOf(id)
	if index < 0 {
		s.errs.Handle(ctx, apperrors.NewNotFoundError("supplement", id.String()))
		return nil
	}
	s.supplements[index].Status = status
	s.persist(ctx)
	return nil
}

// Delete removes a supplement and retracts its reminders. An unknown id is a no-op.
func (s *SupplementService) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := s.indexOf(id)
	if index < 0 {
		s.errs.Handle(ctx, apperrors.NewNotFoundError("supplement", id.String()))
		return nil
	}
	s.removeAt(ctx, index)
	return nil
}

// DeleteAt removes the supplement at position index. Out-of-range is a no-op.
func (s *SupplementService) DeleteAt(ctx context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.supplements) {
		s.errs.Handle(ctx, apperrors.NewNotFoundError("supplement position", strconv.Itoa(index)))
		return nil
	}
	s.removeAt(ctx, index)
	return nil
}

// List returns a copy of every supplement in insertion order
func (s *SupplementService) List() []domain.Supplement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Supplement(nil), s.supplements...)
}

// Get returns the supplement with id
func (s *SupplementService) Get(id uuid.UUID) (domain.Supplement, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	index := s.indexOf(id)
	if index < 0 {
		return domain.Supplement{}, false
	}
	return s.supplements[index], true
}

// ActiveToday returns the supplements due on the calendar day of now, in insertion order
func (s *SupplementService) ActiveToday(now time.Time) []domain.Supplement {
	s.mu.Lock()
	defer s.mu.Unlock()

	var active []domain.Supplement
	for _, sup := range s.supplements {
		if sup.ActiveOn(now) {
			active = append(active, sup)
		}
	}
	return active
}

// Progress counts taken (taken or late) and total over today's active supplements
func (s *SupplementService) Progress(now time.Time) (taken, total int) {
	for _, sup := range s.ActiveToday(now) {
		total++
		if sup.Status.CountsAsTaken() {
			taken++
		}
	}
	return taken, total
}

// ProgressRatio is taken/total, or 0 when nothing is due
func (s *SupplementService) ProgressRatio(now time.Time) float64 {
	taken, total := s.Progress(now)
	if total == 0 {
		return 0
	}
	return float64(taken) / float64(total)
}

// CheckDayRollover resets every status to pending the first time it runs on a new
// calendar day. It reports whether a reset happened.
func (s *SupplementService) CheckDayRollover(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if !s.lastChecked.IsZero() && utils.SameDay(now, s.lastChecked) {
		return false
	}

	for i := range s.supplements {
		s.supplements[i].Status = domain.StatusPending
	}
	s.persist(ctx)

	s.lastChecked = now
	if err := storage.SaveJSON(ctx, s.store, storage.KeyLastOpenedDate, now); err != nil {
		s.errs.Handle(ctx, apperrors.NewPersistenceError(err, storage.KeyLastOpenedDate))
	}
	return true
}

func (s *SupplementService) indexOf(id uuid.UUID) int {
	for i, sup := range s.supplements {
		if sup.ID == id {
			return i
		}
	}
	return -1
}

func (s *SupplementService) removeAt(ctx context.Context, index int) {
	s.retract(ctx, s.supplements[index])
	s.supplements = append(s.supplements[:index], s.supplements[index+1:]...)
	s.persist(ctx)
}

func (s *SupplementService) checkRange(ctx context.Context, sup domain.Supplement) {
	if !sup.Recurrence.Valid() {
		s.errs.Handle(ctx, apperrors.NewInvalidRangeError(sup.ID.String()))
	}
}

func (s *SupplementService) schedule(ctx context.Context, sup domain.Supplement) {
	content := notifications.SupplementContent(sup.Name, sup.Dosage, s.pick)
	for _, req := range s.scheduler.ProjectRecurrence(sup, content) {
		if err := s.notifier.Schedule(ctx, req); err != nil {
			s.errs.Handle(ctx, apperrors.NewDeliveryError(err, req.ID))
		}
	}
}

func (s *SupplementService) retract(ctx context.Context, sup domain.Supplement) {
	for _, id := range s.scheduler.RetractRecurrence(sup) {
		if err := s.notifier.Cancel(ctx, id); err != nil {
			s.errs.Handle(ctx, apperrors.NewDeliveryError(err, id))
		}
	}
}

// persist writes the whole list. Failures are reported, memory stays authoritative.
func (s *SupplementService) persist(ctx context.Context) {
	if err := storage.SaveJSON(ctx, s.store, storage.KeySupplements, s.supplements); err != nil {
		s.errs.Handle(ctx, apperrors.NewPersistenceError(err, storage.KeySupplements))
	}
}
