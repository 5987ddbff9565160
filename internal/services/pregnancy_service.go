package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/vladimiradmaev/mammafy-helper/internal/domain"
	apperrors "github.com/vladimiradmaev/mammafy-helper/internal/errors"
	"github.com/vladimiradmaev/mammafy-helper/internal/storage"
	"github.com/vladimiradmaev/mammafy-helper/internal/utils"
)

var defaultBabySize = domain.BabySize{Name: "Pumpkin", Icon: "heart.fill"}

// babySizes maps gestational week to a fruit-size comparison.
var babySizes = map[int]domain.BabySize{
	1:  {Name: "Poppy Seed", Icon: "circle.fill"},
	2:  {Name: "Poppy Seed", Icon: "circle.fill"},
	3:  {Name: "Poppy Seed", Icon: "circle.fill"},
	4:  {Name: "Poppy Seed", Icon: "circle.dotted"},
	5:  {Name: "Sesame Seed", Icon: "smallcircle.filled.circle"},
	6:  {Name: "Lentil", Icon: "oval.fill"},
	7:  {Name: "Blueberry", Icon: "circle.grid.2x2.fill"},
	8:  {Name: "Kidney Bean", Icon: "capsule.fill"},
	9:  {Name: "Grape", Icon: "circle.fill"},
	10: {Name: "Kumquat", Icon: "oval.portrait.fill"},
	11: {Name: "Fig", Icon: "leaf.fill"},
	12: {Name: "Lime", Icon: "circle.fill"},
	13: {Name: "Peapod", Icon: "leaf.arrow.circlepath"},
	14: {Name: "Lemon", Icon: "lemon.fill"},
	15: {Name: "Apple", Icon: "apple.logo"},
	16: {Name: "Avocado", Icon: "oval.fill"},
	17: {Name: "Turnip", Icon: "leaf.fill"},
	18: {Name: "Bell Pepper", Icon: "bell.fill"},
	19: {Name: "Heirloom Tomato", Icon: "circle.fill"},
	20: {Name: "Banana", Icon: "moon.fill"},
	21: {Name: "Carrot", Icon: "cone.fill"},
	22: {Name: "Spaghetti Squash", Icon: "oval.fill"},
	23: {Name: "Large Mango", Icon: "oval.fill"},
	24: {Name: "Ear of Corn", Icon: "leaf.fill"},
	25: {Name: "Rutabaga", Icon: "circle.fill"},
	26: {Name: "Scallion", Icon: "arrow.up"},
	27: {Name: "Cauliflower", Icon: "cloud.fill"},
	28: {Name: "Eggplant", Icon: "oval.portrait.fill"},
	29: {Name: "Butternut Squash", Icon: "capsule.fill"},
	30: {Name: "Cabbage", Icon: "rosette"},
	31: {Name: "Coconut", Icon: "circle.fill"},
	32: {Name: "Kale", Icon: "leaf.fill"},
	33: {Name: "Pineapple", Icon: "oval.portrait.fill"},
	34: {Name: "Cantaloupe", Icon: "circle.fill"},
	35: {Name: "Honeydew Melon", Icon: "circle.fill"},
	36: {Name: "Romaine Lettuce", Icon: "leaf.fill"},
	37: {Name: "Swiss Chard", Icon: "leaf.fill"},
	38: {Name: "Leek", Icon: "arrow.up"},
	39: {Name: "Mini Watermelon", Icon: "circle.fill"},
	40: {Name: "Small Pumpkin", Icon: "pumpkin.fill"},
}

var _ domain.PregnancyService = (*PregnancyService)(nil)

type PregnancyService struct {
	store     storage.Store
	errs      *apperrors.Handler
	startDate time.Time
	onboarded bool
	userName  string
	mu        sync.RWMutex
}

// NewPregnancyService loads the stored start date and onboarding state.
// Without a stored start date the pregnancy starts at clock().
func NewPregnancyService(ctx context.Context, store storage.Store, errs *apperrors.Handler, clock utils.Clock) *PregnancyService {
	if clock == nil {
		clock = time.Now
	}
	s := &PregnancyService{
		store:     store,
		errs:      errs,
		startDate: clock(),
	}

	var start time.Time
	if load(ctx, store, errs, storage.KeyPregnancyStartDate, &start) {
		s.startDate = start
	}

	var onboarded bool
	if load(ctx, store, errs, storage.KeyHasCompletedOnboarding, &onboarded) {
		s.onboarded = onboarded
	}
	var userName string
	if load(ctx, store, errs, storage.KeyUserName, &userName) {
		s.userName = userName
	}

	return s
}

// SetStartDate stores the first day of the pregnancy. Any date is accepted.
func (s *PregnancyService) SetStartDate(ctx context.Context, date time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startDate = date
	s.persist(ctx, storage.KeyPregnancyStartDate, date)
	return nil
}

func (s *PregnancyService) StartDate() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.startDate
}

// CurrentWeek returns the gestational week, never less than 1.
// Weeks advance on ISO (Monday) boundaries: a start on Sunday is in week 2 the next day.
func (s *PregnancyService) CurrentWeek(now time.Time) int {
	s.mu.RLock()
	start := s.startDate
	s.mu.RUnlock()

	week := utils.WeeksBetween(start, now) + 1
	if week < 1 {
		return 1
	}
	return week
}

// BabySize looks up the size comparison for week, with a default outside 1-40.
func (s *PregnancyService) BabySize(week int) domain.BabySize {
	if size, ok := babySizes[week]; ok {
		return size
	}
	return defaultBabySize
}

// CompleteOnboarding stores the user's name and start date and sets the onboarding flag.
func (s *PregnancyService) CompleteOnboarding(ctx context.Context, name string, startDate time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.userName = strings.TrimSpace(name)
	s.startDate = startDate
	s.onboarded = true

	s.persist(ctx, storage.KeyUserName, s.userName)
	s.persist(ctx, storage.KeyPregnancyStartDate, startDate)
	s.persist(ctx, storage.KeyHasCompletedOnboarding, true)
	return nil
}

// ResetOnboarding sends the user back to the first-run flow. Stored data is kept.
func (s *PregnancyService) ResetOnboarding(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onboarded = false
	s.persist(ctx, storage.KeyHasCompletedOnboarding, false)
	return nil
}

func (s *PregnancyService) HasCompletedOnboarding() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.onboarded
}

func (s *PregnancyService) UserName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userName
}

func (s *PregnancyService) persist(ctx context.Context, key string, v interface{}) {
	if err := storage.SaveJSON(ctx, s.store, key, v); err != nil {
		s.errs.Handle(ctx, apperrors.NewPersistenceError(err, key))
	}
}
