package handlers

import (
	"context"
	"errors"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/mammafy-helper/internal/bot/keyboards"
	"github.com/vladimiradmaev/mammafy-helper/internal/bot/menus"
	"github.com/vladimiradmaev/mammafy-helper/internal/domain"
	apperrors "github.com/vladimiradmaev/mammafy-helper/internal/errors"
	"github.com/vladimiradmaev/mammafy-helper/internal/utils"
)

// BotAPI is the subset of *tgbotapi.BotAPI used by the handlers
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Dependencies holds all service dependencies for handlers
type Dependencies struct {
	Pregnancy   domain.PregnancyService
	Supplements domain.SupplementService
	Visits      domain.VisitService
	Clock       utils.Clock
	Location    *time.Location
	Errors      *apperrors.Handler
}

func (d Dependencies) now() time.Time {
	if d.Clock != nil {
		return d.Clock()
	}
	return time.Now().In(d.location())
}

func (d Dependencies) location() *time.Location {
	if d.Location != nil {
		return d.Location
	}
	return time.Local
}

// todayView renders the supplements due today and their status buttons
func (d Dependencies) todayView() (string, tgbotapi.InlineKeyboardMarkup, bool) {
	now := d.now()
	active := d.Supplements.ActiveToday(now)
	taken, total := d.Supplements.Progress(now)
	keyboard, ok := keyboards.TodayMenu(active)
	return menus.TodayText(active, taken, total), keyboard, ok
}

// visitView renders the appointment screen and the checklist buttons
func (d Dependencies) visitView() (string, tgbotapi.InlineKeyboardMarkup, bool) {
	appointment, has := d.Visits.Appointment()
	countdown, _ := d.Visits.Countdown(d.now())
	checklist := d.Visits.Checklist()
	done, _ := d.Visits.ChecklistProgress()

	text := menus.VisitText(menus.VisitSummary{
		Appointment:    appointment,
		HasAppointment: has,
		Countdown:      countdown,
		Checklist:      checklist,
		Done:           done,
		Questions:      d.Visits.Questions(),
	})
	keyboard, ok := keyboards.ChecklistMenu(checklist)
	return text, keyboard, ok
}

// replyError tells the user what was wrong with their input or date range. Other errors are logged
// and answered with a generic apology.
func (d Dependencies) replyError(ctx context.Context, api BotAPI, chatID int64, err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && (appErr.Type == apperrors.ErrorTypeValidation || appErr.Type == apperrors.ErrorTypeInvalidRange) {
		return menus.SendText(api, chatID, "⚠️ "+appErr.Message)
	}
	if appErr == nil {
		err = apperrors.NewInternalError(err)
	}
	d.Errors.Handle(ctx, err)
	return menus.SendText(api, chatID, "Sorry, something went wrong. Please try again.")
}

func sendView(api BotAPI, chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup, hasKeyboard bool) error {
	if hasKeyboard {
		return menus.SendWithKeyboard(api, chatID, text, keyboard)
	}
	return menus.SendText(api, chatID, text)
}
