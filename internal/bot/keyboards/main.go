package keyboards

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/vladimiradmaev/mammafy-helper/internal/domain"
)

// Callback data prefixes
const (
	CallbackStatus = "status"
	CallbackToggle = "toggle"
)

// StatusData is the callback payload that sets a supplement status
func StatusData(id uuid.UUID, status domain.SupplementStatus) string {
	return fmt.Sprintf("%s|%s|%s", CallbackStatus, id, status)
}

// ToggleData is the callback payload that flips a checklist item
func ToggleData(id uuid.UUID) string {
	return fmt.Sprintf("%s|%s", CallbackToggle, id)
}

var statusButtons = []struct {
	status domain.SupplementStatus
	label  string
}{
	{domain.StatusTaken, "✅"},
	{domain.StatusLate, "⏰"},
	{domain.StatusMissed, "❌"},
	{domain.StatusPending, "↩️"},
}

// TodayMenu creates one row of status buttons per supplement due today
func TodayMenu(supplements []domain.Supplement) (tgbotapi.InlineKeyboardMarkup, bool) {
	if len(supplements) == 0 {
		return tgbotapi.InlineKeyboardMarkup{}, false
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(supplements))
	for _, sup := range supplements {
		row := tgbotapi.NewInlineKeyboardRow()
		for _, b := range statusButtons {
			if b.status == sup.Status {
				continue
			}
			label := fmt.Sprintf("%s %s", b.label, sup.Name)
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, StatusData(sup.ID, b.status)))
		}
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...), true
}

// ChecklistMenu creates a toggle button per checklist item
func ChecklistMenu(items []domain.ChecklistItem) (tgbotapi.InlineKeyboardMarkup, bool) {
	if len(items) == 0 {
		return tgbotapi.InlineKeyboardMarkup{}, false
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(items))
	for _, item := range items {
		mark := "⬜"
		if item.IsCompleted {
			mark = "☑️"
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%s %s", mark, item.Title), ToggleData(item.ID)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...), true
}
