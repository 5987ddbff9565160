package handlers

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/mammafy-helper/internal/bot/keyboards"
	"github.com/vladimiradmaev/mammafy-helper/internal/logger"
)

// CallbackHandler handles inline button presses
type CallbackHandler struct {
	api  BotAPI
	deps Dependencies
}

// NewCallbackHandler creates a new callback handler
func NewCallbackHandler(api BotAPI, deps Dependencies) *CallbackHandler {
	return &CallbackHandler{
		api:  api,
		deps: deps,
	}
}

// Handle processes a callback query and redraws the message the button belongs to
func (h *CallbackHandler) Handle(ctx context.Context, query *tgbotapi.CallbackQuery) error {
	// Answer the callback query first
	if _, err := h.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		logger.Warn("Failed to answer callback query", "error", err)
	}
	if query.Message == nil {
		return nil
	}

	action, err := parseCallback(query.Data)
	if err != nil {
		logger.Debug("Ignoring unknown callback", "data", query.Data)
		return nil
	}

	chatID := query.Message.Chat.ID
	messageID := query.Message.MessageID

	switch action.Kind {
	case keyboards.CallbackStatus:
		if err := h.deps.Supplements.UpdateStatus(ctx, action.ID, action.Status); err != nil {
			return h.deps.replyError(ctx, h.api, chatID, err)
		}
		text, keyboard, ok := h.deps.todayView()
		return h.redraw(chatID, messageID, text, keyboard, ok)
	case keyboards.CallbackToggle:
		if err := h.deps.Visits.ToggleChecklistItem(ctx, action.ID); err != nil {
			return h.deps.replyError(ctx, h.api, chatID, err)
		}
		text, keyboard, ok := h.deps.visitView()
		return h.redraw(chatID, messageID, text, keyboard, ok)
	}
	return nil
}

func (h *CallbackHandler) redraw(chatID int64, messageID int, text string, keyboard tgbotapi.InlineKeyboardMarkup, hasKeyboard bool) error {
	if hasKeyboard {
		_, err := h.api.Send(tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, keyboard))
		return err
	}
	_, err := h.api.Send(tgbotapi.NewEditMessageText(chatID, messageID, text))
	return err
}
