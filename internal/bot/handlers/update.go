package handlers

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/mammafy-helper/internal/bot/state"
	"github.com/vladimiradmaev/mammafy-helper/internal/logger"
)

// UpdateHandler handles telegram updates and coordinates other handlers
type UpdateHandler struct {
	api             BotAPI
	deps            Dependencies
	ownerChatID     int64
	callbackHandler *CallbackHandler
	commandHandler  *CommandHandler
	textHandler     *TextHandler
}

// NewUpdateHandler creates a new update handler serving only ownerChatID
func NewUpdateHandler(api BotAPI, ownerChatID int64, deps Dependencies, stateManager state.StateManager) *UpdateHandler {
	return &UpdateHandler{
		api:             api,
		deps:            deps,
		ownerChatID:     ownerChatID,
		callbackHandler: NewCallbackHandler(api, deps),
		commandHandler:  NewCommandHandler(api, deps, stateManager),
		textHandler:     NewTextHandler(api, deps, stateManager),
	}
}

// Handle processes a telegram update
func (h *UpdateHandler) Handle(ctx context.Context, update tgbotapi.Update) error {
	chat := update.FromChat()
	if chat == nil {
		return nil
	}
	if chat.ID != h.ownerChatID {
		logger.Warn("Ignoring update from foreign chat", "chat_id", chat.ID)
		return nil
	}

	// An incoming update means the user is back; statuses reset on a new day.
	if h.deps.Supplements.CheckDayRollover(ctx) {
		logger.Info("Daily supplement statuses reset")
	}

	if update.CallbackQuery != nil {
		return h.callbackHandler.Handle(ctx, update.CallbackQuery)
	}

	if update.Message != nil {
		if update.Message.IsCommand() {
			return h.commandHandler.Handle(ctx, update.Message)
		}
		if update.Message.Text != "" {
			return h.textHandler.Handle(ctx, update.Message)
		}
	}

	return nil
}
