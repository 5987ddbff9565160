package handlers

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/mammafy-helper/internal/bot/menus"
	"github.com/vladimiradmaev/mammafy-helper/internal/bot/state"
)

// TextHandler handles free-text answers to a previous prompt
type TextHandler struct {
	api          BotAPI
	deps         Dependencies
	stateManager state.StateManager
}

// NewTextHandler creates a new text handler
func NewTextHandler(api BotAPI, deps Dependencies, stateManager state.StateManager) *TextHandler {
	return &TextHandler{
		api:          api,
		deps:         deps,
		stateManager: stateManager,
	}
}

// Handle processes a text message
func (h *TextHandler) Handle(ctx context.Context, message *tgbotapi.Message) error {
	chatID := message.Chat.ID

	switch h.stateManager.GetUserState(chatID) {
	case state.WaitingForQuestions:
		return h.handleQuestions(ctx, message)
	case state.WaitingForChecklistItem:
		return h.handleChecklistItem(ctx, message)
	default:
		return menus.SendText(h.api, chatID, "Please use a command. /help lists them all.")
	}
}

func (h *TextHandler) handleQuestions(ctx context.Context, message *tgbotapi.Message) error {
	chatID := message.Chat.ID
	if err := h.deps.Visits.SetQuestions(ctx, message.Text); err != nil {
		return h.deps.replyError(ctx, h.api, chatID, err)
	}
	h.stateManager.ClearUserState(chatID)
	return menus.SendText(h.api, chatID, "Questions saved.")
}

func (h *TextHandler) handleChecklistItem(ctx context.Context, message *tgbotapi.Message) error {
	chatID := message.Chat.ID
	if _, err := h.deps.Visits.AddChecklistItem(ctx, message.Text); err != nil {
		// Keep waiting so the user can try again.
		return h.deps.replyError(ctx, h.api, chatID, err)
	}
	h.stateManager.ClearUserState(chatID)
	text, keyboard, ok := h.deps.visitView()
	return sendView(h.api, chatID, text, keyboard, ok)
}
