package handlers

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/mammafy-helper/internal/bot/menus"
	"github.com/vladimiradmaev/mammafy-helper/internal/bot/state"
	"github.com/vladimiradmaev/mammafy-helper/internal/domain"
	"github.com/vladimiradmaev/mammafy-helper/internal/logger"
)

// CommandHandler handles bot commands
type CommandHandler struct {
	api          BotAPI
	deps         Dependencies
	stateManager state.StateManager
}

// NewCommandHandler creates a new command handler
func NewCommandHandler(api BotAPI, deps Dependencies, stateManager state.StateManager) *CommandHandler {
	return &CommandHandler{
		api:          api,
		deps:         deps,
		stateManager: stateManager,
	}
}

// Handle processes a command message
func (h *CommandHandler) Handle(ctx context.Context, message *tgbotapi.Message) error {
	chatID := message.Chat.ID
	args := strings.TrimSpace(message.CommandArguments())
	logger.Debug("Handling command", "command", message.Command(), "chat_id", chatID)

	// Any command abandons a pending free-text prompt.
	h.stateManager.SetUserState(chatID, state.None)

	switch message.Command() {
	case "start":
		return menus.SendText(h.api, chatID, menus.WelcomeText(h.deps.Pregnancy.UserName(), h.deps.Pregnancy.HasCompletedOnboarding()))
	case "help":
		return menus.SendText(h.api, chatID, menus.HelpText)
	case "begin":
		return h.handleBegin(ctx, chatID, args)
	case "restart":
		return h.handleRestart(ctx, chatID)
	case "week":
		return h.handleWeek(chatID)
	case "today":
		text, keyboard, ok := h.deps.todayView()
		return sendView(h.api, chatID, text, keyboard, ok)
	case "list":
		return menus.SendText(h.api, chatID, menus.SupplementListText(h.deps.Supplements.List()))
	case "add":
		return h.handleAdd(ctx, chatID, args)
	case "edit":
		return h.handleEdit(ctx, chatID, args)
	case "remove":
		return h.handleRemove(ctx, chatID, args)
	case "visit":
		text, keyboard, ok := h.deps.visitView()
		return sendView(h.api, chatID, text, keyboard, ok)
	case "schedule":
		return h.handleSchedule(ctx, chatID, args)
	case "resetvisit":
		return h.handleResetVisit(ctx, chatID)
	case "check":
		return h.handleCheck(ctx, chatID, args)
	case "toggle":
		return h.handleToggle(ctx, chatID, args)
	case "uncheck":
		return h.handleUncheck(ctx, chatID, args)
	case "questions":
		return h.handleQuestions(ctx, chatID, args)
	default:
		return h.handleUnknownCommand(chatID)
	}
}

func (h *CommandHandler) handleBegin(ctx context.Context, chatID int64, args string) error {
	start, name, err := parseBegin(args, h.deps.location())
	if err != nil {
		return h.deps.replyError(ctx, h.api, chatID, err)
	}
	if name == "" {
		name = h.deps.Pregnancy.UserName()
	}
	if err := h.deps.Pregnancy.CompleteOnboarding(ctx, name, start); err != nil {
		return h.deps.replyError(ctx, h.api, chatID, err)
	}
	return h.handleWeek(chatID)
}

func (h *CommandHandler) handleRestart(ctx context.Context, chatID int64) error {
	if err := h.deps.Pregnancy.ResetOnboarding(ctx); err != nil {
		return h.deps.replyError(ctx, h.api, chatID, err)
	}
	return menus.SendText(h.api, chatID, menus.WelcomeText("", false))
}

func (h *CommandHandler) handleWeek(chatID int64) error {
	week := h.deps.Pregnancy.CurrentWeek(h.deps.now())
	size := h.deps.Pregnancy.BabySize(week)
	return menus.SendText(h.api, chatID, menus.WeekText(week, size, h.deps.Pregnancy.StartDate()))
}

func (h *CommandHandler) handleAdd(ctx context.Context, chatID int64, args string) error {
	parsed, err := parseSupplement(args, h.deps.location())
	if err != nil {
		return h.deps.replyError(ctx, h.api, chatID, err)
	}
	sup, err := h.deps.Supplements.Add(ctx, parsed.input)
	if err != nil {
		return h.deps.replyError(ctx, h.api, chatID, err)
	}
	text := fmt.Sprintf("Added %s.\n\n%s", sup.Name, menus.SupplementListText(h.deps.Supplements.List()))
	return menus.SendText(h.api, chatID, text)
}

func (h *CommandHandler) handleEdit(ctx context.Context, chatID int64, args string) error {
	index, parsed, err := parseEdit(args, h.deps.location())
	if err != nil {
		return h.deps.replyError(ctx, h.api, chatID, err)
	}

	list := h.deps.Supplements.List()
	if index >= len(list) {
		return menus.SendText(h.api, chatID, fmt.Sprintf("There is no supplement number %d.", index+1))
	}

	// Parts left out of the command keep their current values.
	current := list[index]
	updated := domain.Supplement{
		ID:           current.ID,
		Name:         parsed.input.Name,
		Dosage:       parsed.input.Dosage,
		Instructions: current.Instructions,
		Time:         parsed.input.Time,
		Status:       current.Status,
		DateAdded:    current.DateAdded,
		Recurrence:   current.Recurrence,
	}
	if parsed.hasInstructions {
		updated.Instructions = parsed.input.Instructions
	}
	if parsed.hasRange {
		updated.Recurrence = parsed.input.Recurrence
	}
	if err := h.deps.Supplements.Update(ctx, updated); err != nil {
		return h.deps.replyError(ctx, h.api, chatID, err)
	}
	text := fmt.Sprintf("Updated %s.\n\n%s", updated.Name, menus.SupplementListText(h.deps.Supplements.List()))
	return menus.SendText(h.api, chatID, text)
}

func (h *CommandHandler) handleRemove(ctx context.Context, chatID int64, args string) error {
	index, err := parsePosition(args)
	if err != nil {
		return h.deps.replyError(ctx, h.api, chatID, err)
	}
	if err := h.deps.Supplements.DeleteAt(ctx, index); err != nil {
		return h.deps.replyError(ctx, h.api, chatID, err)
	}
	return menus.SendText(h.api, chatID, menus.SupplementListText(h.deps.Supplements.List()))
}

func (h *CommandHandler) handleSchedule(ctx context.Context, chatID int64, args string) error {
	doctor, location, date, err := parseAppointment(args, h.deps.location())
	if err != nil {
		return h.deps.replyError(ctx, h.api, chatID, err)
	}
	if err := h.deps.Visits.ScheduleAppointment(ctx, doctor, location, date); err != nil {
		return h.deps.replyError(ctx, h.api, chatID, err)
	}
	text, keyboard, ok := h.deps.visitView()
	return sendView(h.api, chatID, text, keyboard, ok)
}

func (h *CommandHandler) handleResetVisit(ctx context.Context, chatID int64) error {
	if err := h.deps.Visits.ResetAppointment(ctx); err != nil {
		return h.deps.replyError(ctx, h.api, chatID, err)
	}
	return menus.SendText(h.api, chatID, "Appointment, checklist and questions cleared.")
}

func (h *CommandHandler) handleCheck(ctx context.Context, chatID int64, args string) error {
	if args == "" {
		h.stateManager.SetUserState(chatID, state.WaitingForChecklistItem)
		return menus.SendText(h.api, chatID, "What should go on the checklist?")
	}
	if _, err := h.deps.Visits.AddChecklistItem(ctx, args); err != nil {
		return h.deps.replyError(ctx, h.api, chatID, err)
	}
	text, keyboard, ok := h.deps.visitView()
	return sendView(h.api, chatID, text, keyboard, ok)
}

func (h *CommandHandler) handleToggle(ctx context.Context, chatID int64, args string) error {
	index, err := parsePosition(args)
	if err != nil {
		return h.deps.replyError(ctx, h.api, chatID, err)
	}
	items := h.deps.Visits.Checklist()
	if index >= len(items) {
		return menus.SendText(h.api, chatID, fmt.Sprintf("There is no checklist item number %d.", index+1))
	}
	if err := h.deps.Visits.ToggleChecklistItem(ctx, items[index].ID); err != nil {
		return h.deps.replyError(ctx, h.api, chatID, err)
	}
	text, keyboard, ok := h.deps.visitView()
	return sendView(h.api, chatID, text, keyboard, ok)
}

func (h *CommandHandler) handleUncheck(ctx context.Context, chatID int64, args string) error {
	index, err := parsePosition(args)
	if err != nil {
		return h.deps.replyError(ctx, h.api, chatID, err)
	}
	if err := h.deps.Visits.DeleteChecklistItemAt(ctx, index); err != nil {
		return h.deps.replyError(ctx, h.api, chatID, err)
	}
	text, keyboard, ok := h.deps.visitView()
	return sendView(h.api, chatID, text, keyboard, ok)
}

func (h *CommandHandler) handleQuestions(ctx context.Context, chatID int64, args string) error {
	if args == "" {
		h.stateManager.SetUserState(chatID, state.WaitingForQuestions)
		current := h.deps.Visits.Questions()
		if current == "" {
			return menus.SendText(h.api, chatID, "No questions yet. Send me the questions for your doctor.")
		}
		return menus.SendText(h.api, chatID, fmt.Sprintf("Current questions:\n%s\n\nSend new text to replace them.", current))
	}
	if err := h.deps.Visits.SetQuestions(ctx, args); err != nil {
		return h.deps.replyError(ctx, h.api, chatID, err)
	}
	return menus.SendText(h.api, chatID, "Questions saved.")
}

// handleUnknownCommand handles unknown commands
func (h *CommandHandler) handleUnknownCommand(chatID int64) error {
	return menus.SendText(h.api, chatID, "Unknown command. Use /help to see what I can do.")
}
