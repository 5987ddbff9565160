package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/mammafy-helper/internal/bot/handlers"
	"github.com/vladimiradmaev/mammafy-helper/internal/bot/state"
	"github.com/vladimiradmaev/mammafy-helper/internal/logger"
)

// Bot is the Telegram front end for a single owner chat
type Bot struct {
	api           *tgbotapi.BotAPI
	updateHandler *handlers.UpdateHandler
}

// NewAPI authorizes the Telegram client
func NewAPI(token string) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	logger.Info("Bot authorized", "account", api.Self.UserName)
	return api, nil
}

// NewBot wires the update handlers around an authorized client
func NewBot(api *tgbotapi.BotAPI, ownerChatID int64, deps handlers.Dependencies) *Bot {
	return &Bot{
		api:           api,
		updateHandler: handlers.NewUpdateHandler(api, ownerChatID, deps, state.NewManager()),
	}
}

// Start polls for updates until ctx is cancelled
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	logger.Info("Bot is now listening for updates")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Bot is shutting down")
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if err := b.updateHandler.Handle(ctx, update); err != nil {
				logger.Error("Error handling update", "update_id", update.UpdateID, "error", err)
			}
		}
	}
}
