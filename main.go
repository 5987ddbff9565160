package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/vladimiradmaev/mammafy-helper/internal/bot"
	"github.com/vladimiradmaev/mammafy-helper/internal/bot/handlers"
	"github.com/vladimiradmaev/mammafy-helper/internal/config"
	apperrors "github.com/vladimiradmaev/mammafy-helper/internal/errors"
	"github.com/vladimiradmaev/mammafy-helper/internal/logger"
	"github.com/vladimiradmaev/mammafy-helper/internal/notifications"
	"github.com/vladimiradmaev/mammafy-helper/internal/services"
	"github.com/vladimiradmaev/mammafy-helper/internal/storage"
	"github.com/vladimiradmaev/mammafy-helper/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.InitWithConfig(logger.Config{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", "error", err)
	}
	logger.Info("Starting Mammafy Helper", "env", cfg.App.Env, "storage", cfg.Storage.Driver)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to open storage", "driver", cfg.Storage.Driver, "error", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close storage", "error", err)
		}
	}()

	loc := cfg.Location()
	clock := utils.SystemClock(loc)
	errs := apperrors.NewHandler(logger.GetLogger())

	// Initialize services
	registry := notifications.NewRegistry(clock, logger.WithFields("component", "registry"))
	scheduler := notifications.NewScheduler(clock)
	pregnancy := services.NewPregnancyService(ctx, store, errs, clock)
	supplements := services.NewSupplementService(ctx, store, registry, scheduler, errs, clock)
	visits := services.NewVisitService(ctx, store, registry, scheduler, errs)
	logger.Info("Services initialized", "supplements", len(supplements.List()), "week", pregnancy.CurrentWeek(clock()))

	senders := []notifications.Sender{notifications.LogSender{Logger: logger.GetLogger()}}

	var telegramBot *bot.Bot
	if cfg.BotEnabled() {
		api, err := bot.NewAPI(cfg.Telegram.Token)
		if err != nil {
			logger.Fatal("Failed to create bot", "error", err)
		}
		senders = append(senders, notifications.NewTelegramSender(api, cfg.Telegram.OwnerChatID))
		telegramBot = bot.NewBot(api, cfg.Telegram.OwnerChatID, handlers.Dependencies{
			Pregnancy:   pregnancy,
			Supplements: supplements,
			Visits:      visits,
			Clock:       clock,
			Location:    loc,
			Errors:      errs,
		})
	}

	if cfg.RabbitMQ.Enabled {
		amqpSender, err := notifications.NewAMQPSender(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue)
		if err != nil {
			logger.Fatal("Failed to connect to RabbitMQ", "error", err)
		}
		defer amqpSender.Close()
		senders = append(senders, amqpSender)
	}

	dispatcher, err := notifications.NewDispatcher(notifications.DispatcherConfig{
		DispatchSpec: cfg.Notifications.DispatchSpec,
		RolloverSpec: cfg.Notifications.RolloverSpec,
		Location:     loc,
		Clock:        clock,
	}, registry, senders, supplements.CheckDayRollover, logger.WithFields("component", "dispatcher"))
	if err != nil {
		logger.Fatal("Failed to create dispatcher", "error", err)
	}
	dispatcher.Start()
	defer dispatcher.Stop()

	var wg sync.WaitGroup
	if telegramBot != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := telegramBot.Start(ctx); err != nil && err != context.Canceled {
				logger.Error("Bot stopped with error", "error", err)
				stop()
			}
		}()
		logger.Info("Bot is running. Press Ctrl+C to stop.")
	} else {
		logger.Warn("TELEGRAM_BOT_TOKEN is not set, reminders go to the log only")
	}

	<-ctx.Done()
	logger.Info("Shutting down")
	wg.Wait()
}

// openStore builds the configured storage backend, optionally behind an LRU cache.
func openStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	var (
		store storage.Store
		err   error
	)

	switch cfg.Storage.Driver {
	case config.DriverMemory:
		store = storage.NewMemoryStore()
	case config.DriverSQLite:
		store, err = storage.OpenSQLite(cfg.Storage.SQLitePath)
	case config.DriverPostgres:
		store, err = storage.OpenPostgres(cfg.DB.DSN())
	case config.DriverRedis:
		store, err = storage.NewRedisStore(ctx, storage.RedisOptions{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
	if err != nil {
		return nil, err
	}

	if !cfg.Cache.Enabled {
		return store, nil
	}
	cached, err := storage.NewCachedStore(store, cfg.Cache.Size, logger.WithFields("component", "cache"))
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}
	return cached, nil
}
