package main

import (
	"fmt"
	"os"

	"github.com/vladimiradmaev/mammafy-helper/internal/config"
)

func main() {
	fmt.Println("🔍 Checking configuration...")

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("❌ Failed to load configuration:\n%v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}

	fmt.Println("✅ Configuration is valid!")
	fmt.Printf("📋 Details:\n")
	fmt.Printf("  - Environment: %s\n", cfg.App.Env)
	fmt.Printf("  - Timezone: %s\n", cfg.App.Timezone)
	fmt.Printf("  - Telegram Token: %s\n", maskToken(cfg.Telegram.Token))
	fmt.Printf("  - Owner Chat ID: %d\n", cfg.Telegram.OwnerChatID)
	fmt.Printf("  - Storage Driver: %s\n", cfg.Storage.Driver)
	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		fmt.Printf("  - SQLite Path: %s\n", cfg.Storage.SQLitePath)
	case config.DriverPostgres:
		fmt.Printf("  - DB: %s@%s:%s/%s\n", cfg.DB.User, cfg.DB.Host, cfg.DB.Port, cfg.DB.DBName)
	case config.DriverRedis:
		fmt.Printf("  - Redis: %s:%s db %d\n", cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.DB)
	}
	fmt.Printf("  - Cache: %v (size %d)\n", cfg.Cache.Enabled, cfg.Cache.Size)
	fmt.Printf("  - Dispatch Schedule: %s\n", cfg.Notifications.DispatchSpec)
	fmt.Printf("  - Rollover Schedule: %s\n", cfg.Notifications.RolloverSpec)
	if cfg.RabbitMQ.Enabled {
		fmt.Printf("  - RabbitMQ Queue: %s\n", cfg.RabbitMQ.Queue)
	}
	fmt.Printf("  - Log Level: %v\n", cfg.Logger.Level)
	fmt.Printf("  - Log Output: %s\n", cfg.Logger.OutputPath)
	fmt.Printf("  - Log Format: %s\n", cfg.Logger.Format)
}

func maskToken(token string) string {
	if token == "" {
		return "<not set>"
	}
	if len(token) <= 8 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
