package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/vladimiradmaev/health-tracker/internal/config"
)

func main() {
	fmt.Println("🔍 Checking configuration...")

	if err := godotenv.Load(); err != nil {
		fmt.Printf("⚠️  .env file not found: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("❌ Configuration is invalid:\n%v\n", err)
		os.Exit(1)
	}

	fmt.Println("✅ Configuration is valid!")
	fmt.Printf("📋 Details:\n")
	fmt.Printf("  - Storage Driver: %s\n", cfg.Storage.Driver)
	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		fmt.Printf("  - SQLite Path: %s\n", cfg.Storage.SQLitePath)
	case config.DriverPostgres:
		fmt.Printf("  - DB Host: %s\n", cfg.Storage.DB.Host)
		fmt.Printf("  - DB Port: %s\n", cfg.Storage.DB.Port)
		fmt.Printf("  - DB User: %s\n", cfg.Storage.DB.User)
		fmt.Printf("  - DB Password: %s\n", maskToken(cfg.Storage.DB.Password))
		fmt.Printf("  - DB Name: %s\n", cfg.Storage.DB.DBName)
	case config.DriverRedis:
		fmt.Printf("  - Redis Addr: %s\n", cfg.Storage.Redis.Addr())
		fmt.Printf("  - Redis Password: %s\n", maskToken(cfg.Storage.Redis.Password))
		fmt.Printf("  - Redis DB: %d\n", cfg.Storage.Redis.DB)
		fmt.Printf("  - Redis Prefix: %s\n", cfg.Storage.Redis.Prefix)
	}
	fmt.Printf("  - Export Dir: %s\n", cfg.Export.Dir)
	fmt.Printf("  - Export Format: %s\n", cfg.Export.Format)
	fmt.Printf("  - Report Locale: %s\n", cfg.Export.Locale)
	fmt.Printf("  - Report Timezone: %s\n", cfg.Export.Timezone)
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
