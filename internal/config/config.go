package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/vladimiradmaev/health-tracker/internal/logger"
	"golang.org/x/text/language"
)

// Storage drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMemory   = "memory"
)

// Export formats
const (
	FormatPDF  = "pdf"
	FormatXLSX = "xlsx"
)

type Config struct {
	Storage StorageConfig
	Export  ExportConfig
	Logger  LoggerConfig
}

type StorageConfig struct {
	Driver     string
	SQLitePath string
	DB         DBConfig
	Redis      RedisConfig
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// DSN returns the libpq connection string.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.User, c.Password, c.DBName)
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Prefix   string
}

// Addr returns host:port.
func (c RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

type ExportConfig struct {
	Dir      string
	Format   string
	Locale   string
	Timezone string
}

// Location resolves Timezone, where "" and "Local" mean the process zone.
func (c ExportConfig) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// Language parses Locale as a BCP 47 tag.
func (c ExportConfig) Language() (language.Tag, error) {
	return language.Parse(c.Locale)
}

type LoggerConfig struct {
	Level      logger.LogLevel
	OutputPath string
	Format     string
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return logger.LevelDebug
	case "info":
		return logger.LevelInfo
	case "warn", "warning":
		return logger.LevelWarn
	case "error":
		return logger.LevelError
	default:
		return logger.LevelInfo
	}
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	redisDB, err := strconv.Atoi(getEnvOrDefault("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		Storage: StorageConfig{
			Driver:     strings.ToLower(getEnvOrDefault("STORAGE_DRIVER", DriverSQLite)),
			SQLitePath: getEnvOrDefault("SQLITE_PATH", "data/health-tracker.db"),
			DB: DBConfig{
				Host:     getEnvOrDefault("DB_HOST", "localhost"),
				Port:     getEnvOrDefault("DB_PORT", "5432"),
				User:     getEnvOrDefault("DB_USER", "postgres"),
				Password: getEnvOrDefault("DB_PASSWORD", "postgres"),
				DBName:   getEnvOrDefault("DB_NAME", "health_tracker"),
			},
			Redis: RedisConfig{
				Host:     getEnvOrDefault("REDIS_HOST", "localhost"),
				Port:     getEnvOrDefault("REDIS_PORT", "6379"),
				Password: os.Getenv("REDIS_PASSWORD"),
				DB:       redisDB,
				Prefix:   getEnvOrDefault("REDIS_PREFIX", "health-tracker:"),
			},
		},
		Export: ExportConfig{
			Dir:      getEnvOrDefault("EXPORT_DIR", "exports"),
			Format:   strings.ToLower(getEnvOrDefault("EXPORT_FORMAT", FormatPDF)),
			Locale:   getEnvOrDefault("REPORT_LOCALE", "es-ES"),
			Timezone: getEnvOrDefault("REPORT_TIMEZONE", "Local"),
		},
		Logger: LoggerConfig{
			Level:      parseLogLevel(getEnvOrDefault("LOG_LEVEL", "info")),
			OutputPath: getEnvOrDefault("LOG_OUTPUT", "logs/app.log"),
			Format:     getEnvOrDefault("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every problem found, joined.
func (c *Config) Validate() error {
	var errs []error

	switch c.Storage.Driver {
	case DriverSQLite:
		if c.Storage.SQLitePath == "" {
			errs = append(errs, errors.New("SQLITE_PATH must not be empty"))
		}
	case DriverPostgres, DriverRedis, DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver))
	}

	switch c.Export.Format {
	case FormatPDF, FormatXLSX:
	default:
		errs = append(errs, fmt.Errorf("unknown EXPORT_FORMAT %q", c.Export.Format))
	}
	if c.Export.Dir == "" {
		errs = append(errs, errors.New("EXPORT_DIR must not be empty"))
	}
	if _, err := c.Export.Language(); err != nil {
		errs = append(errs, fmt.Errorf("invalid REPORT_LOCALE %q: %w", c.Export.Locale, err))
	}
	if _, err := c.Export.Location(); err != nil {
		errs = append(errs, fmt.Errorf("invalid REPORT_TIMEZONE %q: %w", c.Export.Timezone, err))
	}

	switch c.Logger.Format {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("unknown LOG_FORMAT %q", c.Logger.Format))
	}

	return errors.Join(errs...)
}
