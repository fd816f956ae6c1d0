package database

import (
	"fmt"
	"time"

	"github.com/vladimiradmaev/health-tracker/internal/config"
	"github.com/vladimiradmaev/health-tracker/internal/database/migrations"
	"github.com/vladimiradmaev/health-tracker/internal/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// KVSlot is one persisted storage key.
type KVSlot struct {
	Key       string    `gorm:"column:slot_key;primaryKey"`
	Payload   []byte    `gorm:"column:payload;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

// TableName pins the table created by 0001_create_kv_slots.sql.
func (KVSlot) TableName() string {
	return "kv_slots"
}

func NewPostgresDB(cfg config.DBConfig) (*gorm.DB, error) {
	db, err := Open(postgres.Open(cfg.DSN()))
	if err != nil {
		return nil, err
	}

	logger.Info("Database connection established and migrations completed", "host", cfg.Host, "db", cfg.DBName)
	return db, nil
}

// Open connects through dialector and applies the migrations. The
// connection pool is closed again when they fail.
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := migrate(db); err != nil {
		closeDB(db)
		return nil, err
	}
	return db, nil
}

func migrate(db *gorm.DB) error {
	registry, err := migrations.Default()
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}
	if err := registry.Run(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func closeDB(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		logger.Warn("Cannot reach connection pool", "error", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Warn("Failed to close database connection", "error", err)
	}
}
