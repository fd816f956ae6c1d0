package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vladimiradmaev/health-tracker/internal/config"
	"github.com/vladimiradmaev/health-tracker/internal/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostgresBackend stores keys in the kv_slots table through GORM.
type PostgresBackend struct {
	db *gorm.DB
}

// NewPostgres connects and runs the migrations.
func NewPostgres(cfg config.DBConfig) (*PostgresBackend, error) {
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		return nil, err
	}
	return NewPostgresWithDB(db), nil
}

// NewPostgresWithDB uses an already migrated connection.
func NewPostgresWithDB(db *gorm.DB) *PostgresBackend {
	return &PostgresBackend{db: db}
}

func (b *PostgresBackend) Driver() Driver { return DriverPostgres }

func (b *PostgresBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var slot database.KVSlot
	err := b.db.WithContext(ctx).Where("slot_key = ?", key).First(&slot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get slot %s: %w", key, err)
	}
	return slot.Payload, true, nil
}

func (b *PostgresBackend) Set(ctx context.Context, key string, value []byte) error {
	slot := database.KVSlot{Key: key, Payload: value, UpdatedAt: time.Now()}
	err := b.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slot_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&slot).Error
	if err != nil {
		return fmt.Errorf("failed to save slot %s: %w", key, err)
	}
	return nil
}

func (b *PostgresBackend) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
