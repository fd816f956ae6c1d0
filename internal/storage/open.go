package storage

import (
	"fmt"

	"github.com/vladimiradmaev/health-tracker/internal/config"
)

// OpenBackend builds the backend selected by cfg.Driver.
func OpenBackend(cfg config.StorageConfig) (Backend, error) {
	var (
		backend Backend
		err     error
	)
	switch cfg.Driver {
	case config.DriverSQLite:
		var b *SQLiteBackend
		if b, err = NewSQLite(cfg.SQLitePath); err == nil {
			backend = b
		}
	case config.DriverPostgres:
		var b *PostgresBackend
		if b, err = NewPostgres(cfg.DB); err == nil {
			backend = b
		}
	case config.DriverRedis:
		var b *RedisBackend
		if b, err = NewRedis(cfg.Redis); err == nil {
			backend = b
		}
	case config.DriverMemory:
		backend = NewMemory()
	default:
		err = fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	return backend, nil
}

// LogFields describes an opened backend for the "Storage opened" log line.
func LogFields(b Backend) []any {
	fields := []any{"driver", b.Driver()}
	if s, ok := b.(*SQLiteBackend); ok {
		fields = append(fields, "path", s.Path())
	}
	return fields
}
