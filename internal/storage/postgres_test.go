package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupMockPostgres(t *testing.T) (sqlmock.Sqlmock, *PostgresBackend) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return mock, NewPostgresWithDB(gdb)
}

func TestPostgresBackendGet(t *testing.T) {
	mock, b := setupMockPostgres(t)

	rows := sqlmock.NewRows([]string{"slot_key", "payload", "updated_at"}).
		AddRow(ProfilesKey, []byte(`[]`), time.Now())
	mock.ExpectQuery(`SELECT \* FROM "kv_slots" WHERE slot_key = \$1`).WillReturnRows(rows)

	got, ok, err := b.Get(context.Background(), ProfilesKey)

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[]`, string(got))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresBackendGetMissing(t *testing.T) {
	mock, b := setupMockPostgres(t)

	mock.ExpectQuery(`SELECT \* FROM "kv_slots"`).
		WillReturnRows(sqlmock.NewRows([]string{"slot_key", "payload", "updated_at"}))

	_, ok, err := b.Get(context.Background(), ActiveProfileKey)

	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresBackendGetError(t *testing.T) {
	mock, b := setupMockPostgres(t)

	mock.ExpectQuery(`SELECT \* FROM "kv_slots"`).WillReturnError(errors.New("connection reset"))

	_, _, err := b.Get(context.Background(), ProfilesKey)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestPostgresBackendSetUpserts(t *testing.T) {
	mock, b := setupMockPostgres(t)

	mock.ExpectExec(`INSERT INTO "kv_slots" .* ON CONFLICT \("slot_key"\) DO UPDATE SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, b.Set(context.Background(), ProfilesKey, []byte(`[]`)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresBackendClose(t *testing.T) {
	mock, b := setupMockPostgres(t)
	mock.ExpectClose()

	require.NoError(t, b.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}
