package database

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
)

func TestOpenClosesPoolWhenMigrationsFail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	// every migration statement is unexpected and fails; only Close is allowed
	mock.ExpectClose()

	gdb, err := Open(postgres.New(postgres.Config{Conn: db}))

	require.Error(t, err)
	assert.Nil(t, gdb)
	assert.Contains(t, err.Error(), "failed to run migrations")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKVSlotTableName(t *testing.T) {
	assert.Equal(t, "kv_slots", KVSlot{}.TableName())
}
