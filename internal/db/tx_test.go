package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/glazingpm/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUoW(t *testing.T) (*db.SQLiteUnitOfWork, func(id string) bool) {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	exists := func(id string) bool {
		var n int
		require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM projects WHERE id = ?`, id).Scan(&n))
		return n > 0
	}
	return db.NewSQLiteUnitOfWork(database), exists
}

func insert(ctx context.Context, tx db.DBTX, id string) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO projects (id, short_id, name, start_date, created_at, updated_at)
		VALUES (?, '', 'T', '2025-01-06', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`, id)
	return err
}

func TestWithinTx_CommitOnSuccess(t *testing.T) {
	uow, exists := newUoW(t)
	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return insert(ctx, tx, "k1")
	})
	require.NoError(t, err)
	assert.True(t, exists("k1"))
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	uow, exists := newUoW(t)
	boom := errors.New("deliberate failure")
	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insert(ctx, tx, "k2"); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.False(t, exists("k2"))
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	uow, exists := newUoW(t)
	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_ = insert(ctx, tx, "k3")
			panic("boom")
		})
	})
	assert.False(t, exists("k3"))
}
