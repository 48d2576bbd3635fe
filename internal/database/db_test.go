package database

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T, name string) *DB {
	t.Helper()

	db, err := New(Config{
		Path:    fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()),
		Profile: ProfileCache,
		Name:    name,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func TestMigrate_Catalog(t *testing.T) {
	db := newTestDB(t, "catalog")

	require.NoError(t, db.Migrate())

	// funds table exists and accepts a minimal row
	_, err := db.Exec(`INSERT INTO funds (code, name, type) VALUES ('000001', 'Test Fund', 'equity')`)
	assert.NoError(t, err)
}

func TestMigrate_Cache(t *testing.T) {
	db := newTestDB(t, "cache")

	require.NoError(t, db.Migrate())

	_, err := db.Exec(`INSERT INTO eastmoney_search (key, data, expires_at) VALUES ('bond', '[]', 0)`)
	assert.NoError(t, err)
}

func TestMigrate_Idempotent(t *testing.T) {
	db := newTestDB(t, "catalog")

	require.NoError(t, db.Migrate())
	require.NoError(t, db.Migrate())
}

func TestMigrate_UnknownNameIsNoop(t *testing.T) {
	db := newTestDB(t, "scratch")

	assert.NoError(t, db.Migrate())
}

func TestHealthCheck(t *testing.T) {
	db := newTestDB(t, "cache")
	require.NoError(t, db.Migrate())

	assert.NoError(t, db.HealthCheck(context.Background()))
	assert.NoError(t, db.QuickCheck(context.Background()))
}

func TestWithTransaction_RollbackOnError(t *testing.T) {
	db := newTestDB(t, "cache")
	require.NoError(t, db.Migrate())

	err := WithTransaction(db.Conn(), func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT INTO eastmoney_search (key, data, expires_at) VALUES ('x', '[]', 0)`); err != nil {
			return err
		}
		return fmt.Errorf("boom")
	})
	require.Error(t, err)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM eastmoney_search`).Scan(&count))
	assert.Equal(t, 0, count)
}
