package clientdata

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()

	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	for _, table := range AllTables {
		_, err := db.Exec(fmt.Sprintf(
			`CREATE TABLE %s (key TEXT PRIMARY KEY, data TEXT NOT NULL, expires_at INTEGER NOT NULL)`,
			table,
		))
		require.NoError(t, err)
	}

	return NewRepository(db)
}

func TestStoreAndGetIfFresh(t *testing.T) {
	repo := newTestRepo(t)

	payload := map[string]string{"name": "Test Fund"}
	require.NoError(t, repo.Store("eastmoney_search", "bond", payload, time.Hour))

	data, err := repo.GetIfFresh("eastmoney_search", "bond")
	require.NoError(t, err)
	require.NotNil(t, data)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "Test Fund", decoded["name"])
}

func TestGetIfFresh_Missing(t *testing.T) {
	repo := newTestRepo(t)

	data, err := repo.GetIfFresh("eastmoney_search", "nope")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestGetIfFresh_ExpiredReturnsNil(t *testing.T) {
	repo := newTestRepo(t)

	require.NoError(t, repo.Store("eastmoney_estimate", "000001", "stale", -time.Minute))

	data, err := repo.GetIfFresh("eastmoney_estimate", "000001")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestGet_ReturnsStaleData(t *testing.T) {
	repo := newTestRepo(t)

	require.NoError(t, repo.Store("eastmoney_estimate", "000001", "stale", -time.Minute))

	data, err := repo.Get("eastmoney_estimate", "000001")
	require.NoError(t, err)
	require.NotNil(t, data)

	var decoded string
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "stale", decoded)
}

func TestDeleteExpired(t *testing.T) {
	repo := newTestRepo(t)

	require.NoError(t, repo.Store("fund_metrics", "expired", "x", -time.Minute))
	require.NoError(t, repo.Store("fund_metrics", "fresh", "y", time.Hour))

	deleted, err := repo.DeleteExpired("fund_metrics")
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	data, err := repo.Get("fund_metrics", "fresh")
	require.NoError(t, err)
	assert.NotNil(t, data)
}

func TestDeleteAllExpired(t *testing.T) {
	repo := newTestRepo(t)

	require.NoError(t, repo.Store("eastmoney_search", "old", "x", -time.Minute))
	require.NoError(t, repo.Store("fund_metrics", "old", "x", -time.Minute))

	results, err := repo.DeleteAllExpired()
	require.NoError(t, err)
	assert.Equal(t, int64(1), results["eastmoney_search"])
	assert.Equal(t, int64(1), results["fund_metrics"])
	assert.Equal(t, int64(0), results["eastmoney_estimate"])
}

func TestValidateTable_RejectsUnknown(t *testing.T) {
	repo := newTestRepo(t)

	err := repo.Store("users; DROP TABLE funds", "k", "v", time.Hour)
	assert.Error(t, err)
}
