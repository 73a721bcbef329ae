package cache

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `
CREATE TABLE price_cache (cache_key TEXT PRIMARY KEY, data BLOB NOT NULL, expires_at INTEGER NOT NULL);
CREATE TABLE ticker_metadata (cache_key TEXT PRIMARY KEY, data BLOB NOT NULL, expires_at INTEGER NOT NULL);
`

type cachedSeries struct {
	Symbol  string    `msgpack:"symbol"`
	Returns []float64 `msgpack:"returns"`
	Price   float64   `msgpack:"price"`
}

func setupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// Every new connection would get its own empty in-memory database
	db.SetMaxOpenConns(1)

	_, err = db.Exec(testSchema)
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestStoreAndGetIfFresh(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	in := cachedSeries{Symbol: "AAPL", Returns: []float64{0.01, -0.02}, Price: 150.5}
	require.NoError(t, repo.Store(ctx, TablePrices, "AAPL|2023-01-01|2023-12-31", in, time.Hour))

	var out cachedSeries
	found, err := repo.GetIfFresh(ctx, TablePrices, "AAPL|2023-01-01|2023-12-31", &out)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, in, out)
}

func TestStoreUpsert(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Store(ctx, TableMetadata, "MSFT", map[string]string{"v": "1"}, time.Hour))
	require.NoError(t, repo.Store(ctx, TableMetadata, "MSFT", map[string]string{"v": "2"}, time.Hour))

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM ticker_metadata WHERE cache_key = ?", "MSFT").Scan(&count))
	assert.Equal(t, 1, count)

	var out map[string]string
	found, err := repo.GetIfFresh(ctx, TableMetadata, "MSFT", &out)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "2", out["v"])
}

func TestGetIfFresh_ExpiredButGetReturnsStale(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Store(ctx, TablePrices, "K", cachedSeries{Symbol: "OLD"}, -time.Hour))

	var out cachedSeries
	found, err := repo.GetIfFresh(ctx, TablePrices, "K", &out)
	require.NoError(t, err)
	assert.False(t, found)

	found, err = repo.Get(ctx, TablePrices, "K", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "OLD", out.Symbol)
}

func TestMiss(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	var out cachedSeries
	found, err := repo.Get(context.Background(), TablePrices, "missing", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInvalidTable(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	assert.Error(t, repo.Store(ctx, "users; DROP TABLE x", "k", 1, time.Hour))
	_, err := repo.GetIfFresh(ctx, "nope", "k", new(int))
	assert.Error(t, err)
	_, err = repo.DeleteExpired(ctx, "nope")
	assert.Error(t, err)
}

func TestDelete(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Store(ctx, TablePrices, "K", 1, time.Hour))
	require.NoError(t, repo.Delete(ctx, TablePrices, "K"))

	var out int
	found, err := repo.Get(ctx, TablePrices, "K", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDeleteAllExpiredAndCleanupJob(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Store(ctx, TablePrices, "expired1", 1, -time.Hour))
	require.NoError(t, repo.Store(ctx, TablePrices, "fresh", 1, time.Hour))
	require.NoError(t, repo.Store(ctx, TableMetadata, "expired2", 1, -time.Hour))

	results, err := repo.DeleteAllExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), results[TablePrices])
	assert.Equal(t, int64(1), results[TableMetadata])

	require.NoError(t, repo.Store(ctx, TableMetadata, "expired3", 1, -time.Hour))
	job := NewCleanupJob(repo, zerolog.Nop())
	assert.Equal(t, "cache_cleanup", job.Name())
	require.NoError(t, job.Run())

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM ticker_metadata").Scan(&count))
	assert.Equal(t, 0, count)
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM price_cache").Scan(&count))
	assert.Equal(t, 1, count)
}
