package pgindex

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/w3ledger/w3ledger/schema"
)

// setupTestDB starts a postgres container and applies the migrations.
func setupTestDB(t *testing.T) (*Pool, func()) {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres container test skipped in short mode")
	}

	ctx := context.Background()
	container, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start postgres container")

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string")

	pool, err := NewPool(ctx, dsn)
	require.NoError(t, err, "failed to create pool")
	require.NoError(t, NewStore(pool).Migrate(ctx))

	cleanup := func() {
		pool.Close()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}
	return pool, cleanup
}

func TestStore_RecordAndLookup(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewStore(pool)
	addr := "0x71c7656ec7ab88b098defb751b7401b5f6d8976f"

	heights, err := store.LookupHeights(ctx, addr)
	require.NoError(t, err)
	assert.Empty(t, heights)

	require.NoError(t, store.RecordHeight(ctx, addr, 42))
	require.NoError(t, store.RecordHeight(ctx, "0x71C7656EC7ab88b098defB751B7401B5f6d8976F", 43))
	require.NoError(t, store.RecordHeight(ctx, addr, 42))
	require.NoError(t, store.RecordHeight(ctx, "0x2e8f4a7b9c3d1e0f5a6b7c8d9e0f1a2b3c4d5e6f", 7))

	heights, err = store.LookupHeights(ctx, addr)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint64{42, 43, 42}, heights)

	// migrations are idempotent
	require.NoError(t, store.Migrate(ctx))
}

func TestStore_Unavailable(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	store := NewStore(pool)
	cleanup()

	err := store.RecordHeight(context.Background(), "0xabc", 1)
	assert.ErrorIs(t, err, schema.ErrStorageUnavailable)
	_, err = store.LookupHeights(context.Background(), "0xabc")
	assert.ErrorIs(t, err, schema.ErrStorageUnavailable)
}
