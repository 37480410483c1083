package database_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/expense-tracker/internal/config"
	"github.com/pkordes/expense-tracker/internal/database"
	"github.com/pkordes/expense-tracker/internal/domain"
)

func sqliteConfig(t *testing.T) config.StoreConfig {
	t.Helper()
	return config.StoreConfig{
		Backend:    config.BackendSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "nested", "expenses.db"),
	}
}

func TestMigrateThenOpen_SQLite(t *testing.T) {
	ctx := context.Background()
	cfg := sqliteConfig(t)

	results, err := database.Migrate(ctx, cfg, database.Up)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.EqualValues(t, 1, results[0].Version)
	assert.True(t, results[0].Applied)

	store, err := database.Open(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(store.Close)

	created, err := store.Expenses.Insert(ctx, "user-1", domain.ExpenseFields{
		Title:    "Coffee",
		Amount:   3.2,
		Category: domain.CategoryFood,
		Date:     time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, "user-1", created.Owner)
}

func TestMigrate_StatusAndDown_SQLite(t *testing.T) {
	ctx := context.Background()
	cfg := sqliteConfig(t)

	status, err := database.Migrate(ctx, cfg, database.Status)
	require.NoError(t, err)
	require.Len(t, status, 1)
	assert.False(t, status[0].Applied)

	_, err = database.Migrate(ctx, cfg, database.Up)
	require.NoError(t, err)

	status, err = database.Migrate(ctx, cfg, database.Status)
	require.NoError(t, err)
	assert.True(t, status[0].Applied)

	down, err := database.Migrate(ctx, cfg, database.Down)
	require.NoError(t, err)
	require.Len(t, down, 1)
	assert.EqualValues(t, 1, down[0].Version)
}

func TestMigrate_UnknownDirection(t *testing.T) {
	_, err := database.Migrate(context.Background(), sqliteConfig(t), database.Direction("sideways"))

	assert.Error(t, err)
}

func TestOpen_UnsupportedBackend(t *testing.T) {
	_, err := database.Open(context.Background(), config.StoreConfig{Backend: "mongo"})

	assert.Error(t, err)
}
