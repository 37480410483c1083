package testutil_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/expense-tracker/migrations"
	"github.com/pkordes/expense-tracker/testutil"
)

// TestMigrations_Postgres verifies the full migration round-trip against a
// real Postgres database: up, every table present, reset, every table gone.
// Skipped when TEST_DATABASE_URL is not set.
func TestMigrations_Postgres(t *testing.T) {
	db := testutil.NewSQLDB(t)

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.Postgres)
	require.NoError(t, err, "create goose provider")

	ctx := context.Background()

	// Another package's TestMain may have already migrated this shared test DB.
	if _, err := provider.DownTo(ctx, 0); err != nil {
		t.Fatalf("TestMigrations_Postgres: initial reset: %v", err)
	}

	results, err := provider.Up(ctx)
	require.NoError(t, err, "goose up")
	assert.NotEmpty(t, results, "expected at least one migration to be applied")
	assertPostgresTable(t, db, "expenses", true)

	_, err = provider.DownTo(ctx, 0)
	require.NoError(t, err, "goose reset")
	assertPostgresTable(t, db, "expenses", false)

	// Leave the schema migrated for any package that runs after this one.
	_, err = provider.Up(ctx)
	require.NoError(t, err, "goose re-up")
}

// TestMigrations_SQLite runs the same round-trip against the embedded
// backend. It needs no external database and always runs.
func TestMigrations_SQLite(t *testing.T) {
	db := testutil.OpenSQLite(t)

	provider, err := goose.NewProvider(goose.DialectSQLite3, db, migrations.SQLite)
	require.NoError(t, err, "create goose provider")

	ctx := context.Background()

	results, err := provider.Up(ctx)
	require.NoError(t, err, "goose up")
	assert.NotEmpty(t, results)
	assertSQLiteTable(t, db, "expenses", true)

	_, err = provider.DownTo(ctx, 0)
	require.NoError(t, err, "goose reset")
	assertSQLiteTable(t, db, "expenses", false)
}

func assertPostgresTable(t *testing.T, db *sql.DB, table string, shouldExist bool) {
	t.Helper()

	const q = `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = 'public'
			AND   table_name   = $1
		)`
	var exists bool
	err := db.QueryRowContext(context.Background(), q, table).Scan(&exists)
	require.NoError(t, err, "check table existence for %q", table)
	assert.Equal(t, shouldExist, exists, "table %q existence", table)
}

func assertSQLiteTable(t *testing.T, db *sql.DB, table string, shouldExist bool) {
	t.Helper()

	const q = `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`
	var n int
	err := db.QueryRowContext(context.Background(), q, table).Scan(&n)
	require.NoError(t, err, "check table existence for %q", table)
	assert.Equal(t, shouldExist, n == 1, "table %q existence", table)
}
