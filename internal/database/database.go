// Package database opens the configured expense store and applies the
// embedded goose migrations for its dialect.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // registers "sqlite" driver for database/sql

	"github.com/pkordes/expense-tracker/internal/config"
	"github.com/pkordes/expense-tracker/internal/repo"
	"github.com/pkordes/expense-tracker/migrations"
)

// Store is an opened expense store together with the resources backing it.
type Store struct {
	Expenses repo.ExpenseRepo
	close    func()
}

// Close releases the underlying pool or database handle.
func (s *Store) Close() {
	if s.close != nil {
		s.close()
	}
}

// Open connects to the configured backend, verifies it is reachable and
// returns the expense repo bound to it. Migrations are not applied; call
// Migrate first (the serve command does).
func Open(ctx context.Context, cfg config.StoreConfig) (*Store, error) {
	switch cfg.Backend {
	case config.BackendPostgres:
		// New() does not open connections immediately; Ping does.
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("database.Open: create pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("database.Open: ping: %w", err)
		}
		return &Store{Expenses: repo.NewExpenseRepo(pool), close: pool.Close}, nil

	case config.BackendSQLite:
		db, err := OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &Store{Expenses: repo.NewSQLiteExpenseRepo(db), close: func() { _ = db.Close() }}, nil

	default:
		return nil, fmt.Errorf("database.Open: unsupported backend %q", cfg.Backend)
	}
}

// OpenSQLite opens (creating if needed) the SQLite file at path with a busy
// timeout so concurrent requests wait for the write lock instead of failing.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("database.OpenSQLite: create directory: %w", err)
	}

	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("database.OpenSQLite: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database.OpenSQLite: ping: %w", err)
	}
	return db, nil
}

// Direction selects what Migrate does.
type Direction string

const (
	Up     Direction = "up"
	Down   Direction = "down"
	Status Direction = "status"
)

// MigrationResult reports one migration applied, rolled back or pending.
type MigrationResult struct {
	Version int64
	Source  string
	Applied bool
}

// Migrate runs the embedded goose migrations for the configured backend.
// goose needs database/sql, so Postgres is reached through the pgx stdlib
// driver on a short-lived handle.
func Migrate(ctx context.Context, cfg config.StoreConfig, dir Direction) ([]MigrationResult, error) {
	db, dialect, fsys, err := openForMigrations(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	return RunMigrations(ctx, db, dialect, fsys, dir)
}

// RunMigrations applies dir against an already open handle.
func RunMigrations(ctx context.Context, db *sql.DB, dialect goose.Dialect, fsys fs.FS, dir Direction) ([]MigrationResult, error) {
	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return nil, fmt.Errorf("database.RunMigrations: create goose provider: %w", err)
	}

	var out []MigrationResult
	switch dir {
	case Up:
		results, err := provider.Up(ctx)
		if err != nil {
			return nil, fmt.Errorf("database.RunMigrations: up: %w", err)
		}
		for _, r := range results {
			out = append(out, MigrationResult{Version: r.Source.Version, Source: r.Source.Path, Applied: true})
		}
	case Down:
		result, err := provider.Down(ctx)
		if err != nil {
			return nil, fmt.Errorf("database.RunMigrations: down: %w", err)
		}
		if result != nil {
			out = append(out, MigrationResult{Version: result.Source.Version, Source: result.Source.Path})
		}
	case Status:
		statuses, err := provider.Status(ctx)
		if err != nil {
			return nil, fmt.Errorf("database.RunMigrations: status: %w", err)
		}
		for _, s := range statuses {
			out = append(out, MigrationResult{
				Version: s.Source.Version,
				Source:  s.Source.Path,
				Applied: s.State == goose.StateApplied,
			})
		}
	default:
		return nil, fmt.Errorf("database.RunMigrations: unknown direction %q", dir)
	}
	return out, nil
}

func openForMigrations(ctx context.Context, cfg config.StoreConfig) (*sql.DB, goose.Dialect, fs.FS, error) {
	switch cfg.Backend {
	case config.BackendPostgres:
		db, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			return nil, "", nil, fmt.Errorf("database.Migrate: open: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, "", nil, fmt.Errorf("database.Migrate: ping: %w", err)
		}
		return db, goose.DialectPostgres, migrations.Postgres, nil

	case config.BackendSQLite:
		db, err := OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, "", nil, err
		}
		return db, goose.DialectSQLite3, migrations.SQLite, nil

	default:
		return nil, "", nil, fmt.Errorf("database.Migrate: unsupported backend %q", cfg.Backend)
	}
}
