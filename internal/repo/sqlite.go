package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/expense-tracker/internal/domain"
)

// sqlDB is the subset of *sql.DB and *sql.Tx used by the SQLite repo.
type sqlDB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// sqliteExpenseRepo is the embedded SQLite implementation of ExpenseRepo.
// The expense date is stored as fixed-width RFC 3339 text in UTC, which
// sorts chronologically for every four-digit year. created_at and updated_at
// come from the clock and are stored as UTC unix nanoseconds.
type sqliteExpenseRepo struct {
	db  sqlDB
	now func() time.Time
}

// spentAtLayout always renders nine fractional digits so every stored value
// has the same width.
const spentAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

// NewSQLiteExpenseRepo constructs an ExpenseRepo backed by a database/sql
// handle opened with the modernc.org/sqlite driver.
func NewSQLiteExpenseRepo(db sqlDB) ExpenseRepo {
	return &sqliteExpenseRepo{db: db, now: time.Now}
}

func (r *sqliteExpenseRepo) Insert(ctx context.Context, owner string, fields domain.ExpenseFields) (domain.Expense, error) {
	const q = `
		INSERT INTO expenses (id, owner_id, title, amount, category, spent_at, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING ` + expenseColumns

	now := r.now().UTC().UnixNano()
	row := r.db.QueryRowContext(ctx, q,
		uuid.NewString(),
		owner,
		fields.Title,
		fields.Amount,
		fields.Category.String(),
		formatSpentAt(fields.Date),
		fields.Description,
		now,
		now,
	)

	result, err := scanSQLiteExpense(row)
	if err != nil {
		return domain.Expense{}, storageErr("repo.SQLiteExpenseRepo.Insert", err)
	}
	return result, nil
}

func (r *sqliteExpenseRepo) FindByOwner(ctx context.Context, owner string) ([]domain.Expense, error) {
	const q = `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE owner_id = ?
		ORDER BY spent_at DESC, created_at DESC, id`

	rows, err := r.db.QueryContext(ctx, q, owner)
	if err != nil {
		return nil, storageErr("repo.SQLiteExpenseRepo.FindByOwner", err)
	}
	defer rows.Close()

	expenses := []domain.Expense{}
	for rows.Next() {
		e, err := scanSQLiteExpense(rows)
		if err != nil {
			return nil, storageErr("repo.SQLiteExpenseRepo.FindByOwner: scan", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("repo.SQLiteExpenseRepo.FindByOwner: rows", err)
	}
	return expenses, nil
}

func (r *sqliteExpenseRepo) FindOneByOwnerAndID(ctx context.Context, owner string, id uuid.UUID) (domain.Expense, error) {
	const q = `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE id = ? AND owner_id = ?`

	result, err := scanSQLiteExpense(r.db.QueryRowContext(ctx, q, id.String(), owner))
	if err != nil {
		return domain.Expense{}, wrapRowErr("repo.SQLiteExpenseRepo.FindOneByOwnerAndID", err)
	}
	return result, nil
}

func (r *sqliteExpenseRepo) UpdateOneByOwnerAndID(ctx context.Context, owner string, id uuid.UUID, patch domain.ExpensePatch) (domain.Expense, error) {
	const q = `
		UPDATE expenses
		SET title       = COALESCE(?, title),
		    amount      = COALESCE(?, amount),
		    category    = COALESCE(?, category),
		    spent_at    = COALESCE(?, spent_at),
		    description = COALESCE(?, description),
		    updated_at  = MAX(?, updated_at)
		WHERE id = ? AND owner_id = ?
		RETURNING ` + expenseColumns

	var spentAt any
	if patch.Date != nil {
		spentAt = formatSpentAt(*patch.Date)
	}

	row := r.db.QueryRowContext(ctx, q,
		nullable(patch.Title),
		nullable(patch.Amount),
		nullable(patch.CategoryName()),
		spentAt,
		nullable(patch.Description),
		r.now().UTC().UnixNano(),
		id.String(),
		owner,
	)

	result, err := scanSQLiteExpense(row)
	if err != nil {
		return domain.Expense{}, wrapRowErr("repo.SQLiteExpenseRepo.UpdateOneByOwnerAndID", err)
	}
	return result, nil
}

func (r *sqliteExpenseRepo) DeleteOneByOwnerAndID(ctx context.Context, owner string, id uuid.UUID) (bool, error) {
	const q = `DELETE FROM expenses WHERE id = ? AND owner_id = ?`

	res, err := r.db.ExecContext(ctx, q, id.String(), owner)
	if err != nil {
		return false, storageErr("repo.SQLiteExpenseRepo.DeleteOneByOwnerAndID", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, storageErr("repo.SQLiteExpenseRepo.DeleteOneByOwnerAndID", err)
	}
	return n > 0, nil
}

// nullable turns a nil pointer into an untyped SQL NULL.
func nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

func formatSpentAt(t time.Time) string {
	return t.UTC().Format(spentAtLayout)
}

func scanSQLiteExpense(s scanner) (domain.Expense, error) {
	var (
		e                     domain.Expense
		id, category, spentAt string
		createdAt, updateAt   int64
	)

	err := s.Scan(&id, &e.Owner, &e.Title, &e.Amount, &category, &spentAt, &e.Description, &createdAt, &updateAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Expense{}, domain.ErrNotFound
		}
		return domain.Expense{}, err
	}

	e.ID, err = uuid.Parse(id)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("parse id %q: %w", id, err)
	}
	e.Category, err = domain.ParseCategory(category)
	if err != nil {
		return domain.Expense{}, err
	}
	e.Date, err = time.Parse(spentAtLayout, spentAt)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("parse spent_at %q: %w", spentAt, err)
	}
	e.CreatedAt = time.Unix(0, createdAt).UTC()
	e.UpdatedAt = time.Unix(0, updateAt).UTC()
	return e, nil
}
