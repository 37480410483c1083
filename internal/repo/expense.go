// Package repo contains all database access logic for the expense tracker.
// ExpenseRepo is the store contract; it has a Postgres and an embedded SQLite
// implementation. No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/expense-tracker/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Integration tests pass a transaction that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ExpenseRepo defines the persistence operations for Expenses.
// Every read and write after Insert is scoped by owner and id jointly inside
// a single statement, so a record belonging to another owner can never be
// observed or touched.
type ExpenseRepo interface {
	// Insert stores a new expense for owner and returns the persisted record
	// with its store-assigned id, created_at and updated_at.
	Insert(ctx context.Context, owner string, fields domain.ExpenseFields) (domain.Expense, error)

	// FindByOwner returns every expense of owner ordered by date descending.
	FindByOwner(ctx context.Context, owner string) ([]domain.Expense, error)

	// FindOneByOwnerAndID returns domain.ErrNotFound unless an expense with id
	// exists and belongs to owner.
	FindOneByOwnerAndID(ctx context.Context, owner string, id uuid.UUID) (domain.Expense, error)

	// UpdateOneByOwnerAndID applies patch and refreshes updated_at.
	// Returns domain.ErrNotFound if no expense with id belongs to owner.
	UpdateOneByOwnerAndID(ctx context.Context, owner string, id uuid.UUID, patch domain.ExpensePatch) (domain.Expense, error)

	// DeleteOneByOwnerAndID removes the expense and reports whether a row was
	// deleted.
	DeleteOneByOwnerAndID(ctx context.Context, owner string, id uuid.UUID) (bool, error)
}

// storageErr marks err as a persistence fault while keeping the driver error
// in the chain.
func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStorage, err)
}

// pgExpenseRepo is the Postgres implementation of ExpenseRepo.
type pgExpenseRepo struct {
	db db
}

// NewExpenseRepo constructs an ExpenseRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewExpenseRepo(db db) ExpenseRepo {
	return &pgExpenseRepo{db: db}
}

const expenseColumns = `id, owner_id, title, amount, category, spent_at, description, created_at, updated_at`

func (r *pgExpenseRepo) Insert(ctx context.Context, owner string, fields domain.ExpenseFields) (domain.Expense, error) {
	const q = `
		INSERT INTO expenses (owner_id, title, amount, category, spent_at, description)
		VALUES (@owner_id, @title, @amount, @category, @spent_at, @description)
		RETURNING ` + expenseColumns

	args := pgx.NamedArgs{
		"owner_id":    owner,
		"title":       fields.Title,
		"amount":      fields.Amount,
		"category":    fields.Category.String(),
		"spent_at":    fields.Date,
		"description": fields.Description,
	}

	result, err := scanExpense(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Expense{}, storageErr("repo.ExpenseRepo.Insert", err)
	}
	return result, nil
}

func (r *pgExpenseRepo) FindByOwner(ctx context.Context, owner string) ([]domain.Expense, error) {
	const q = `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE owner_id = @owner_id
		ORDER BY spent_at DESC, created_at DESC, id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"owner_id": owner})
	if err != nil {
		return nil, storageErr("repo.ExpenseRepo.FindByOwner", err)
	}
	defer rows.Close()

	expenses := []domain.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, storageErr("repo.ExpenseRepo.FindByOwner: scan", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("repo.ExpenseRepo.FindByOwner: rows", err)
	}
	return expenses, nil
}

func (r *pgExpenseRepo) FindOneByOwnerAndID(ctx context.Context, owner string, id uuid.UUID) (domain.Expense, error) {
	const q = `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE id = @id AND owner_id = @owner_id`

	result, err := scanExpense(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "owner_id": owner}))
	if err != nil {
		return domain.Expense{}, wrapRowErr("repo.ExpenseRepo.FindOneByOwnerAndID", err)
	}
	return result, nil
}

// UpdateOneByOwnerAndID runs a single UPDATE filtered on id and owner.
// NULL parameters leave the column untouched via COALESCE.
func (r *pgExpenseRepo) UpdateOneByOwnerAndID(ctx context.Context, owner string, id uuid.UUID, patch domain.ExpensePatch) (domain.Expense, error) {
	const q = `
		UPDATE expenses
		SET title       = COALESCE(@title::text, title),
		    amount      = COALESCE(@amount::double precision, amount),
		    category    = COALESCE(@category::text, category),
		    spent_at    = COALESCE(@spent_at::timestamptz, spent_at),
		    description = COALESCE(@description::text, description),
		    updated_at  = GREATEST(now(), updated_at)
		WHERE id = @id AND owner_id = @owner_id
		RETURNING ` + expenseColumns

	args := pgx.NamedArgs{
		"id":          id,
		"owner_id":    owner,
		"title":       patch.Title,
		"amount":      patch.Amount,
		"category":    patch.CategoryName(),
		"spent_at":    patch.Date,
		"description": patch.Description,
	}

	result, err := scanExpense(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Expense{}, wrapRowErr("repo.ExpenseRepo.UpdateOneByOwnerAndID", err)
	}
	return result, nil
}

func (r *pgExpenseRepo) DeleteOneByOwnerAndID(ctx context.Context, owner string, id uuid.UUID) (bool, error) {
	const q = `DELETE FROM expenses WHERE id = @id AND owner_id = @owner_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "owner_id": owner})
	if err != nil {
		return false, storageErr("repo.ExpenseRepo.DeleteOneByOwnerAndID", err)
	}
	return tag.RowsAffected() > 0, nil
}

// wrapRowErr keeps domain.ErrNotFound distinct from storage faults.
func wrapRowErr(op string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return storageErr(op, err)
}

// scanner is satisfied by pgx.Row, pgx.Rows, *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanExpense maps a single Postgres row into a domain.Expense.
func scanExpense(s scanner) (domain.Expense, error) {
	var (
		e        domain.Expense
		id       pgtype.UUID
		category string
	)

	err := s.Scan(&id, &e.Owner, &e.Title, &e.Amount, &category, &e.Date, &e.Description, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Expense{}, domain.ErrNotFound
		}
		return domain.Expense{}, err
	}

	e.ID = uuid.UUID(id.Bytes)
	e.Category, err = domain.ParseCategory(category)
	if err != nil {
		return domain.Expense{}, err
	}
	normalizeTimes(&e)
	return e, nil
}

func normalizeTimes(e *domain.Expense) {
	e.Date = e.Date.UTC()
	e.CreatedAt = e.CreatedAt.UTC()
	e.UpdatedAt = e.UpdatedAt.UTC()
}
