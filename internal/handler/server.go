// Package handler implements the HTTP handlers for the expense tracker API.
// All handlers are methods on Server; they are split into files per concern
// (expense.go, analytics.go, export.go, health.go) and registered on a chi
// router by NewRouter.
package handler

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pkordes/expense-tracker/internal/domain"
	"github.com/pkordes/expense-tracker/internal/service"
)

// ExpenseServicer defines the business operations the expense handlers
// depend on. It is declared here, in the consumer, so handler tests can
// inject a mock without touching a store.
type ExpenseServicer interface {
	Create(ctx context.Context, owner string, in service.ExpenseInput) (domain.Expense, error)
	List(ctx context.Context, owner string) ([]domain.Expense, error)
	Get(ctx context.Context, owner string, id uuid.UUID) (domain.Expense, error)
	Update(ctx context.Context, owner string, id uuid.UUID, in service.ExpenseInput) (domain.Expense, error)
	Delete(ctx context.Context, owner string, id uuid.UUID) error
	Analytics(ctx context.Context, owner string) (domain.Analytics, error)
}

// Server holds the dependencies shared by every handler.
type Server struct {
	expenses ExpenseServicer
	log      *slog.Logger
}

// NewServer constructs the Server. A nil logger falls back to slog.Default().
func NewServer(expenses ExpenseServicer, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{expenses: expenses, log: log}
}
