package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/expense-tracker/internal/domain"
	"github.com/pkordes/expense-tracker/internal/repo"
)

// ownerScope is an ExpenseRepo view bound to one verified owner. Every call
// through it filters on that owner, and nothing in it accepts an owner from
// request data.
type ownerScope struct {
	repo  repo.ExpenseRepo
	owner string
}

// scopeTo binds r to owner. An empty owner means the identity context was
// never established and is rejected before any store access.
func scopeTo(r repo.ExpenseRepo, owner string) (ownerScope, error) {
	if strings.TrimSpace(owner) == "" {
		return ownerScope{}, fmt.Errorf("service.scopeTo: %w", domain.ErrUnauthenticated)
	}
	return ownerScope{repo: r, owner: owner}, nil
}

func (s ownerScope) insert(ctx context.Context, fields domain.ExpenseFields) (domain.Expense, error) {
	return s.repo.Insert(ctx, s.owner, fields)
}

func (s ownerScope) list(ctx context.Context) ([]domain.Expense, error) {
	return s.repo.FindByOwner(ctx, s.owner)
}

func (s ownerScope) get(ctx context.Context, id uuid.UUID) (domain.Expense, error) {
	return s.repo.FindOneByOwnerAndID(ctx, s.owner, id)
}

func (s ownerScope) update(ctx context.Context, id uuid.UUID, patch domain.ExpensePatch) (domain.Expense, error) {
	return s.repo.UpdateOneByOwnerAndID(ctx, s.owner, id, patch)
}

func (s ownerScope) delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.repo.DeleteOneByOwnerAndID(ctx, s.owner, id)
}
