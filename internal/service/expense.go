// Package service contains the business logic for the expense tracker.
// Services validate inputs, scope every store call to the verified owner and
// compute analytics. No SQL lives here; services depend on repo interfaces.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/expense-tracker/internal/domain"
	"github.com/pkordes/expense-tracker/internal/repo"
)

// ExpenseService implements the create, read, update, delete and analytics
// operations for one owner at a time. The owner is always an explicit
// argument taken from the verified identity, never from input.
type ExpenseService struct {
	repo      repo.ExpenseRepo
	validator *Validator
	analytics *Aggregator
	loc       *time.Location
	now       func() time.Time
}

// Option customizes an ExpenseService.
type Option func(*ExpenseService)

// WithClock replaces time.Now for default dates and the analytics window.
func WithClock(now func() time.Time) Option {
	return func(s *ExpenseService) { s.now = now }
}

// WithLocation sets the reference time zone for calendar dates and the
// current-month boundary. Defaults to UTC.
func WithLocation(loc *time.Location) Option {
	return func(s *ExpenseService) { s.loc = loc }
}

// NewExpenseService constructs an ExpenseService backed by the provided repo.
func NewExpenseService(r repo.ExpenseRepo, opts ...Option) *ExpenseService {
	s := &ExpenseService{repo: r, loc: time.UTC, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	s.validator = NewValidator(s.loc)
	s.analytics = NewAggregator(s.loc, s.now)
	return s
}

// Create validates in and stores it as a new expense of owner.
// Returns domain.ErrValidation (as *domain.ValidationError) for bad input,
// in which case the store is never called.
func (s *ExpenseService) Create(ctx context.Context, owner string, in ExpenseInput) (domain.Expense, error) {
	scope, err := scopeTo(s.repo, owner)
	if err != nil {
		return domain.Expense{}, err
	}
	fields, err := s.validator.Create(in, s.now().UTC())
	if err != nil {
		return domain.Expense{}, fmt.Errorf("service.ExpenseService.Create: %w", err)
	}
	result, err := scope.insert(ctx, fields)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("service.ExpenseService.Create: %w", err)
	}
	return result, nil
}

// List returns every expense of owner, date descending.
// Always returns a non-nil slice so callers can safely range over it.
func (s *ExpenseService) List(ctx context.Context, owner string) ([]domain.Expense, error) {
	scope, err := scopeTo(s.repo, owner)
	if err != nil {
		return nil, err
	}
	expenses, err := scope.list(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ExpenseService.List: %w", err)
	}
	if expenses == nil {
		return []domain.Expense{}, nil
	}
	return expenses, nil
}

// Get returns one expense of owner.
// Returns domain.ErrNotFound if it does not exist or belongs to someone else.
func (s *ExpenseService) Get(ctx context.Context, owner string, id uuid.UUID) (domain.Expense, error) {
	scope, err := scopeTo(s.repo, owner)
	if err != nil {
		return domain.Expense{}, err
	}
	result, err := scope.get(ctx, id)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("service.ExpenseService.Get: %w", err)
	}
	return result, nil
}

// Update validates the supplied fields of in and applies them to the owned
// expense id. Unsupplied fields are left untouched.
// Returns domain.ErrValidation for bad input, domain.ErrNotFound if no
// expense with that id belongs to owner.
func (s *ExpenseService) Update(ctx context.Context, owner string, id uuid.UUID, in ExpenseInput) (domain.Expense, error) {
	scope, err := scopeTo(s.repo, owner)
	if err != nil {
		return domain.Expense{}, err
	}
	patch, err := s.validator.Patch(in)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("service.ExpenseService.Update: %w", err)
	}
	result, err := scope.update(ctx, id, patch)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("service.ExpenseService.Update: %w", err)
	}
	return result, nil
}

// Delete removes the owned expense id.
// Returns domain.ErrNotFound if nothing was removed, including on a repeated
// delete of the same id.
func (s *ExpenseService) Delete(ctx context.Context, owner string, id uuid.UUID) error {
	scope, err := scopeTo(s.repo, owner)
	if err != nil {
		return err
	}
	deleted, err := scope.delete(ctx, id)
	if err != nil {
		return fmt.Errorf("service.ExpenseService.Delete: %w", err)
	}
	if !deleted {
		return fmt.Errorf("service.ExpenseService.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// Analytics summarizes every expense of owner. Nothing is cached.
func (s *ExpenseService) Analytics(ctx context.Context, owner string) (domain.Analytics, error) {
	scope, err := scopeTo(s.repo, owner)
	if err != nil {
		return domain.Analytics{}, err
	}
	expenses, err := scope.list(ctx)
	if err != nil {
		return domain.Analytics{}, fmt.Errorf("service.ExpenseService.Analytics: %w", err)
	}
	return s.analytics.Summarize(expenses), nil
}
