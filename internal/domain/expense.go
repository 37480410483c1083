// Package domain contains the core data types for the expense tracker.
// It is imported by every other internal package (repo, service, handler)
// and depends on nothing but uuid.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Expense is a single spending record. Owner is fixed at creation and scopes
// every read and write; ID, CreatedAt and UpdatedAt are assigned by the store.
type Expense struct {
	ID          uuid.UUID
	Owner       string
	Title       string
	Amount      float64
	Category    Category
	Date        time.Time
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ExpenseFields is a validated, normalized payload ready for insertion.
// It deliberately has no owner: the owner always comes from the verified
// identity passed alongside it.
type ExpenseFields struct {
	Title       string
	Amount      float64
	Category    Category
	Date        time.Time
	Description string
}

// ExpensePatch is a validated partial update. Nil fields are left untouched.
type ExpensePatch struct {
	Title       *string
	Amount      *float64
	Category    *Category
	Date        *time.Time
	Description *string
}

// IsEmpty reports whether the patch changes no field.
func (p ExpensePatch) IsEmpty() bool {
	return p.Title == nil && p.Amount == nil && p.Category == nil && p.Date == nil && p.Description == nil
}

// CategoryName returns the patched category label, or nil when unchanged.
func (p ExpensePatch) CategoryName() *string {
	if p.Category == nil {
		return nil
	}
	name := p.Category.String()
	return &name
}
