package service

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pkordes/expense-tracker/internal/domain"
)

// ExpenseInput is raw, unvalidated caller input. Nil means "not supplied".
// Amount and Date stay textual so the validator owns parsing; there is no
// owner field on purpose.
type ExpenseInput struct {
	Title       *string
	Amount      *string
	Category    *string
	Date        *string
	Description *string
}

// dateOnly is the calendar-date layout accepted besides RFC 3339.
const dateOnly = "2006-01-02"

// Every store keeps dates in this range without loss.
const (
	minYear = 1
	maxYear = 9999
)

// Validator turns ExpenseInput into normalized domain payloads.
// Calendar dates without a time are interpreted in loc.
type Validator struct {
	loc *time.Location
}

// NewValidator constructs a Validator for the given reference time zone.
// A nil loc means UTC.
func NewValidator(loc *time.Location) *Validator {
	if loc == nil {
		loc = time.UTC
	}
	return &Validator{loc: loc}
}

// Create validates a full expense. Title, amount and category are required;
// date defaults to now when absent.
func (v *Validator) Create(in ExpenseInput, now time.Time) (domain.ExpenseFields, error) {
	verr := &domain.ValidationError{}

	var out domain.ExpenseFields

	if in.Title == nil {
		verr.Add("title", "is required")
	} else if title, ok := v.title(*in.Title, verr); ok {
		out.Title = title
	}

	if in.Amount == nil {
		verr.Add("amount", "is required")
	} else if amount, ok := v.amount(*in.Amount, verr); ok {
		out.Amount = amount
	}

	if in.Category == nil {
		verr.Add("category", "is required")
	} else if category, ok := v.category(*in.Category, verr); ok {
		out.Category = category
	}

	out.Date = now
	if in.Date != nil {
		if date, ok := v.date(*in.Date, verr); ok {
			out.Date = date
		}
	}

	if in.Description != nil {
		out.Description = strings.TrimSpace(*in.Description)
	}

	if err := verr.OrNil(); err != nil {
		return domain.ExpenseFields{}, err
	}
	return out, nil
}

// Patch validates only the supplied fields, with the same rules as Create.
func (v *Validator) Patch(in ExpenseInput) (domain.ExpensePatch, error) {
	verr := &domain.ValidationError{}

	var out domain.ExpensePatch

	if in.Title != nil {
		if title, ok := v.title(*in.Title, verr); ok {
			out.Title = &title
		}
	}
	if in.Amount != nil {
		if amount, ok := v.amount(*in.Amount, verr); ok {
			out.Amount = &amount
		}
	}
	if in.Category != nil {
		if category, ok := v.category(*in.Category, verr); ok {
			out.Category = &category
		}
	}
	if in.Date != nil {
		if date, ok := v.date(*in.Date, verr); ok {
			out.Date = &date
		}
	}
	if in.Description != nil {
		description := strings.TrimSpace(*in.Description)
		out.Description = &description
	}

	if err := verr.OrNil(); err != nil {
		return domain.ExpensePatch{}, err
	}
	return out, nil
}

func (v *Validator) title(raw string, verr *domain.ValidationError) (string, bool) {
	title := strings.TrimSpace(raw)
	if title == "" {
		verr.Add("title", "must not be empty")
		return "", false
	}
	return title, true
}

func (v *Validator) amount(raw string, verr *domain.ValidationError) (float64, bool) {
	// Plain decimal notation only; Go literal forms such as hex floats or
	// digit separators are not numbers to a client.
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		verr.Add("amount", "must be a number")
		return 0, false
	}
	amount, _ := d.Float64()
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		verr.Add("amount", "must be a number")
		return 0, false
	}
	if d.Sign() < 0 {
		verr.Add("amount", "must be greater than or equal to 0")
		return 0, false
	}
	// -0 and amounts that underflow to zero are stored as plain 0.
	if amount == 0 {
		amount = 0
	}
	return amount, true
}

func (v *Validator) category(raw string, verr *domain.ValidationError) (domain.Category, bool) {
	category, err := domain.ParseCategory(raw)
	if err != nil {
		verr.Add("category", "must be one of "+categoryList())
		return 0, false
	}
	return category, true
}

func (v *Validator) date(raw string, verr *domain.ValidationError) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		t, err = time.ParseInLocation(dateOnly, raw, v.loc)
	}
	if err != nil {
		verr.Add("date", "must be an RFC 3339 timestamp or a YYYY-MM-DD date")
		return time.Time{}, false
	}
	if y := t.UTC().Year(); y < minYear || y > maxYear {
		verr.Add("date", "must fall between years 0001 and 9999")
		return time.Time{}, false
	}
	return t, true
}

func categoryList() string {
	names := make([]string, 0, len(domain.Categories()))
	for _, c := range domain.Categories() {
		names = append(names, c.String())
	}
	return strings.Join(names, ", ")
}
