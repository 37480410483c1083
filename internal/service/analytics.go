package service

import (
	"cmp"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pkordes/expense-tracker/internal/domain"
)

// Aggregator computes Analytics over one owner's expenses. It holds no state
// between calls: every summary is recomputed from the expenses passed in.
//
// Amounts are folded as decimals so repeated additions of values like 0.1
// do not drift; the results are converted back to float64 once.
type Aggregator struct {
	loc *time.Location
	now func() time.Time
}

// NewAggregator returns an Aggregator whose "current month" is evaluated in
// loc against now(). Nil arguments default to UTC and time.Now.
func NewAggregator(loc *time.Location, now func() time.Time) *Aggregator {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &Aggregator{loc: loc, now: now}
}

// Summarize folds expenses into Analytics. An empty input yields zero totals
// and an empty, non-nil CategoryTotals map.
func (a *Aggregator) Summarize(expenses []domain.Expense) domain.Analytics {
	now := a.now().In(a.loc)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, a.loc)

	var total, monthly decimal.Decimal
	byCategory := make(map[domain.Category]decimal.Decimal)

	for _, e := range expenses {
		amount := decimal.NewFromFloat(e.Amount)
		total = total.Add(amount)
		byCategory[e.Category] = byCategory[e.Category].Add(amount)
		if !e.Date.Before(monthStart) && !e.Date.After(now) {
			monthly = monthly.Add(amount)
		}
	}

	out := domain.Analytics{
		TotalSpent:     total.InexactFloat64(),
		CategoryTotals: make(map[domain.Category]float64, len(byCategory)),
		MonthlyTotal:   monthly.InexactFloat64(),
		ExpenseCount:   len(expenses),
		Breakdown:      make([]domain.CategoryTotal, 0, len(byCategory)),
	}

	ranked := make([]domain.Category, 0, len(byCategory))
	for c, sum := range byCategory {
		out.CategoryTotals[c] = sum.InexactFloat64()
		ranked = append(ranked, c)
	}

	// Highest amount first; equal amounts fall back to the category name so
	// the order never depends on map iteration.
	slices.SortFunc(ranked, func(x, y domain.Category) int {
		if c := byCategory[y].Cmp(byCategory[x]); c != 0 {
			return c
		}
		return cmp.Compare(x.String(), y.String())
	})

	for _, c := range ranked {
		out.Breakdown = append(out.Breakdown, domain.CategoryTotal{Category: c, Amount: out.CategoryTotals[c]})
	}

	if len(ranked) > 0 {
		top := out.Breakdown[0]
		out.TopCategory = &top
		out.AveragePerCategory = total.Div(decimal.NewFromInt(int64(len(ranked)))).InexactFloat64()
	}

	return out
}
