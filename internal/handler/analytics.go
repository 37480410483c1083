package handler

import (
	"net/http"

	"github.com/pkordes/expense-tracker/internal/domain"
	"github.com/pkordes/expense-tracker/internal/identity"
)

type categoryTotalResponse struct {
	Category domain.Category `json:"category"`
	Amount   float64         `json:"amount"`
}

// analyticsResponse is the wire shape of GET /api/expenses/analytics.
// CategoryTotals is keyed by category label; TopCategory is null when the
// owner has no expenses.
type analyticsResponse struct {
	TotalSpent         float64                     `json:"totalSpent"`
	CategoryTotals     map[domain.Category]float64 `json:"categoryTotals"`
	MonthlyTotal       float64                     `json:"monthlyTotal"`
	ExpenseCount       int                         `json:"expenseCount"`
	TopCategory        *categoryTotalResponse      `json:"topCategory"`
	AveragePerCategory float64                     `json:"averagePerCategory"`
	Breakdown          []categoryTotalResponse     `json:"breakdown"`
}

// GetAnalytics handles GET /api/expenses/analytics.
func (s *Server) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	owner, _ := identity.OwnerFromContext(r.Context())

	a, err := s.expenses.Analytics(r.Context(), owner)
	if err != nil {
		s.writeServiceError(w, r, err, expenseNotFound)
		return
	}

	writeJSON(w, http.StatusOK, analyticsToResponse(a))
}

func analyticsToResponse(a domain.Analytics) analyticsResponse {
	out := analyticsResponse{
		TotalSpent:         a.TotalSpent,
		CategoryTotals:     a.CategoryTotals,
		MonthlyTotal:       a.MonthlyTotal,
		ExpenseCount:       a.ExpenseCount,
		AveragePerCategory: a.AveragePerCategory,
		Breakdown:          make([]categoryTotalResponse, len(a.Breakdown)),
	}
	if out.CategoryTotals == nil {
		out.CategoryTotals = map[domain.Category]float64{}
	}
	for i, ct := range a.Breakdown {
		out.Breakdown[i] = categoryTotalResponse(ct)
	}
	if a.TopCategory != nil {
		top := categoryTotalResponse(*a.TopCategory)
		out.TopCategory = &top
	}
	return out
}
