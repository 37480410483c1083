package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/expense-tracker/internal/repo"
	"github.com/pkordes/expense-tracker/internal/service"
	"github.com/pkordes/expense-tracker/testutil"
)

// newSQLiteRouter wires the real service and an embedded SQLite store behind
// the router, for tests that follow a record through several requests.
func newSQLiteRouter(t *testing.T, now time.Time) http.Handler {
	t.Helper()
	r := repo.NewSQLiteExpenseRepo(testutil.NewSQLiteDB(t))
	svc := service.NewExpenseService(r, service.WithClock(func() time.Time { return now }))
	return newTestRouter(svc)
}

func TestE2E_OwnershipAndLifecycle(t *testing.T) {
	h := newSQLiteRouter(t, time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC))
	const bob = "user-bob"

	rec := do(t, h, http.MethodPost, "/api/expenses", alice,
		`{"title":"Lunch","amount":"12.50","category":"Food","date":"2025-03-05","owner":"user-bob"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		ID     string  `json:"id"`
		Owner  string  `json:"owner"`
		Amount float64 `json:"amount"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.Equal(t, alice, created.Owner)
	assert.Equal(t, 12.5, created.Amount)

	path := "/api/expenses/" + created.ID

	// bob can neither see, change nor delete it.
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, path, bob, "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodPatch, path, bob, `{"title":"mine"}`).Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodDelete, path, bob, "").Code)
	assert.JSONEq(t, `[]`, do(t, h, http.MethodGet, "/api/expenses", bob, "").Body.String())

	rec = do(t, h, http.MethodPatch, path, alice, `{"amount":20}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/expenses/analytics", alice, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var a struct {
		TotalSpent   float64            `json:"totalSpent"`
		MonthlyTotal float64            `json:"monthlyTotal"`
		ExpenseCount int                `json:"expenseCount"`
		Totals       map[string]float64 `json:"categoryTotals"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&a))
	assert.Equal(t, 20.0, a.TotalSpent)
	assert.Equal(t, 20.0, a.MonthlyTotal)
	assert.Equal(t, 1, a.ExpenseCount)
	assert.Equal(t, map[string]float64{"Food": 20}, a.Totals)

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodDelete, path, alice, "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodDelete, path, alice, "").Code)
}

func TestE2E_ValidationFieldsReachClient(t *testing.T) {
	h := newSQLiteRouter(t, time.Now())

	rec := do(t, h, http.MethodPost, "/api/expenses", alice, `{"title":"","amount":-3,"category":"Travel"}`)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decodeError(t, rec)
	fields := make([]string, 0, len(body.Error.Fields))
	for _, f := range body.Error.Fields {
		fields = append(fields, f.Field)
	}
	assert.Equal(t, []string{"title", "amount", "category"}, fields)
}
