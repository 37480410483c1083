package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/expense-tracker/internal/config"
	"github.com/pkordes/expense-tracker/internal/domain"
	"github.com/pkordes/expense-tracker/internal/handler"
	"github.com/pkordes/expense-tracker/internal/identity"
	"github.com/pkordes/expense-tracker/internal/service"
)

// mockExpenseServicer is a hand-written test double for handler.ExpenseServicer.
// Each method is a function field; set only the ones your test needs.
type mockExpenseServicer struct {
	create    func(ctx context.Context, owner string, in service.ExpenseInput) (domain.Expense, error)
	list      func(ctx context.Context, owner string) ([]domain.Expense, error)
	get       func(ctx context.Context, owner string, id uuid.UUID) (domain.Expense, error)
	update    func(ctx context.Context, owner string, id uuid.UUID, in service.ExpenseInput) (domain.Expense, error)
	delete    func(ctx context.Context, owner string, id uuid.UUID) error
	analytics func(ctx context.Context, owner string) (domain.Analytics, error)
}

func (m *mockExpenseServicer) Create(ctx context.Context, owner string, in service.ExpenseInput) (domain.Expense, error) {
	return m.create(ctx, owner, in)
}
func (m *mockExpenseServicer) List(ctx context.Context, owner string) ([]domain.Expense, error) {
	return m.list(ctx, owner)
}
func (m *mockExpenseServicer) Get(ctx context.Context, owner string, id uuid.UUID) (domain.Expense, error) {
	return m.get(ctx, owner, id)
}
func (m *mockExpenseServicer) Update(ctx context.Context, owner string, id uuid.UUID, in service.ExpenseInput) (domain.Expense, error) {
	return m.update(ctx, owner, id, in)
}
func (m *mockExpenseServicer) Delete(ctx context.Context, owner string, id uuid.UUID) error {
	return m.delete(ctx, owner, id)
}
func (m *mockExpenseServicer) Analytics(ctx context.Context, owner string) (domain.Analytics, error) {
	return m.analytics(ctx, owner)
}

// compile-time check: mockExpenseServicer must satisfy handler.ExpenseServicer.
var _ handler.ExpenseServicer = (*mockExpenseServicer)(nil)

// compile-time check: the real service must satisfy it too.
var _ handler.ExpenseServicer = (*service.ExpenseService)(nil)

const (
	alice      = "user-alice"
	bodyLimit  = 1 << 10
	userHeader = "X-User-ID"
)

// newTestRouter wires svc through the production router with a discarding
// logger, so middleware and routing are exercised exactly as in main.
func newTestRouter(svc handler.ExpenseServicer) http.Handler {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return handler.NewRouter(handler.NewServer(svc, log), handler.RouterConfig{
		CORSOrigins:  []string{"http://localhost:3000"},
		MaxBodyBytes: bodyLimit,
		Identity:     identity.NewResolver(config.IdentityConfig{Header: userHeader}),
	}, log)
}

// do sends a request as owner (no identity header when owner is empty).
func do(t *testing.T, h http.Handler, method, path, owner, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if owner != "" {
		req.Header.Set(userHeader, owner)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Fields  []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"fields"`
	} `json:"error"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var body errorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}
