package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/expense-tracker/internal/domain"
	"github.com/pkordes/expense-tracker/internal/identity"
	"github.com/pkordes/expense-tracker/internal/service"
)

const expenseNotFound = "expense not found"

// expenseRequest is the JSON body of create and update requests. Unknown
// keys, including any owner, id or timestamp the client sends, are ignored.
// Amount is kept raw so both 12.5 and "12.50" are accepted.
type expenseRequest struct {
	Title       *string         `json:"title"`
	Amount      json.RawMessage `json:"amount"`
	Category    *string         `json:"category"`
	Date        *string         `json:"date"`
	Description *string         `json:"description"`
}

// expenseResponse is the wire shape of one expense.
type expenseResponse struct {
	ID          uuid.UUID       `json:"id"`
	Owner       string          `json:"owner"`
	Title       string          `json:"title"`
	Amount      float64         `json:"amount"`
	Category    domain.Category `json:"category"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// CreateExpense handles POST /api/expenses.
func (s *Server) CreateExpense(w http.ResponseWriter, r *http.Request) {
	owner, _ := identity.OwnerFromContext(r.Context())

	in, ok := decodeExpense(w, r)
	if !ok {
		return
	}

	created, err := s.expenses.Create(r.Context(), owner, in)
	if err != nil {
		s.writeServiceError(w, r, err, expenseNotFound)
		return
	}

	writeJSON(w, http.StatusCreated, expenseToResponse(created))
}

// ListExpenses handles GET /api/expenses. Always answers with a JSON array,
// "[]" when the owner has no expenses.
func (s *Server) ListExpenses(w http.ResponseWriter, r *http.Request) {
	owner, _ := identity.OwnerFromContext(r.Context())

	expenses, err := s.expenses.List(r.Context(), owner)
	if err != nil {
		s.writeServiceError(w, r, err, expenseNotFound)
		return
	}

	out := make([]expenseResponse, len(expenses))
	for i, e := range expenses {
		out[i] = expenseToResponse(e)
	}
	writeJSON(w, http.StatusOK, out)
}

// GetExpense handles GET /api/expenses/{id}.
func (s *Server) GetExpense(w http.ResponseWriter, r *http.Request) {
	owner, _ := identity.OwnerFromContext(r.Context())

	id, ok := expenseID(w, r)
	if !ok {
		return
	}

	expense, err := s.expenses.Get(r.Context(), owner, id)
	if err != nil {
		s.writeServiceError(w, r, err, expenseNotFound)
		return
	}

	writeJSON(w, http.StatusOK, expenseToResponse(expense))
}

// UpdateExpense handles PUT and PATCH /api/expenses/{id}. Both are partial:
// only the keys present in the body are changed.
func (s *Server) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	owner, _ := identity.OwnerFromContext(r.Context())

	id, ok := expenseID(w, r)
	if !ok {
		return
	}
	in, ok := decodeExpense(w, r)
	if !ok {
		return
	}

	updated, err := s.expenses.Update(r.Context(), owner, id, in)
	if err != nil {
		s.writeServiceError(w, r, err, expenseNotFound)
		return
	}

	writeJSON(w, http.StatusOK, expenseToResponse(updated))
}

// DeleteExpense handles DELETE /api/expenses/{id}.
func (s *Server) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	owner, _ := identity.OwnerFromContext(r.Context())

	id, ok := expenseID(w, r)
	if !ok {
		return
	}

	if err := s.expenses.Delete(r.Context(), owner, id); err != nil {
		s.writeServiceError(w, r, err, expenseNotFound)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Expense deleted successfully"})
}

// expenseID parses the {id} path parameter. A value that is not a UUID can
// never name a stored expense, so it is answered as not found.
func expenseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", expenseNotFound)
		return uuid.Nil, false
	}
	return id, true
}

// decodeExpense reads the request body into a service.ExpenseInput. On
// failure it writes the error response itself and returns false.
func decodeExpense(w http.ResponseWriter, r *http.Request) (service.ExpenseInput, bool) {
	var req expenseRequest
	dec := json.NewDecoder(r.Body)
	err := dec.Decode(&req)

	var (
		maxBytes *http.MaxBytesError
		typeErr  *json.UnmarshalTypeError
	)
	switch {
	case err == nil:
	case errors.As(err, &maxBytes):
		writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large",
			fmt.Sprintf("request body exceeds %d bytes", maxBytes.Limit))
		return service.ExpenseInput{}, false
	case errors.Is(err, io.EOF):
		writeError(w, http.StatusBadRequest, "bad_request", "request body is required")
		return service.ExpenseInput{}, false
	case errors.As(err, &typeErr) && typeErr.Field != "":
		verr := &domain.ValidationError{}
		verr.Add(typeErr.Field, "must be a "+typeErr.Type.String())
		writeValidation(w, verr)
		return service.ExpenseInput{}, false
	default:
		writeError(w, http.StatusBadRequest, "bad_request", "malformed JSON body")
		return service.ExpenseInput{}, false
	}

	// The body must hold exactly one JSON value.
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if errors.As(err, &maxBytes) {
			writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large",
				fmt.Sprintf("request body exceeds %d bytes", maxBytes.Limit))
			return service.ExpenseInput{}, false
		}
		writeError(w, http.StatusBadRequest, "bad_request", "unexpected data after JSON body")
		return service.ExpenseInput{}, false
	}

	return service.ExpenseInput{
		Title:       req.Title,
		Amount:      rawAmount(req.Amount),
		Category:    req.Category,
		Date:        req.Date,
		Description: req.Description,
	}, true
}

// rawAmount turns the raw JSON amount into text for the validator. Absent and
// null both mean "not supplied"; a JSON string is unquoted; any other token
// (number, bool, object) is passed through verbatim and left to the
// validator to accept or reject.
func rawAmount(raw json.RawMessage) *string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return &s
		}
	}
	s := string(raw)
	return &s
}

func expenseToResponse(e domain.Expense) expenseResponse {
	return expenseResponse{
		ID:          e.ID,
		Owner:       e.Owner,
		Title:       e.Title,
		Amount:      e.Amount,
		Category:    e.Category,
		Date:        e.Date.UTC(),
		Description: e.Description,
		CreatedAt:   e.CreatedAt.UTC(),
		UpdatedAt:   e.UpdatedAt.UTC(),
	}
}
