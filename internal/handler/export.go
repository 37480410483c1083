package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pkordes/expense-tracker/internal/domain"
	"github.com/pkordes/expense-tracker/internal/identity"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"id", "title", "amount", "category", "date",
	"description", "created_at", "updated_at",
}

// ExportExpenses handles GET /api/expenses/export.
// It returns every expense of the caller, date descending, as a download.
// Use ?format=csv to receive CSV; default is JSON.
func (s *Server) ExportExpenses(w http.ResponseWriter, r *http.Request) {
	owner, _ := identity.OwnerFromContext(r.Context())

	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if format != "" && format != "csv" && format != "json" {
		writeError(w, http.StatusBadRequest, "bad_request", "format must be csv or json")
		return
	}

	expenses, err := s.expenses.List(r.Context(), owner)
	if err != nil {
		s.writeServiceError(w, r, err, expenseNotFound)
		return
	}

	if format == "csv" {
		body := buildCSV(expenses)
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="expenses.csv"`)
		w.Header().Set("Content-Length", strconv.Itoa(body.Len()))
		w.WriteHeader(http.StatusOK)
		_, _ = body.WriteTo(w)
		return
	}

	out := make([]expenseResponse, len(expenses))
	for i, e := range expenses {
		out[i] = expenseToResponse(e)
	}
	w.Header().Set("Content-Disposition", `attachment; filename="expenses.json"`)
	writeJSON(w, http.StatusOK, out)
}

// buildCSV encodes expenses as CSV, header row first. csv.Writer handles
// quoting of commas, quotes and newlines inside titles and descriptions.
func buildCSV(expenses []domain.Expense) *bytes.Buffer {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	//nolint:errcheck // bytes.Buffer.Write never returns an error.
	w.Write(csvHeaders)
	for _, e := range expenses {
		//nolint:errcheck
		w.Write(expenseToCSVRecord(e))
	}
	w.Flush()

	return &buf
}

// expenseToCSVRecord encodes one expense as a flat string slice. Amounts use
// the shortest representation that round-trips; times are RFC 3339 in UTC.
func expenseToCSVRecord(e domain.Expense) []string {
	return []string{
		e.ID.String(),
		e.Title,
		strconv.FormatFloat(e.Amount, 'f', -1, 64),
		e.Category.String(),
		formatTime(e.Date),
		e.Description,
		formatTime(e.CreatedAt),
		formatTime(e.UpdatedAt),
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
