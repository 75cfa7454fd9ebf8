package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"ledger/internal/core"
	"ledger/internal/query"
	"ledger/internal/resample"
	"ledger/internal/store"
)

type transactionJSON struct {
	Date        string `json:"date"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

type summaryJSON struct {
	TotalIncome  string `json:"total_income"`
	TotalExpense string `json:"total_expense"`
	NetSavings   string `json:"net_savings"`
}

type transactionsResponse struct {
	Start        string            `json:"start"`
	End          string            `json:"end"`
	Empty        bool              `json:"empty"`
	Transactions []transactionJSON `json:"transactions"`
	Summary      summaryJSON       `json:"summary"`
}

type seriesResponse struct {
	Start   string   `json:"start"`
	End     string   `json:"end"`
	Empty   bool     `json:"empty"`
	Dates   []string `json:"dates"`
	Income  []string `json:"income"`
	Expense []string `json:"expense"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func newTransactionsResponse(schema core.Schema, res query.Result) transactionsResponse {
	out := transactionsResponse{
		Start:        schema.FormatDate(res.Start),
		End:          schema.FormatDate(res.End),
		Empty:        res.Empty,
		Transactions: make([]transactionJSON, 0, len(res.Transactions)),
		Summary: summaryJSON{
			TotalIncome:  core.FormatAmount(res.Summary.TotalIncome),
			TotalExpense: core.FormatAmount(res.Summary.TotalExpense),
			NetSavings:   core.FormatAmount(res.Summary.NetSavings),
		},
	}
	for _, tx := range res.Transactions {
		out.Transactions = append(out.Transactions, transactionJSON{
			Date:        schema.FormatDate(tx.Date),
			Amount:      tx.Amount.String(),
			Category:    string(tx.Category),
			Description: tx.Description,
		})
	}
	return out
}

func newSeriesResponse(schema core.Schema, res query.Result, s resample.Series) seriesResponse {
	out := seriesResponse{
		Start:   schema.FormatDate(res.Start),
		End:     schema.FormatDate(res.End),
		Empty:   res.Empty,
		Dates:   make([]string, 0, s.Len()),
		Income:  make([]string, 0, s.Len()),
		Expense: make([]string, 0, s.Len()),
	}
	for i := range s.Income {
		out.Dates = append(out.Dates, schema.FormatDate(s.Income[i].Date))
		out.Income = append(out.Income, core.FormatAmount(s.Income[i].Amount))
		out.Expense = append(out.Expense, core.FormatAmount(s.Expense[i].Amount))
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// statusForError maps ledger errors onto HTTP status codes.
func statusForError(err error) int {
	var (
		boundErr  *query.BoundError
		fieldErr  *core.FieldError
		parseErr  *query.ParseError
		formatErr *store.FormatError
	)
	switch {
	case errors.As(err, &boundErr):
		return http.StatusBadRequest
	case errors.As(err, &parseErr), errors.As(err, &formatErr):
		return http.StatusInternalServerError
	case errors.As(err, &fieldErr), errors.Is(err, core.ErrInvalidAmount):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
