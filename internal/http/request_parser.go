package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"ledger/internal/core"
)

const maxBodyBytes = 1 << 16

// rangeParams holds the raw start and end bounds of a query.
type rangeParams struct {
	Start string
	End   string
}

// parseRangeParams reads start and end from the query string. Both are
// required; their format is checked by the range filter.
func parseRangeParams(query url.Values) (rangeParams, error) {
	p := rangeParams{
		Start: strings.TrimSpace(query.Get("start")),
		End:   strings.TrimSpace(query.Get("end")),
	}
	var missing []string
	if p.Start == "" {
		missing = append(missing, "start")
	}
	if p.End == "" {
		missing = append(missing, "end")
	}
	if len(missing) > 0 {
		return rangeParams{}, fmt.Errorf("missing query parameter: %s", strings.Join(missing, ", "))
	}
	return p, nil
}

// transactionRequest is the body of POST /api/transactions. Amount accepts
// a JSON number or a numeric string.
type transactionRequest struct {
	Date        string      `json:"date"`
	Amount      json.Number `json:"amount"`
	Category    string      `json:"category"`
	Description string      `json:"description"`
}

// decodeTransactionRequest reads and normalizes a new record. An empty date
// becomes today and any other date must be in the schema layout; the amount
// must be a decimal number.
func decodeTransactionRequest(r *http.Request, schema core.Schema, today string) (core.Record, error) {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	var req transactionRequest
	if err := dec.Decode(&req); err != nil {
		return core.Record{}, fmt.Errorf("decode request body: %w", err)
	}

	date := strings.TrimSpace(req.Date)
	if date == "" {
		date = today
	}
	d, err := schema.ParseDate(date)
	if err != nil {
		return core.Record{}, &core.FieldError{Field: schema.Columns[0], Value: date, Err: err}
	}

	if strings.TrimSpace(req.Amount.String()) == "" {
		return core.Record{}, errors.New("amount is required")
	}
	amount, err := core.ParseAmount(req.Amount.String())
	if err != nil {
		return core.Record{}, err
	}

	category := core.ParseCategory(req.Category)
	if category == "" {
		return core.Record{}, errors.New("category is required")
	}

	return core.Record{
		Date:        schema.FormatDate(d),
		Amount:      amount.String(),
		Category:    string(category),
		Description: sanitizeInput(req.Description),
	}, nil
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' {
			return -1
		}
		return r
	}, s)
}
