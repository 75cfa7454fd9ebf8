package http

import (
	"net/http"

	applog "ledger/internal/log"
)

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	params, err := parseRangeParams(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	res, err := s.ledger.Transactions(r.Context(), params.Start, params.End)
	if err != nil {
		s.logFailure(r, applog.OpQuery, params, err)
		writeError(w, statusForError(err), err)
		return
	}

	writeJSON(w, http.StatusOK, newTransactionsResponse(s.ledger.Schema(), res))
}

func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	params, err := parseRangeParams(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	res, series, err := s.ledger.DailySeries(r.Context(), params.Start, params.End)
	if err != nil {
		s.logFailure(r, applog.OpSeries, params, err)
		writeError(w, statusForError(err), err)
		return
	}

	writeJSON(w, http.StatusOK, newSeriesResponse(s.ledger.Schema(), res, series))
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	if !s.rateLimiter.allow(clientIP(r), s.now()) {
		w.Header().Set("Retry-After", "60")
		writeError(w, http.StatusTooManyRequests, errRateLimited)
		return
	}

	rec, err := decodeTransactionRequest(r, s.ledger.Schema(), s.ledger.Today())
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			status = http.StatusBadRequest
		}
		writeError(w, status, err)
		return
	}

	if err := s.ledger.Add(r.Context(), rec); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to append transaction",
			applog.FieldOperation, applog.OpAppend,
			applog.FieldError, err)
		writeError(w, statusForError(err), err)
		return
	}

	writeJSON(w, http.StatusCreated, transactionJSON{
		Date:        rec.Date,
		Amount:      rec.Amount,
		Category:    rec.Category,
		Description: rec.Description,
	})
}

func (s *Server) logFailure(r *http.Request, op string, p rangeParams, err error) {
	fields := applog.NewFields().
		WithOperation(op).
		WithRange(p.Start, p.End).
		WithError(err)
	applog.FromContext(r.Context()).WarnContext(r.Context(), "Ledger query failed", fields.ToSlice()...)
}
