// Package http serves the ledger as a small JSON API.
package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"ledger/internal/core"
	applog "ledger/internal/log"
	"ledger/internal/query"
	"ledger/internal/resample"
)

var errRateLimited = errors.New("rate limit exceeded, please try again later")

// Ledger is the service surface the API needs.
type Ledger interface {
	Schema() core.Schema
	Today() string
	Add(ctx context.Context, r core.Record) error
	Transactions(ctx context.Context, start, end string) (query.Result, error)
	DailySeries(ctx context.Context, start, end string) (query.Result, resample.Series, error)
}

type Server struct {
	http.Server
	ledger      Ledger
	rateLimiter *rateLimiter
	now         func() time.Time

	shutdownOnce sync.Once
}

// NewServer configures routes and returns a ready-to-run server.
func NewServer(addr string, ledger Ledger, logger *applog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
		},
		ledger:      ledger,
		rateLimiter: newRateLimiter(),
		now:         time.Now,
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("GET /api/series", s.handleSeries)

	s.Handler = applog.RequestLogger(logger)(withSecurityHeaders(mux))
	return s
}

// Shutdown gracefully shuts down the server and the rate limiter.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

func withSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

// clientIP prefers the first X-Forwarded-For hop, then X-Real-IP.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
