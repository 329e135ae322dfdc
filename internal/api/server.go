package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/aurelian-labs/goldvest-backend/internal/feed"
	"github.com/aurelian-labs/goldvest-backend/internal/ledger"
	"github.com/aurelian-labs/goldvest-backend/internal/notifications"
	"github.com/aurelian-labs/goldvest-backend/internal/report"
	"github.com/aurelian-labs/goldvest-backend/internal/static"
)

type Server struct {
	store      *ledger.Store
	feed       *feed.Feed
	reports    *report.Generator
	notify     *notifications.Sender
	httpServer *http.Server
}

// NewServer wires the router: ingestion and the price feed live under
// /api, everything else falls through to the static collaborator.
// reports and notify may be nil to disable the respective side effects.
func NewServer(store *ledger.Store, priceFeed *feed.Feed, assets *static.Handler,
	reports *report.Generator, notify *notifications.Sender,
	port int, corsOrigin string,
) *Server {
	s := &Server{
		store:   store,
		feed:    priceFeed,
		reports: reports,
		notify:  notify,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("POST /api", s.handleIngest)
	mux.HandleFunc("GET /api/gold-price", s.handleGoldPrice)
	mux.HandleFunc("GET /api/health", s.handleHealth)

	// Everything else in the API namespace is a plain-text 404.
	mux.HandleFunc("/api", s.handleAPINotFound)
	mux.HandleFunc("/api/", s.handleAPINotFound)

	mux.Handle("/", assets)

	handler := recoverMiddleware(corsMiddleware(mux, corsOrigin))

	s.httpServer = &http.Server{
		Addr:        fmt.Sprintf(":%d", port),
		Handler:     handler,
		ReadTimeout: 10 * time.Second,
		// No WriteTimeout: the gold-price stream is long-lived.
	}

	return s
}

// Handler exposes the composed router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) Start() error {
	fmt.Printf("[API] Server started on http://localhost%s\n", s.httpServer.Addr)
	fmt.Printf("[API] Live gold price feed: http://localhost%s/api/gold-price\n", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleAPINotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusNotFound)
	fmt.Fprint(w, "404 Not Found")
}

// --- middleware ---

func corsMiddleware(next http.Handler, allowOrigin string) http.Handler {
	if allowOrigin == "" {
		allowOrigin = "*"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// recoverMiddleware converts a handler panic into a 500 so a single bad
// request can never take the process down or leave the request
// unanswered.
func recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				fmt.Printf("[API] panic in %s %s: %v\n", r.Method, r.URL.Path, rec)
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// --- response helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
