package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/aurelian-labs/goldvest-backend/internal/models"
	"github.com/aurelian-labs/goldvest-backend/internal/sanitize"
)

// handleIngest accepts one investment record: decode, sanitize, append.
// The sanitized record is the canonical one, both for storage and for
// the response body. Report generation runs detached afterwards;
// ingestion success is defined purely by successful persistence.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body: "+err.Error())
		return
	}
	if fields == nil {
		writeError(w, http.StatusBadRequest, "malformed request body: expected a JSON object")
		return
	}

	record := models.Investment(sanitize.Map(fields))

	stored, err := s.store.Append(r.Context(), record)
	if err != nil {
		fmt.Printf("[API] Append failed: %v\n", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.triggerReport()

	writeJSON(w, http.StatusCreated, stored)
}

// triggerReport snapshots the ledger and renders a report on its own
// goroutine. The ledger lock is released before any formatting happens,
// and failures are only ever logged.
func (s *Server) triggerReport() {
	if s.reports == nil {
		return
	}
	go func() {
		investments, err := s.store.ReadAll(context.Background())
		if err != nil {
			fmt.Printf("[REPORT] Skipped, ledger unreadable: %v\n", err)
			return
		}
		path, err := s.reports.Generate(investments)
		if err != nil {
			fmt.Printf("[REPORT] Generation failed: %v\n", err)
			return
		}
		if s.notify != nil && s.notify.Enabled() {
			s.notify.Send("Investment report generated: " + filepath.Base(path))
		}
	}()
}
