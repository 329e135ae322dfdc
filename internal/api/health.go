package api

import (
	"net/http"
	"time"
)

type healthResponse struct {
	Status    string         `json:"status"`
	Timestamp string         `json:"timestamp"`
	Services  healthServices `json:"services"`
}

type healthServices struct {
	Ledger  string `json:"ledger"`
	Records int    `json:"records"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ledgerStatus := "ok"
	records := 0
	if investments, err := s.store.ReadAll(r.Context()); err != nil {
		ledgerStatus = "unreadable"
	} else {
		records = len(investments)
	}

	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services:  healthServices{Ledger: ledgerStatus, Records: records},
	})
}
