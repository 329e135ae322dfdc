package api

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// handleGoldPrice streams synthetic gold prices as server-sent events.
// The subscription is scoped to the request context: when the client
// disconnects the feed closes the channel and the handler returns, so no
// emitter outlives its connection.
func (s *Server) handleGoldPrice(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for quote := range s.feed.Subscribe(r.Context()) {
		data, err := json.Marshal(quote)
		if err != nil {
			fmt.Printf("[FEED] marshal: %v\n", err)
			continue
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
			// Client gone; context cancellation tears down the subscription.
			return
		}
		flusher.Flush()
	}
}
