package api

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handleEnrichmentStats(w http.ResponseWriter, r *http.Request) {
	if s.enricher == nil {
		jsonError(w, "enrichment disabled", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"model": s.cfg.GeminiModel,
		"stats": s.enricher.Stats().Snapshot(),
	})
}
