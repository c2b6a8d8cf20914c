package api

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handleCapabilityStats(w http.ResponseWriter, r *http.Request) {
	caps := s.orchestrator.Capabilities()
	if caps == nil {
		jsonError(w, "capability stats unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"qa": map[string]any{
			"model": caps.QAModel(),
			"stats": caps.QAStats.Snapshot(),
		},
		"ner": map[string]any{
			"model": caps.NERModel(),
			"stats": caps.NERStats.Snapshot(),
		},
		"queue_depth": s.orchestrator.QueueDepth(),
	})
}
